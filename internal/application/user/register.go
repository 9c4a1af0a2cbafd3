package user

import (
	"context"

	"github.com/xiebiao/mall-admin/internal/domain/user"
)

// RegisterUseCase 用户注册用例
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

// RegisterRequest 注册请求DTO
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Nickname string
}

// RegisterResponse 注册响应DTO
type RegisterResponse struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Execute 执行注册
// 格式/密码强度校验和加密都在领域服务中完成
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Email, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Nickname: u.Nickname,
	}, nil
}
