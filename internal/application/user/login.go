package user

import (
	"context"
	"log"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/user"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/mall-admin/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证用户名密码（领域服务负责）
// 2. 生成JWT Token对
// 3. 保存会话到Redis（失败不影响登录）
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求DTO
type LoginRequest struct {
	Username string
	Password string
}

// UserInfo 用户信息
type UserInfo struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
	IsSuperuser bool   `json:"is_superuser"`
}

// LoginResponse 登录响应DTO
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Username, u.IsSuperuser)
	if err != nil {
		return nil, err
	}

	// 会话有效期 = Refresh Token有效期
	if uc.sessionStore != nil {
		sessionData := map[string]interface{}{
			"user_id":  u.ID,
			"username": u.Username,
			"login_at": time.Now().Unix(),
		}
		if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, 7*24*time.Hour); err != nil {
			// 会话保存失败不影响登录
			log.Printf("保存登录会话失败: %v", err)
		}
	}

	return &LoginResponse{
		User: UserInfo{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			Nickname:    u.Nickname,
			IsSuperuser: u.IsSuperuser,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 用户登出用例
// JWT无状态，登出通过Redis黑名单让Token提前失效
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
// tokenTTL为Access Token的剩余有效期，黑名单条目到期自动清理
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, token string, tokenTTL time.Duration) error {
	if uc.sessionStore == nil {
		return nil
	}

	if err := uc.sessionStore.AddToBlacklist(ctx, token, tokenTTL); err != nil {
		return err
	}
	return uc.sessionStore.DeleteSession(ctx, userID)
}
