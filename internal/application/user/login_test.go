package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall-admin/internal/domain/user"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/jwt"
)

func newUserUseCases(t *testing.T) (*RegisterUseCase, *LoginUseCase) {
	t.Helper()
	store := memory.NewStore()
	userService := user.NewService(memory.NewUserRepository(store))
	jwtManager := jwt.NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)
	// 会话存储为nil：登录不依赖Redis
	return NewRegisterUseCase(userService), NewLoginUseCase(userService, jwtManager, nil)
}

// TestRegisterAndLogin 测试注册登录闭环
func TestRegisterAndLogin(t *testing.T) {
	registerUC, loginUC := newUserUseCases(t)

	resp, err := registerUC.Execute(context.Background(), RegisterRequest{
		Username: "zhangsan",
		Email:    "zhangsan@example.com",
		Password: "pass1234",
		Nickname: "张三",
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)
	assert.Equal(t, "zhangsan", resp.Username)

	login, err := loginUC.Execute(context.Background(), LoginRequest{
		Username: "zhangsan",
		Password: "pass1234",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.RefreshToken)
	assert.Equal(t, resp.UserID, login.User.ID)
	assert.False(t, login.User.IsSuperuser)
}

// TestRegisterValidation 测试注册校验规则
func TestRegisterValidation(t *testing.T) {
	registerUC, _ := newUserUseCases(t)

	cases := []struct {
		name string
		req  RegisterRequest
		code int
	}{
		{"用户名太短", RegisterRequest{Username: "ab", Email: "a@b.com", Password: "pass1234"}, apperrors.ErrCodeInvalidParams},
		{"邮箱格式错误", RegisterRequest{Username: "lisi", Email: "not-an-email", Password: "pass1234"}, apperrors.ErrCodeInvalidParams},
		{"密码太短", RegisterRequest{Username: "lisi", Email: "lisi@example.com", Password: "p1"}, apperrors.ErrWeakPassword.Code},
		{"密码缺少数字", RegisterRequest{Username: "lisi", Email: "lisi@example.com", Password: "passwords"}, apperrors.ErrWeakPassword.Code},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := registerUC.Execute(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, tc.code), "期望错误码%d，实际: %v", tc.code, err)
		})
	}
}

// TestRegisterDuplicate 测试用户名唯一性
func TestRegisterDuplicate(t *testing.T) {
	registerUC, _ := newUserUseCases(t)

	req := RegisterRequest{
		Username: "zhangsan",
		Email:    "zhangsan@example.com",
		Password: "pass1234",
	}
	_, err := registerUC.Execute(context.Background(), req)
	require.NoError(t, err)

	_, err = registerUC.Execute(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrUsernameDuplicate)
}

// TestLoginFailures 测试登录失败路径
func TestLoginFailures(t *testing.T) {
	registerUC, loginUC := newUserUseCases(t)

	_, err := registerUC.Execute(context.Background(), RegisterRequest{
		Username: "zhangsan",
		Email:    "zhangsan@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	t.Run("用户不存在", func(t *testing.T) {
		_, err := loginUC.Execute(context.Background(), LoginRequest{
			Username: "nobody",
			Password: "pass1234",
		})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := loginUC.Execute(context.Background(), LoginRequest{
			Username: "zhangsan",
			Password: "wrong-pass1",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})
}
