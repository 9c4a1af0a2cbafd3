package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAppError_Error 测试错误信息格式
func TestAppError_Error(t *testing.T) {
	err := New(40001, "状态流转非法")
	assert.Equal(t, "[40001] 状态流转非法", err.Error())

	wrapped := Wrap(errors.New("connection refused"), "数据库错误")
	assert.Contains(t, wrapped.Error(), "connection refused")
	assert.Equal(t, ErrCodeInternal, wrapped.Code)
}

// TestErrorsIs 测试预定义错误的errors.Is匹配
// 预定义错误是包级指针变量，errors.Is按指针相等匹配；
// 经过fmt.Errorf("%w")包装后仍然可以命中
func TestErrorsIs(t *testing.T) {
	assert.ErrorIs(t, ErrForbidden, ErrForbidden)

	wrapped := fmt.Errorf("查询订单: %w", ErrForbidden)
	assert.ErrorIs(t, wrapped, ErrForbidden)

	// 相同code的不同实例不相等（必须复用预定义变量）
	other := New(ErrCodeForbidden, "无权限访问")
	assert.NotErrorIs(t, other, ErrForbidden)
}

// TestGetAppError 测试错误提取
func TestGetAppError(t *testing.T) {
	t.Run("AppError原样提取", func(t *testing.T) {
		appErr := GetAppError(ErrUserNotFound)
		require.NotNil(t, appErr)
		assert.Equal(t, ErrCodeUserNotFound, appErr.Code)
	})

	t.Run("包装过的AppError也能提取", func(t *testing.T) {
		wrapped := fmt.Errorf("登录: %w", ErrInvalidPassword)
		appErr := GetAppError(wrapped)
		assert.Equal(t, ErrCodeInvalidPassword, appErr.Code)
	})

	t.Run("普通错误转为内部错误", func(t *testing.T) {
		appErr := GetAppError(errors.New("boom"))
		assert.Equal(t, ErrCodeInternal, appErr.Code)
	})
}

// TestIsCode 测试错误码判断
func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(ErrTokenExpired, ErrCodeTokenExpired))
	assert.False(t, IsCode(ErrTokenExpired, ErrCodeInvalidToken))
	assert.False(t, IsCode(errors.New("boom"), ErrCodeInternal))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}
