package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// TestGenerateAndParseToken 测试Token生成与解析闭环
func TestGenerateAndParseToken(t *testing.T) {
	manager := NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)

	pair, err := manager.GenerateToken(42, "zhangsan", true)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(7200), pair.ExpiresIn)

	claims, err := manager.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "zhangsan", claims.Username)
	assert.True(t, claims.IsSuperuser)
	assert.Equal(t, "42", claims.Subject)
}

// TestParseToken_WrongSecret 测试密钥不匹配
func TestParseToken_WrongSecret(t *testing.T) {
	manager := NewManager("secret-a", time.Hour, time.Hour)
	other := NewManager("secret-b", time.Hour, time.Hour)

	pair, err := manager.GenerateToken(1, "user", false)
	require.NoError(t, err)

	_, err = other.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

// TestParseToken_Expired 测试过期Token
func TestParseToken_Expired(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute, time.Hour)

	pair, err := manager.GenerateToken(1, "user", false)
	require.NoError(t, err)

	_, err = manager.ParseToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired, "过期Token应该返回专门的过期错误")
}

// TestParseToken_Garbage 测试非法字符串
func TestParseToken_Garbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour, time.Hour)

	_, err := manager.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = manager.ParseToken("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
