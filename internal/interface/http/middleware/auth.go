package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/jwt"
	"github.com/xiebiao/mall-admin/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token并验证
// 2. 检查Token黑名单（已登出或被强制失效的Token）
// 3. 将用户信息注入Context，供Handler做权限范围控制
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
// 使用方式：
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeUnauthorized, "请先登录")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 2. 检查黑名单（sessionStore为nil时跳过，用于未接Redis的环境）
		if m.sessionStore != nil {
			isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
			if err != nil {
				response.ErrorWithCode(c, apperrors.ErrCodeInternal, "验证Token失败")
				c.Abort()
				return
			}
			if isBlacklisted {
				response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
				c.Abort()
				return
			}
		}

		// 3. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err) // 自动处理ErrTokenExpired、ErrInvalidToken
			c.Abort()
			return
		}

		// 4. 将用户信息注入Context
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("is_superuser", claims.IsSuperuser)
		c.Set("token", tokenString)

		c.Next()
	}
}

// RequireSuperuser 要求超级管理员
// 必须在RequireAuth之后使用
func (m *AuthMiddleware) RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsSuperuser(c) {
			response.ErrorWithCode(c, apperrors.ErrCodeForbidden, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID（未登录返回0）
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get("user_id"); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetUsername 从Context获取当前登录用户名
func GetUsername(c *gin.Context) string {
	if username, exists := c.Get("username"); exists {
		if u, ok := username.(string); ok {
			return u
		}
	}
	return ""
}

// IsSuperuser 当前登录用户是否超级管理员
func IsSuperuser(c *gin.Context) bool {
	if v, exists := c.Get("is_superuser"); exists {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetToken 从Context获取当前请求的原始Token（登出时加黑名单用）
func GetToken(c *gin.Context) string {
	if v, exists := c.Get("token"); exists {
		if t, ok := v.(string); ok {
			return t
		}
	}
	return ""
}

// MustGetUserID 从Context获取用户ID（不存在则panic）
// 仅用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}
