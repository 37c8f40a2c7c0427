package middleware

import (
	"net/http"

	"postmail/internal/auth"
	"postmail/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthService 认证服务接口
type AuthService interface {
	Authenticate(tokenString string) (*models.User, error)
}

// AuthRequiredWithService 认证中间件
//
// 校验Bearer访问令牌并把用户信息写入请求context
func AuthRequiredWithService(authService AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		token := auth.ExtractTokenFromHeader(authHeader)
		if token == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		user, err := authService.Authenticate(token)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Set("username", user.Username)

		c.Next()
	}
}

// abortUnauthorized 以统一响应信封返回401并终止请求
func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"message": message,
		"success": false,
		"status":  http.StatusUnauthorized,
	})
	c.Abort()
}

// GetCurrentUser 从context中获取当前用户
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	return user.(*models.User), true
}

// GetCurrentUserID 从context中获取当前用户ID
func GetCurrentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}
