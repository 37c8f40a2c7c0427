package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 错误处理中间件，把panic转换为统一响应信封的500
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		var msg string
		switch err := recovered.(type) {
		case string:
			msg = err
		case error:
			msg = err.Error()
		default:
			msg = fmt.Sprintf("Unknown error: %v", recovered)
		}

		log.Printf("Panic recovered [%s]: %s\n%s", GetRequestID(c), msg, debug.Stack())

		c.JSON(http.StatusInternalServerError, gin.H{
			"message":    "An unexpected error occurred",
			"success":    false,
			"status":     http.StatusInternalServerError,
			"request_id": GetRequestID(c),
		})
		c.Abort()
	})
}
