package handlers

import (
	"fmt"
	"net/http"

	"postmail/internal/auth"
	"postmail/internal/config"
	"postmail/internal/middleware"
	"postmail/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler HTTP处理器
type Handler struct {
	db            *gorm.DB
	config        *config.Config
	authService   *auth.Service
	emailService  services.EmailService
	folderService services.FolderService
}

// New 创建处理器实例
func New(db *gorm.DB, cfg *config.Config) *Handler {
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessExpiry, cfg.Auth.RefreshExpiry)
	authService := auth.NewService(db, jwtManager)
	emailService := services.NewEmailService(db)
	folderService := services.NewFolderService(db)

	return &Handler{
		db:            db,
		config:        cfg,
		authService:   authService,
		emailService:  emailService,
		folderService: folderService,
	}
}

// AuthRequired 返回认证中间件
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return middleware.AuthRequiredWithService(h.authService)
}

// HealthCheck 健康检查
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "Postmail",
		"version": "1.0.0",
	})
}

// Envelope 统一响应信封，四个键始终存在
type Envelope struct {
	Message interface{} `json:"message"`
	Data    interface{} `json:"data"`
	Success bool        `json:"success"`
	Status  int         `json:"status"`
}

// respondWithSuccess 返回成功响应
func (h *Handler) respondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Envelope{
		Message: message,
		Data:    data,
		Success: true,
		Status:  statusCode,
	})
}

// respondWithError 返回错误响应
// message可以是字符串或按字段分组的校验错误
func (h *Handler) respondWithError(c *gin.Context, statusCode int, message interface{}) {
	c.JSON(statusCode, Envelope{
		Message: message,
		Success: false,
		Status:  statusCode,
	})
}

// respondNoContent 返回204
// HTTP不允许204携带响应体，信封在此省略
func (h *Handler) respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// bindJSON 绑定JSON请求体
func (h *Handler) bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// getCurrentUserID 获取当前用户ID
func (h *Handler) getCurrentUserID(c *gin.Context) (uint, bool) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		h.respondWithError(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	return userID, true
}

// parseUintParam 解析uint路径参数
func (h *Handler) parseUintParam(c *gin.Context, paramName string) (uint, bool) {
	paramStr := c.Param(paramName)
	if paramStr == "" {
		h.respondWithError(c, http.StatusBadRequest, "Missing parameter: "+paramName)
		return 0, false
	}

	var paramValue uint
	if _, err := fmt.Sscanf(paramStr, "%d", &paramValue); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Invalid parameter: "+paramName)
		return 0, false
	}

	return paramValue, true
}
