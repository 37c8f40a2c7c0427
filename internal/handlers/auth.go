package handlers

import (
	"errors"
	"net/http"

	"postmail/internal/auth"

	"github.com/gin-gonic/gin"
)

// Signup 注册新用户
func (h *Handler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Signup(&req)
	if err != nil {
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			// 与校验失败字段一致的错误结构
			h.respondWithError(c, http.StatusBadRequest, map[string][]string{
				verr.Field: {verr.Message},
			})
			return
		}
		h.respondWithError(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	h.respondWithSuccess(c, http.StatusCreated, "User registered successfully", response)
}

// Signin 用户登录
func (h *Handler) Signin(c *gin.Context) {
	var req auth.SigninRequest
	if !h.bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Signin(&req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUserInactive):
			// 不区分用户名不存在与密码错误
			h.respondWithError(c, http.StatusBadRequest, "Invalid username or password. Please, check the input data and try again.")
		default:
			h.respondWithError(c, http.StatusInternalServerError, "Signin failed")
		}
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Signin successful", response)
}

// ValidateTokenRequest 令牌校验请求
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// ValidateToken 校验访问令牌，仅确认有效性
func (h *Handler) ValidateToken(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Token is required")
		return
	}

	if err := h.authService.ValidateToken(req.Token); err != nil {
		h.respondWithError(c, http.StatusBadRequest, "Token is invalid or expired")
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Token is valid", nil)
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh 用刷新令牌换取新令牌对
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	response, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		h.respondWithError(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Token refreshed successfully", response)
}
