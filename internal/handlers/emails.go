package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"postmail/internal/services"

	"github.com/gin-gonic/gin"
)

// ListEmails 获取当前用户可见的全部邮件
//
// 可选的subject查询参数按主题子串过滤
func (h *Handler) ListEmails(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	emails, err := h.emailService.List(c.Request.Context(), userID, c.Query("subject"))
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, "Failed to retrieve emails")
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Emails retrieved successfully", emails)
}

// CreateEmail 发送邮件
func (h *Handler) CreateEmail(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	var req services.CreateEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	email, err := h.emailService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrInvalidPriority):
			h.respondWithError(c, http.StatusBadRequest, err.Error())
		default:
			h.respondWithError(c, http.StatusInternalServerError, "Failed to send email")
		}
		return
	}

	h.respondWithSuccess(c, http.StatusCreated, "Email sent successfully", email)
}

// GetEmail 获取单封邮件
func (h *Handler) GetEmail(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	emailID, ok := h.parseUintParam(c, "id")
	if !ok {
		return
	}

	email, err := h.emailService.Get(c.Request.Context(), userID, emailID)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			h.respondWithError(c, http.StatusNotFound, "Email does not exist")
		} else {
			h.respondWithError(c, http.StatusInternalServerError, "Failed to retrieve email")
		}
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Email retrieved successfully", email)
}

// UpdateEmail 更新邮件的可变字段
func (h *Handler) UpdateEmail(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	emailID, ok := h.parseUintParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateEmailRequest
	if !h.bindJSON(c, &req) {
		return
	}

	email, err := h.emailService.Update(c.Request.Context(), userID, emailID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotFound):
			h.respondWithError(c, http.StatusNotFound, "Email does not exist")
		case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrInvalidPriority):
			h.respondWithError(c, http.StatusBadRequest, err.Error())
		default:
			h.respondWithError(c, http.StatusInternalServerError, "Failed to update email")
		}
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Email updated successfully", email)
}

// DeleteEmail 删除邮件
func (h *Handler) DeleteEmail(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	emailID, ok := h.parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.emailService.Delete(c.Request.Context(), userID, emailID); err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			h.respondWithError(c, http.StatusNotFound, "Email does not exist")
		} else {
			h.respondWithError(c, http.StatusInternalServerError, "Failed to delete email")
		}
		return
	}

	h.respondNoContent(c)
}

// ListEmailsBySender 按发件人地址过滤邮件
func (h *Handler) ListEmailsBySender(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	senderEmail := c.Param("email")
	emails, err := h.emailService.ListBySender(c.Request.Context(), userID, senderEmail)
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, "Failed to retrieve emails")
		return
	}

	h.respondWithSuccess(c, http.StatusOK,
		fmt.Sprintf("Emails sent by %s retrieved successfully", senderEmail), emails)
}

// ListEmailsByRecipient 按收件人地址过滤邮件
func (h *Handler) ListEmailsByRecipient(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	recipientEmail := c.Param("email")
	emails, err := h.emailService.ListByRecipient(c.Request.Context(), userID, recipientEmail)
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, "Failed to retrieve emails")
		return
	}

	h.respondWithSuccess(c, http.StatusOK,
		fmt.Sprintf("Emails received by %s retrieved successfully", recipientEmail), emails)
}

// ListEmailsByStatus 按已读/未读过滤邮件
// 路径参数为"true"时返回已读，其余值一律按未读处理
func (h *Handler) ListEmailsByStatus(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	read := c.Param("value") == "true"
	emails, err := h.emailService.ListByStatus(c.Request.Context(), userID, read)
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, "Failed to retrieve emails")
		return
	}

	message := "Unread emails retrieved successfully"
	if read {
		message = "Read emails retrieved successfully"
	}
	h.respondWithSuccess(c, http.StatusOK, message, emails)
}

// MarkEmailAsRead 标记邮件为已读，幂等
func (h *Handler) MarkEmailAsRead(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	emailID, ok := h.parseUintParam(c, "id")
	if !ok {
		return
	}

	email, err := h.emailService.MarkAsRead(c.Request.Context(), userID, emailID)
	if err != nil {
		if errors.Is(err, services.ErrEmailNotFound) {
			h.respondWithError(c, http.StatusNotFound, "Email does not exist")
		} else {
			h.respondWithError(c, http.StatusInternalServerError, "Failed to change email status")
		}
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Email read status changed successfully", email)
}
