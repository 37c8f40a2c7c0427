package handlers

import (
	"errors"
	"net/http"

	"postmail/internal/services"

	"github.com/gin-gonic/gin"
)

// ListEmailsInFolder 获取文件夹内的全部邮件
func (h *Handler) ListEmailsInFolder(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	folderID, ok := h.parseUintParam(c, "folder_id")
	if !ok {
		return
	}

	emails, err := h.folderService.ListEmailsInFolder(c.Request.Context(), userID, folderID)
	if err != nil {
		if errors.Is(err, services.ErrFolderNotFound) {
			h.respondWithError(c, http.StatusNotFound, "Folder does not exist")
		} else {
			h.respondWithError(c, http.StatusInternalServerError, "Failed to retrieve folder emails")
		}
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Folder emails retrieved successfully", emails)
}

// AddEmailToFolder 将邮件放入文件夹
func (h *Handler) AddEmailToFolder(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	var req services.AddEmailToFolderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	folderEmail, err := h.folderService.AddEmailToFolder(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateFolderEmail):
			h.respondWithError(c, http.StatusBadRequest, "Email is already in this folder")
		case errors.Is(err, services.ErrFolderNotFound):
			h.respondWithError(c, http.StatusNotFound, "Folder does not exist")
		case errors.Is(err, services.ErrEmailNotFound):
			h.respondWithError(c, http.StatusNotFound, "Email does not exist")
		default:
			h.respondWithError(c, http.StatusInternalServerError, "Failed to add email to folder")
		}
		return
	}

	h.respondWithSuccess(c, http.StatusCreated, "Email added to folder successfully", folderEmail)
}

// RemoveEmailFromFolder 将邮件移出文件夹
func (h *Handler) RemoveEmailFromFolder(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	folderID, ok := h.parseUintParam(c, "folder_id")
	if !ok {
		return
	}

	emailID, ok := h.parseUintParam(c, "email_id")
	if !ok {
		return
	}

	if err := h.folderService.RemoveEmailFromFolder(c.Request.Context(), userID, emailID, folderID); err != nil {
		switch {
		case errors.Is(err, services.ErrFolderNotFound):
			h.respondWithError(c, http.StatusNotFound, "Folder does not exist")
		case errors.Is(err, services.ErrFolderEmailNotFound):
			h.respondWithError(c, http.StatusNotFound, "Email does not exist in folder")
		default:
			h.respondWithError(c, http.StatusInternalServerError, "Failed to remove email from folder")
		}
		return
	}

	h.respondNoContent(c)
}
