package handlers

import (
	"errors"
	"net/http"

	"postmail/internal/services"

	"github.com/gin-gonic/gin"
)

// ListFolders 获取当前用户的全部文件夹
func (h *Handler) ListFolders(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	folders, err := h.folderService.ListFolders(c.Request.Context(), userID)
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, "Failed to retrieve folders")
		return
	}

	h.respondWithSuccess(c, http.StatusOK, "Folders retrieved successfully", folders)
}

// CreateFolder 创建文件夹
func (h *Handler) CreateFolder(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	var req services.CreateFolderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	folder, err := h.folderService.CreateFolder(c.Request.Context(), userID, &req)
	if err != nil {
		h.respondWithError(c, http.StatusInternalServerError, "Failed to create folder")
		return
	}

	h.respondWithSuccess(c, http.StatusCreated, "Folder created successfully", folder)
}

// DeleteFolder 删除文件夹及其关联记录
func (h *Handler) DeleteFolder(c *gin.Context) {
	userID, ok := h.getCurrentUserID(c)
	if !ok {
		return
	}

	folderID, ok := h.parseUintParam(c, "id")
	if !ok {
		return
	}

	if err := h.folderService.DeleteFolder(c.Request.Context(), userID, folderID); err != nil {
		if errors.Is(err, services.ErrFolderNotFound) {
			h.respondWithError(c, http.StatusNotFound, "Folder does not exist")
		} else {
			h.respondWithError(c, http.StatusInternalServerError, "Failed to delete folder")
		}
		return
	}

	h.respondNoContent(c)
}
