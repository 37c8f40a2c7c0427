package services

import (
	"errors"
)

// 业务错误，在handler层映射为HTTP状态码
var (
	// 资源不存在类错误 → 404
	ErrEmailNotFound       = errors.New("email does not exist")
	ErrFolderNotFound      = errors.New("folder does not exist")
	ErrFolderEmailNotFound = errors.New("email does not exist in folder")
	ErrUserNotFound        = errors.New("user does not exist")

	// 输入校验类错误 → 400
	ErrDuplicateFolderEmail = errors.New("email is already in this folder")
	ErrInvalidPriority      = errors.New("priority must be one of: high, normal, low")
)
