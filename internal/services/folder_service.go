package services

import (
	"context"
	"errors"

	"postmail/internal/database"
	"postmail/internal/models"

	"gorm.io/gorm"
)

// FolderService 文件夹服务接口
//
// 所有操作限定为调用者拥有的文件夹；不存在与无权访问对调用者不可区分
type FolderService interface {
	ListFolders(ctx context.Context, userID uint) ([]*models.Folder, error)
	CreateFolder(ctx context.Context, userID uint, req *CreateFolderRequest) (*models.Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID uint) error
	AddEmailToFolder(ctx context.Context, userID uint, req *AddEmailToFolderRequest) (*models.FolderEmail, error)
	ListEmailsInFolder(ctx context.Context, userID, folderID uint) ([]*models.Email, error)
	RemoveEmailFromFolder(ctx context.Context, userID, emailID, folderID uint) error
}

// FolderServiceImpl 文件夹服务实现
type FolderServiceImpl struct {
	db *gorm.DB
}

// NewFolderService 创建文件夹服务实例
func NewFolderService(db *gorm.DB) FolderService {
	return &FolderServiceImpl{db: db}
}

// CreateFolderRequest 创建文件夹请求
type CreateFolderRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AddEmailToFolderRequest 邮件入夹请求
type AddEmailToFolderRequest struct {
	EmailID  uint `json:"email_id" binding:"required"`
	FolderID uint `json:"folder_id" binding:"required"`
}

// getOwnedFolder 按所有者加载文件夹
func (s *FolderServiceImpl) getOwnedFolder(ctx context.Context, userID, folderID uint) (*models.Folder, error) {
	var folder models.Folder
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", folderID, userID).
		First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return &folder, nil
}

// ListFolders 获取调用者的全部文件夹
func (s *FolderServiceImpl) ListFolders(ctx context.Context, userID uint) ([]*models.Folder, error) {
	folders := make([]*models.Folder, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder 创建文件夹，名称不要求唯一
func (s *FolderServiceImpl) CreateFolder(ctx context.Context, userID uint, req *CreateFolderRequest) (*models.Folder, error) {
	folder := &models.Folder{
		Name:   req.Name,
		UserID: userID,
	}

	if err := s.db.WithContext(ctx).Create(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}

// DeleteFolder 删除文件夹及其关联记录
func (s *FolderServiceImpl) DeleteFolder(ctx context.Context, userID, folderID uint) error {
	folder, err := s.getOwnedFolder(ctx, userID, folderID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("folder_id = ?", folder.ID).Delete(&models.FolderEmail{}).Error; err != nil {
			return err
		}
		return tx.Delete(folder).Error
	})
}

// AddEmailToFolder 将邮件放入文件夹
//
// 依赖 (email_id, folder_id) 唯一约束的单条插入，重复入夹由约束冲突报出
func (s *FolderServiceImpl) AddEmailToFolder(ctx context.Context, userID uint, req *AddEmailToFolderRequest) (*models.FolderEmail, error) {
	if _, err := s.getOwnedFolder(ctx, userID, req.FolderID); err != nil {
		return nil, err
	}

	var email models.Email
	if err := s.db.WithContext(ctx).
		Where("id = ? AND (sender_id = ? OR recipient_id = ?)", req.EmailID, userID, userID).
		First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}

	folderEmail := &models.FolderEmail{
		EmailID:  req.EmailID,
		FolderID: req.FolderID,
	}

	if err := s.db.WithContext(ctx).Create(folderEmail).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrDuplicateFolderEmail
		}
		return nil, err
	}
	return folderEmail, nil
}

// ListEmailsInFolder 获取文件夹内的全部邮件
func (s *FolderServiceImpl) ListEmailsInFolder(ctx context.Context, userID, folderID uint) ([]*models.Email, error) {
	folder, err := s.getOwnedFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	emails := make([]*models.Email, 0)
	if err := s.db.WithContext(ctx).
		Model(&models.Email{}).
		Joins("JOIN folder_emails ON folder_emails.email_id = emails.id").
		Where("folder_emails.folder_id = ?", folder.ID).
		Order("emails.timestamp DESC").
		Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

// RemoveEmailFromFolder 将邮件移出文件夹
func (s *FolderServiceImpl) RemoveEmailFromFolder(ctx context.Context, userID, emailID, folderID uint) error {
	folder, err := s.getOwnedFolder(ctx, userID, folderID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("email_id = ? AND folder_id = ?", emailID, folder.ID).
		Delete(&models.FolderEmail{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFolderEmailNotFound
	}
	return nil
}
