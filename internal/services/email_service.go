package services

import (
	"context"
	"errors"
	"fmt"

	"postmail/internal/models"

	"gorm.io/gorm"
)

// EmailService 邮件服务接口
//
// 所有读写都限定在调用者可见的邮件范围内：调用者必须是发件人或收件人
type EmailService interface {
	List(ctx context.Context, userID uint, subject string) ([]*models.Email, error)
	Create(ctx context.Context, userID uint, req *CreateEmailRequest) (*models.Email, error)
	Get(ctx context.Context, userID, emailID uint) (*models.Email, error)
	Update(ctx context.Context, userID, emailID uint, req *UpdateEmailRequest) (*models.Email, error)
	Delete(ctx context.Context, userID, emailID uint) error
	ListBySender(ctx context.Context, userID uint, senderEmail string) ([]*models.Email, error)
	ListByRecipient(ctx context.Context, userID uint, recipientEmail string) ([]*models.Email, error)
	ListByStatus(ctx context.Context, userID uint, read bool) ([]*models.Email, error)
	MarkAsRead(ctx context.Context, userID, emailID uint) (*models.Email, error)
}

// EmailServiceImpl 邮件服务实现
type EmailServiceImpl struct {
	db *gorm.DB
}

// NewEmailService 创建邮件服务实例
func NewEmailService(db *gorm.DB) EmailService {
	return &EmailServiceImpl{db: db}
}

// CreateEmailRequest 发送邮件请求
type CreateEmailRequest struct {
	SenderEmail    string `json:"sender_email" binding:"required,email"`
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
	Subject        string `json:"subject" binding:"required,max=100"`
	Body           string `json:"body"`
	Priority       string `json:"priority"`
}

// UpdateEmailRequest 更新邮件请求
type UpdateEmailRequest struct {
	SenderEmail    string `json:"sender_email" binding:"required,email"`
	RecipientEmail string `json:"recipient_email" binding:"required,email"`
	Subject        string `json:"subject" binding:"required,max=100"`
	Body           string `json:"body"`
	Priority       string `json:"priority"`
}

// scoped 返回限定到调用者可见邮件的查询
func (s *EmailServiceImpl) scoped(ctx context.Context, userID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Email{}).
		Where("sender_id = ? OR recipient_id = ?", userID, userID)
}

// getUserByEmail 按地址解析用户，role用于错误消息
func (s *EmailServiceImpl) getUserByEmail(ctx context.Context, email, role string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s with email '%s' does not exist: %w", role, email, ErrUserNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// List 获取调用者可见的全部邮件
//
// subject非空时按主题做大小写不敏感的子串过滤
func (s *EmailServiceImpl) List(ctx context.Context, userID uint, subject string) ([]*models.Email, error) {
	emails := make([]*models.Email, 0)
	query := s.scoped(ctx, userID)
	if subject != "" {
		// SQLite的LIKE对ASCII默认大小写不敏感
		query = query.Where("subject LIKE ?", "%"+subject+"%")
	}
	if err := query.Order("timestamp DESC").Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

// Create 发送邮件：按地址解析收发双方并落库，状态默认未读
func (s *EmailServiceImpl) Create(ctx context.Context, userID uint, req *CreateEmailRequest) (*models.Email, error) {
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	sender, err := s.getUserByEmail(ctx, req.SenderEmail, "sender")
	if err != nil {
		return nil, err
	}
	recipient, err := s.getUserByEmail(ctx, req.RecipientEmail, "recipient")
	if err != nil {
		return nil, err
	}

	email := &models.Email{
		SenderEmail:    sender.Email,
		RecipientEmail: recipient.Email,
		Subject:        req.Subject,
		Body:           req.Body,
		Status:         false,
		Priority:       priority,
		SenderID:       sender.ID,
		RecipientID:    recipient.ID,
	}

	if err := s.db.WithContext(ctx).Create(email).Error; err != nil {
		return nil, err
	}

	email.Sender = sender
	email.Recipient = recipient
	return email, nil
}

// Get 获取单封邮件
func (s *EmailServiceImpl) Get(ctx context.Context, userID, emailID uint) (*models.Email, error) {
	var email models.Email
	if err := s.scoped(ctx, userID).Where("id = ?", emailID).First(&email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, err
	}
	return &email, nil
}

// Update 更新邮件的可变字段，时间戳保持不变
func (s *EmailServiceImpl) Update(ctx context.Context, userID, emailID uint, req *UpdateEmailRequest) (*models.Email, error) {
	email, err := s.Get(ctx, userID, emailID)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityNormal
	}
	if !models.ValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	sender, err := s.getUserByEmail(ctx, req.SenderEmail, "sender")
	if err != nil {
		return nil, err
	}
	recipient, err := s.getUserByEmail(ctx, req.RecipientEmail, "recipient")
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"sender_email":    sender.Email,
		"recipient_email": recipient.Email,
		"subject":         req.Subject,
		"body":            req.Body,
		"priority":        priority,
		"sender_id":       sender.ID,
		"recipient_id":    recipient.ID,
	}

	if err := s.db.WithContext(ctx).Model(email).Updates(updates).Error; err != nil {
		return nil, err
	}

	email.Sender = sender
	email.Recipient = recipient
	return email, nil
}

// Delete 删除邮件，硬删除
func (s *EmailServiceImpl) Delete(ctx context.Context, userID, emailID uint) error {
	email, err := s.Get(ctx, userID, emailID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(email).Error
}

// ListBySender 按发件人地址过滤
func (s *EmailServiceImpl) ListBySender(ctx context.Context, userID uint, senderEmail string) ([]*models.Email, error) {
	emails := make([]*models.Email, 0)
	if err := s.scoped(ctx, userID).
		Where("sender_email = ?", senderEmail).
		Order("timestamp DESC").
		Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

// ListByRecipient 按收件人地址过滤
func (s *EmailServiceImpl) ListByRecipient(ctx context.Context, userID uint, recipientEmail string) ([]*models.Email, error) {
	emails := make([]*models.Email, 0)
	if err := s.scoped(ctx, userID).
		Where("recipient_email = ?", recipientEmail).
		Order("timestamp DESC").
		Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

// ListByStatus 按已读/未读过滤
func (s *EmailServiceImpl) ListByStatus(ctx context.Context, userID uint, read bool) ([]*models.Email, error) {
	emails := make([]*models.Email, 0)
	if err := s.scoped(ctx, userID).
		Where("status = ?", read).
		Order("timestamp DESC").
		Find(&emails).Error; err != nil {
		return nil, err
	}
	return emails, nil
}

// MarkAsRead 标记为已读，重复标记不报错
func (s *EmailServiceImpl) MarkAsRead(ctx context.Context, userID, emailID uint) (*models.Email, error) {
	email, err := s.Get(ctx, userID, emailID)
	if err != nil {
		return nil, err
	}

	if !email.Status {
		if err := s.db.WithContext(ctx).Model(email).Update("status", true).Error; err != nil {
			return nil, err
		}
	}

	email.Status = true
	return email, nil
}
