package models

import (
	"time"
)

// Priority 优先级常量
const (
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

// Email 邮件模型
//
// 发件人/收件人同时保存地址列和外键，与查询索引保持一致
type Email struct {
	BaseModel
	SenderEmail    string `gorm:"not null;size:255;index:idx_emails_sender_recipient,priority:1" json:"sender_email"`
	RecipientEmail string `gorm:"not null;size:255;index:idx_emails_sender_recipient,priority:2;index:idx_emails_recipient_status,priority:1" json:"recipient_email"`
	Subject        string `gorm:"not null;size:100" json:"subject"`
	Body           string `gorm:"type:text" json:"body"`

	// 创建时由服务端赋值，之后不可变
	Timestamp time.Time `gorm:"not null;index;autoCreateTime;<-:create" json:"timestamp"`

	// 阅读状态：false=未读 true=已读
	Status   bool   `gorm:"not null;default:false;index:idx_emails_recipient_status,priority:2" json:"status"`
	Priority string `gorm:"not null;size:10;default:normal" json:"priority"`

	SenderID    uint `gorm:"not null;index" json:"-"`
	RecipientID uint `gorm:"not null;index" json:"-"`

	// 关联关系
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

// TableName 指定表名
func (Email) TableName() string {
	return "emails"
}

// ValidPriority 检查优先级取值是否合法
func ValidPriority(p string) bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// MarkAsRead 标记为已读
func (e *Email) MarkAsRead() {
	e.Status = true
}
