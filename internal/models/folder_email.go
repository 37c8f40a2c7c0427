package models

// FolderEmail 文件夹-邮件关联模型
//
// (email_id, folder_id) 上的唯一约束保证入夹操作是单条原子插入，
// 不依赖先查再插的两步检查
type FolderEmail struct {
	BaseModel
	EmailID  uint `gorm:"not null;uniqueIndex:idx_folder_emails_email_folder,priority:1" json:"email_id"`
	FolderID uint `gorm:"not null;uniqueIndex:idx_folder_emails_email_folder,priority:2;index" json:"folder_id"`

	// 关联关系
	Email  *Email  `gorm:"foreignKey:EmailID;constraint:OnDelete:CASCADE" json:"email,omitempty"`
	Folder *Folder `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE" json:"folder,omitempty"`
}

// TableName 指定表名
func (FolderEmail) TableName() string {
	return "folder_emails"
}
