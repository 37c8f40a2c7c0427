package models

// Folder 文件夹模型，仅对所属用户可见
type Folder struct {
	BaseModel
	Name   string `gorm:"not null;size:100" json:"name"`
	UserID uint   `gorm:"not null;index" json:"user_id"`

	// 关联关系
	User   *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Emails []FolderEmail `gorm:"foreignKey:FolderID;constraint:OnDelete:CASCADE" json:"emails,omitempty"`
}

// TableName 指定表名
func (Folder) TableName() string {
	return "folders"
}
