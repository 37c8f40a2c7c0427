package models

import (
	"time"
)

// BaseModel 基础模型，包含通用字段
// 本系统所有删除均为硬删除，不带软删除字段
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableNamer 接口，用于自定义表名
type TableNamer interface {
	TableName() string
}
