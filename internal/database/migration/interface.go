package migration

import (
	"context"
)

// Config 迁移配置
type Config struct {
	MigrationsPath string // 迁移文件目录
	DatabaseName   string // golang-migrate数据库驱动名
	TableName      string // 版本记录表名
}

// Migrator 迁移器接口
type Migrator interface {
	// Up 执行所有未应用的向上迁移
	Up(ctx context.Context) error

	// Down 回滚所有迁移
	Down(ctx context.Context) error

	// Version 返回当前版本以及数据库是否处于dirty状态
	Version(ctx context.Context) (uint, bool, error)

	// Close 释放迁移器持有的资源
	Close() error
}
