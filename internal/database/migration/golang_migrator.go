package migration

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// GolangMigrator golang-migrate的Migrator实现
type GolangMigrator struct {
	migrate *migrate.Migrate
	config  Config
}

// NewGolangMigrator 创建golang-migrate迁移器
func NewGolangMigrator(db *sql.DB, config Config) (*GolangMigrator, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}

	if config.MigrationsPath == "" {
		return nil, fmt.Errorf("migrations path cannot be empty")
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{
		MigrationsTable: config.TableName,
		NoTxWrap:        false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite3 driver: %w", err)
	}

	sourceURL := fmt.Sprintf("file://%s", filepath.ToSlash(config.MigrationsPath))

	m, err := migrate.NewWithDatabaseInstance(sourceURL, config.DatabaseName, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return &GolangMigrator{
		migrate: m,
		config:  config,
	}, nil
}

// Up 执行向上迁移
func (g *GolangMigrator) Up(ctx context.Context) error {
	if err := g.migrate.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}
	return nil
}

// Down 回滚所有迁移
func (g *GolangMigrator) Down(ctx context.Context) error {
	if err := g.migrate.Down(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run down migrations: %w", err)
	}
	return nil
}

// Version 返回当前迁移版本
func (g *GolangMigrator) Version(ctx context.Context) (uint, bool, error) {
	version, dirty, err := g.migrate.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Close 释放迁移器资源
// 不关闭外部传入的数据库连接
func (g *GolangMigrator) Close() error {
	sourceErr, _ := g.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("failed to close migration source: %w", sourceErr)
	}
	return nil
}
