package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
)

// Service 迁移服务，封装迁移器的生命周期与日志
type Service struct {
	migrator Migrator
	config   Config
	logger   *log.Logger
}

// NewService 创建迁移服务
func NewService(logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(os.Stdout, "[MIGRATION] ", log.LstdFlags)
	}

	return &Service{
		logger: logger,
	}
}

// Initialize 初始化迁移服务
func (s *Service) Initialize(db *sql.DB, config Config) error {
	if config.TableName == "" {
		config.TableName = "schema_migrations"
	}
	if config.DatabaseName == "" {
		config.DatabaseName = "sqlite3"
	}

	if _, err := os.Stat(config.MigrationsPath); err != nil {
		return fmt.Errorf("migrations directory not accessible: %w", err)
	}

	migrator, err := NewGolangMigrator(db, config)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	s.migrator = migrator
	s.config = config

	s.logger.Printf("Migration service initialized with path: %s", config.MigrationsPath)
	return nil
}

// Up 执行所有未应用的迁移
func (s *Service) Up(ctx context.Context) error {
	if s.migrator == nil {
		return fmt.Errorf("migration service not initialized")
	}

	if err := s.migrator.Up(ctx); err != nil {
		return err
	}

	version, dirty, err := s.migrator.Version(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", version)
	}

	s.logger.Printf("Migrations applied, current version: %d", version)
	return nil
}

// Close 释放迁移服务资源
func (s *Service) Close() error {
	if s.migrator == nil {
		return nil
	}
	return s.migrator.Close()
}
