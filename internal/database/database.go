package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"postmail/internal/database/migration"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// 导入SQLite驱动
	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Initialize 初始化数据库连接并执行迁移
func Initialize(dbPath, migrationsPath string) (*gorm.DB, error) {
	return InitializeWithDriver(dbPath, migrationsPath, false)
}

// InitializeWithDriver 使用指定驱动初始化数据库连接
func InitializeWithDriver(dbPath, migrationsPath string, usePureGo bool) (*gorm.DB, error) {
	// 确保数据库目录存在
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Warn,
			Colorful: true,
		},
	)

	// 打开数据库连接
	var db *gorm.DB
	var err error

	if usePureGo {
		// 纯Go SQLite驱动（用于测试）
		db, err = gorm.Open(sqlite.Dialector{
			DriverName: "sqlite",
			DSN:        dbPath,
		}, &gorm.Config{
			Logger: gormLogger,
		})
	} else {
		// 标准CGO SQLite驱动
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
			Logger: gormLogger,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := optimizeConnectionPool(sqlDB); err != nil {
		return nil, fmt.Errorf("failed to optimize connection pool: %w", err)
	}

	if err := applySQLiteOptimizations(db); err != nil {
		return nil, fmt.Errorf("failed to apply SQLite optimizations: %w", err)
	}

	// 执行数据库迁移
	if err := runMigrations(dbPath, migrationsPath); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Println("Database initialized successfully")
	return db, nil
}

// runMigrations 执行版本化数据库迁移
// 为迁移创建单独的数据库连接，避免主连接被关闭
func runMigrations(dbPath, migrationsPath string) error {
	migrationDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open migration database connection: %w", err)
	}
	defer migrationDB.Close()

	migrationService := migration.NewService(nil)

	config := migration.Config{
		MigrationsPath: migrationsPath,
		DatabaseName:   "sqlite3",
		TableName:      "schema_migrations",
	}

	if err := migrationService.Initialize(migrationDB, config); err != nil {
		return fmt.Errorf("failed to initialize migration service: %w", err)
	}
	defer migrationService.Close()

	if err := migrationService.Up(context.Background()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migration completed successfully")
	return nil
}

// optimizeConnectionPool 优化连接池配置
// SQLite在WAL模式下支持并发读取，写入仍然是串行的
func optimizeConnectionPool(sqlDB *sql.DB) error {
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(15 * time.Minute)

	return nil
}

// applySQLiteOptimizations 应用SQLite性能优化
func applySQLiteOptimizations(db *gorm.DB) error {
	optimizations := []string{
		// 启用外键约束，folder_emails级联删除依赖它
		"PRAGMA foreign_keys = ON",

		// 启用WAL模式以提高并发性能
		"PRAGMA journal_mode = WAL",

		// 同步模式NORMAL，平衡性能和安全性
		"PRAGMA synchronous = NORMAL",

		// 临时存储放内存
		"PRAGMA temp_store = MEMORY",

		// WAL自动检查点
		"PRAGMA wal_autocheckpoint = 1000",
	}

	for _, pragma := range optimizations {
		if err := db.Exec(pragma).Error; err != nil {
			log.Printf("Warning: failed to execute %s: %v", pragma, err)
		}
	}

	return nil
}

// IsUniqueViolation 判断错误是否为唯一约束冲突
//
// 两个SQLite驱动的错误文本均包含 "UNIQUE constraint failed"
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Close 关闭数据库连接
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
