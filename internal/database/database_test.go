package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testMigrationsPath = "../../database/migrations"

func TestInitialize(t *testing.T) {
	t.Run("初始化并执行迁移", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := Initialize(dbPath, testMigrationsPath)
		require.NoError(t, err)
		defer Close(db)

		// 迁移后所有表应该存在
		for _, table := range []string{"users", "emails", "folders", "folder_emails", "schema_migrations"} {
			assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
		}
	})

	t.Run("重复初始化无变更不报错", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := Initialize(dbPath, testMigrationsPath)
		require.NoError(t, err)
		require.NoError(t, Close(db))

		db, err = Initialize(dbPath, testMigrationsPath)
		require.NoError(t, err)
		require.NoError(t, Close(db))
	})

	t.Run("唯一索引生效", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		db, err := Initialize(dbPath, testMigrationsPath)
		require.NoError(t, err)
		defer Close(db)

		require.NoError(t, db.Exec(
			"INSERT INTO users (username, email, password, is_active, created_at, updated_at) VALUES (?, ?, ?, 1, datetime('now'), datetime('now'))",
			"alice", "alice@x.com", "hash").Error)

		err = db.Exec(
			"INSERT INTO users (username, email, password, is_active, created_at, updated_at) VALUES (?, ?, ?, 1, datetime('now'), datetime('now'))",
			"alice", "other@x.com", "hash").Error
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
	})
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("some other error")))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
}
