package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

func setupModelDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: ":memory:"}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Email{}, &Folder{}, &FolderEmail{}))
	return db
}

func TestUserPasswordHashing(t *testing.T) {
	t.Run("创建时自动加密密码", func(t *testing.T) {
		db := setupModelDB(t)

		user := &User{Username: "alice", Email: "alice@x.com", Password: "Aa1!aaaa", IsActive: true}
		require.NoError(t, db.Create(user).Error)

		assert.NotEqual(t, "Aa1!aaaa", user.Password)
		assert.True(t, strings.HasPrefix(user.Password, "$2"))
		assert.True(t, user.CheckPassword("Aa1!aaaa"))
		assert.False(t, user.CheckPassword("wrong"))
	})

	t.Run("SetPassword手动加密", func(t *testing.T) {
		user := &User{}
		require.NoError(t, user.SetPassword("Bb2!bbbb"))
		assert.True(t, user.CheckPassword("Bb2!bbbb"))
	})

	t.Run("用户名与邮箱唯一", func(t *testing.T) {
		db := setupModelDB(t)

		require.NoError(t, db.Create(&User{Username: "alice", Email: "alice@x.com", Password: "x"}).Error)
		assert.Error(t, db.Create(&User{Username: "alice", Email: "other@x.com", Password: "x"}).Error)
		assert.Error(t, db.Create(&User{Username: "other", Email: "alice@x.com", Password: "x"}).Error)
	})
}

func TestEmailPriority(t *testing.T) {
	assert.True(t, ValidPriority(PriorityHigh))
	assert.True(t, ValidPriority(PriorityNormal))
	assert.True(t, ValidPriority(PriorityLow))
	assert.False(t, ValidPriority("urgent"))
	assert.False(t, ValidPriority(""))
}

func TestFolderEmailUniqueIndex(t *testing.T) {
	db := setupModelDB(t)

	sender := &User{Username: "alice", Email: "alice@x.com", Password: "x"}
	recipient := &User{Username: "bob", Email: "bob@x.com", Password: "x"}
	require.NoError(t, db.Create(sender).Error)
	require.NoError(t, db.Create(recipient).Error)

	email := &Email{
		SenderEmail:    sender.Email,
		RecipientEmail: recipient.Email,
		Subject:        "hello",
		SenderID:       sender.ID,
		RecipientID:    recipient.ID,
		Priority:       PriorityNormal,
	}
	require.NoError(t, db.Create(email).Error)

	folder := &Folder{Name: "Work", UserID: sender.ID}
	require.NoError(t, db.Create(folder).Error)

	require.NoError(t, db.Create(&FolderEmail{EmailID: email.ID, FolderID: folder.ID}).Error)
	assert.Error(t, db.Create(&FolderEmail{EmailID: email.ID, FolderID: folder.ID}).Error)
}
