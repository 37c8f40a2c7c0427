package auth

import (
	"testing"
	"time"

	"postmail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	_ "modernc.org/sqlite"
)

func setupTestService(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: ":memory:"}, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	jwtManager := NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewService(db, jwtManager)
}

func validSignup() *SignupRequest {
	return &SignupRequest{
		Username:  "u1",
		Email:     "u1@x.com",
		Password:  "Aa1!aaaa",
		Password2: "Aa1!aaaa",
	}
}

func TestSignup(t *testing.T) {
	t.Run("注册成功并返回令牌对", func(t *testing.T) {
		s := setupTestService(t)

		resp, err := s.Signup(validSignup())
		require.NoError(t, err)
		require.NotNil(t, resp.User)
		assert.Equal(t, "u1", resp.User.Username)
		assert.Equal(t, "u1@x.com", resp.User.Email)
		assert.Empty(t, resp.User.Password)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.NotEqual(t, resp.AccessToken, resp.RefreshToken)
	})

	t.Run("密码在数据库中已加密", func(t *testing.T) {
		s := setupTestService(t)

		_, err := s.Signup(validSignup())
		require.NoError(t, err)

		var user models.User
		require.NoError(t, s.db.Where("username = ?", "u1").First(&user).Error)
		assert.NotEqual(t, "Aa1!aaaa", user.Password)
		assert.True(t, user.CheckPassword("Aa1!aaaa"))
	})

	t.Run("两次密码不一致", func(t *testing.T) {
		s := setupTestService(t)

		req := validSignup()
		req.Password2 = "different1"
		_, err := s.Signup(req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "password", verr.Field)
		assert.Equal(t, "Password fields didn't match.", verr.Message)
	})

	t.Run("密码过短", func(t *testing.T) {
		s := setupTestService(t)

		req := validSignup()
		req.Password = "Aa1!"
		req.Password2 = "Aa1!"
		_, err := s.Signup(req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "password", verr.Field)
	})

	t.Run("密码全为数字", func(t *testing.T) {
		s := setupTestService(t)

		req := validSignup()
		req.Password = "12345678"
		req.Password2 = "12345678"
		_, err := s.Signup(req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "password", verr.Field)
	})

	t.Run("用户名已被占用", func(t *testing.T) {
		s := setupTestService(t)

		_, err := s.Signup(validSignup())
		require.NoError(t, err)

		req := validSignup()
		req.Email = "other@x.com"
		_, err = s.Signup(req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "username", verr.Field)
	})

	t.Run("邮箱已被占用", func(t *testing.T) {
		s := setupTestService(t)

		_, err := s.Signup(validSignup())
		require.NoError(t, err)

		req := validSignup()
		req.Username = "other"
		_, err = s.Signup(req)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "email", verr.Field)
	})
}

func TestSignin(t *testing.T) {
	t.Run("注册后用相同凭据登录成功", func(t *testing.T) {
		s := setupTestService(t)

		_, err := s.Signup(validSignup())
		require.NoError(t, err)

		resp, err := s.Signin(&SigninRequest{Username: "u1", Password: "Aa1!aaaa"})
		require.NoError(t, err)
		assert.Equal(t, "u1", resp.User.Username)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("用户名不存在", func(t *testing.T) {
		s := setupTestService(t)

		_, err := s.Signin(&SigninRequest{Username: "ghost", Password: "Aa1!aaaa"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("密码错误", func(t *testing.T) {
		s := setupTestService(t)

		_, err := s.Signup(validSignup())
		require.NoError(t, err)

		_, err = s.Signin(&SigninRequest{Username: "u1", Password: "wrong-pass"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("停用账户被拒绝", func(t *testing.T) {
		s := setupTestService(t)

		_, err := s.Signup(validSignup())
		require.NoError(t, err)
		require.NoError(t, s.db.Model(&models.User{}).Where("username = ?", "u1").Update("is_active", false).Error)

		_, err = s.Signin(&SigninRequest{Username: "u1", Password: "Aa1!aaaa"})
		assert.ErrorIs(t, err, ErrUserInactive)
	})
}

func TestValidateToken(t *testing.T) {
	t.Run("签发的访问令牌有效", func(t *testing.T) {
		s := setupTestService(t)

		resp, err := s.Signup(validSignup())
		require.NoError(t, err)

		assert.NoError(t, s.ValidateToken(resp.AccessToken))
	})

	t.Run("刷新令牌不能当访问令牌用", func(t *testing.T) {
		s := setupTestService(t)

		resp, err := s.Signup(validSignup())
		require.NoError(t, err)

		assert.ErrorIs(t, s.ValidateToken(resp.RefreshToken), ErrInvalidToken)
	})

	t.Run("畸形令牌无效", func(t *testing.T) {
		s := setupTestService(t)

		assert.ErrorIs(t, s.ValidateToken("not-a-jwt"), ErrInvalidToken)
	})

	t.Run("过期令牌无效", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: ":memory:"}, &gorm.Config{})
		require.NoError(t, err)
		require.NoError(t, db.AutoMigrate(&models.User{}))

		// 负的有效期使签发即过期
		s := NewService(db, NewJWTManager("test-secret", -time.Minute, 24*time.Hour))
		resp, err := s.Signup(validSignup())
		require.NoError(t, err)

		assert.ErrorIs(t, s.ValidateToken(resp.AccessToken), ErrInvalidToken)
	})
}

func TestRefresh(t *testing.T) {
	t.Run("刷新令牌换取新令牌对", func(t *testing.T) {
		s := setupTestService(t)

		resp, err := s.Signup(validSignup())
		require.NoError(t, err)

		refreshed, err := s.Refresh(resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NoError(t, s.ValidateToken(refreshed.AccessToken))
	})

	t.Run("访问令牌不能用于刷新", func(t *testing.T) {
		s := setupTestService(t)

		resp, err := s.Signup(validSignup())
		require.NoError(t, err)

		_, err = s.Refresh(resp.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
	assert.Equal(t, "", ExtractTokenFromHeader("Bearer "))
}
