package auth

import (
	"errors"
	"fmt"

	"postmail/internal/database"
	"postmail/internal/models"

	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError 注册输入校验错误，携带出错字段
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Service 认证服务
type Service struct {
	db         *gorm.DB
	jwtManager *JWTManager
}

// NewService 创建认证服务
func NewService(db *gorm.DB, jwtManager *JWTManager) *Service {
	return &Service{
		db:         db,
		jwtManager: jwtManager,
	}
}

// SignupRequest 注册请求结构
type SignupRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

// SigninRequest 登录请求结构
type SigninRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 注册/登录响应结构
type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// Signup 注册新用户并签发令牌对
func (s *Service) Signup(req *SignupRequest) (*AuthResponse, error) {
	if req.Password != req.Password2 {
		return nil, &ValidationError{Field: "password", Message: "Password fields didn't match."}
	}

	if verr := ValidatePassword(req.Password); verr != nil {
		return nil, verr
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ValidationError{Field: "username", Message: "A user with that username already exists."}
	}

	if err := s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &ValidationError{Field: "email", Message: "A user with that email already exists."}
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password, // 会在BeforeCreate钩子中加密
		IsActive: true,
	}

	if err := s.db.Create(user).Error; err != nil {
		// 唯一索引兜底：预检查与插入之间可能有并发注册
		if database.IsUniqueViolation(err) {
			return nil, &ValidationError{Field: "username", Message: "A user with that username or email already exists."}
		}
		return nil, err
	}

	tokens, err := s.jwtManager.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	// 清除密码字段
	user.Password = ""

	return &AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Signin 用户登录
//
// 按用户名查找，沿用原有行为；凭据错误统一返回同一错误，不区分具体字段
func (s *Service) Signin(req *SigninRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.jwtManager.GenerateTokenPair(&user)
	if err != nil {
		return nil, err
	}

	user.Password = ""

	return &AuthResponse{
		User:         &user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// ValidateToken 验证访问令牌，仅确认有效性，不返回负载
func (s *Service) ValidateToken(tokenString string) error {
	if _, err := s.jwtManager.ValidateAccessToken(tokenString); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// Authenticate 验证访问令牌并加载用户，供认证中间件使用
func (s *Service) Authenticate(tokenString string) (*models.User, error) {
	claims, err := s.jwtManager.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	user.Password = ""
	return &user, nil
}

// Refresh 用刷新令牌换取新的令牌对
func (s *Service) Refresh(refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var user models.User
	if err := s.db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	tokens, err := s.jwtManager.GenerateTokenPair(&user)
	if err != nil {
		return nil, err
	}

	user.Password = ""

	return &AuthResponse{
		User:         &user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}
