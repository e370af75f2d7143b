package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"recipebook/models"
	"recipebook/utils"

	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type AuthService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{db: db, secret: []byte(secret), ttl: ttl}
}

func (s *AuthService) RegisterUser(email, password, fullName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	var n int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if n > 0 {
		return nil, ErrUserExists
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || s.exists(email) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// exists is consulted after a failed insert, for drivers that do not
// translate unique violations.
func (s *AuthService) exists(email string) bool {
	var n int64
	return s.db.Model(&models.User{}).Where("email = ?", email).Count(&n).Error == nil && n > 0
}

// AuthenticateUser checks the credentials and returns a signed session token.
func (s *AuthService) AuthenticateUser(email, password string) (string, error) {
	var user models.User
	result := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user)
	if result.Error != nil {
		return "", ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", ErrInvalidCredentials
	}

	return utils.GenerateJWT(user.Email, s.secret, s.ttl)
}

// ParseToken returns the email of a valid session token.
func (s *AuthService) ParseToken(token string) (string, error) {
	return utils.ParseJWT(token, s.secret)
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}
