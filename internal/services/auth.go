package services

import (
	"errors"
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt silently truncates input beyond 72 bytes; reject instead.
const maxPasswordBytes = 72

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Gender      string
	TelegramID  string
}

func (s *AuthService) Register(in RegisterInput) (*models.User, string, error) {
	var existing models.User
	if err := s.db.Where("username = ?", in.Username).First(&existing).Error; err == nil {
		return nil, "", apperr.Conflict("username_taken", "username already taken")
	}
	if in.Email != "" {
		if err := s.db.Where("email = ?", in.Email).First(&existing).Error; err == nil {
			return nil, "", apperr.Conflict("email_taken", "email already registered")
		}
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Gender:       in.Gender,
		TelegramID:   in.TelegramID,
		SystemRole:   models.RoleUser,
		IsActive:     true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login accepts either the username or the registered email.
func (s *AuthService) Login(login, password string) (string, error) {
	var user models.User
	if err := s.db.Where("username = ? OR email = ?", login, login).First(&user).Error; err != nil {
		return "", apperr.Auth("invalid_credentials", "invalid credentials")
	}
	if !user.IsActive {
		return "", apperr.Auth("invalid_credentials", "invalid credentials")
	}

	if len(password) > maxPasswordBytes ||
		bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", apperr.Auth("invalid_credentials", "invalid credentials")
	}

	return s.GenerateToken(user.ID)
}

func (s *AuthService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, apperr.NotFound("user_not_found", "user not found")
	}
	return &user, nil
}

type ProfileUpdate struct {
	DisplayName string
	Gender      string
	TelegramID  string
}

func (s *AuthService) UpdateProfile(userID uuid.UUID, upd ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if upd.DisplayName != "" {
		user.DisplayName = upd.DisplayName
	}
	if upd.Gender != "" {
		if upd.Gender != models.GenderMale && upd.Gender != models.GenderFemale {
			return nil, apperr.Validation("invalid_gender", "gender must be male or female")
		}
		user.Gender = upd.Gender
	}
	user.TelegramID = upd.TelegramID

	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(userID uuid.UUID, current, next string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return apperr.Auth("invalid_credentials", "current password is incorrect")
	}

	hash, err := s.hashPassword(next)
	if err != nil {
		return err
	}
	return s.db.Model(user).Update("password_hash", hash).Error
}

func (s *AuthService) hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperr.Validation("password_too_long", "password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(24 * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("invalid subject in token")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("invalid subject in token")
	}
	return userID, nil
}
