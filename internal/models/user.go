package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:60;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:320;index" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	DisplayName  string    `gorm:"size:120;not null" json:"display_name"`
	Gender       string    `gorm:"size:10" json:"gender,omitempty"`
	SystemRole   string    `gorm:"size:20;not null;default:'user'" json:"system_role"`
	TelegramID   string    `gorm:"size:120" json:"telegram_id,omitempty"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	GenderMale   = "male"
	GenderFemale = "female"

	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.SystemRole == RoleAdmin || u.SystemRole == RoleSuperadmin
}
