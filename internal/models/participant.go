package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoundParticipant struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RoundID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_round_participants_round_user" json:"round_id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_round_participants_round_user" json:"user_id"`
	Status    string     `gorm:"size:30;not null;default:'active'" json:"status"`
	JoinedAt  time.Time  `gorm:"not null" json:"joined_at"`
	LeftAt    *time.Time `json:"left_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

const (
	ParticipantStatusActive             = "active"
	ParticipantStatusLeftBeforeDeadline = "left_before_deadline"
	ParticipantStatusRemovedByAdmin     = "removed_by_admin"
)

func (p *RoundParticipant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
