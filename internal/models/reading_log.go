package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReadingLog holds one user's minutes for one calendar day of a round.
// The stored score is derived at write time: 1 if minutes crossed the daily
// threshold, 0 otherwise, and always 0 on the round's last (non-competitive) day.
type ReadingLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoundID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reading_logs_round_user_date" json:"round_id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reading_logs_round_user_date" json:"user_id"`
	Date         string    `gorm:"size:10;not null;uniqueIndex:uq_reading_logs_round_user_date" json:"date"`
	Minutes      int       `gorm:"not null;default:0" json:"minutes"`
	Score        int       `gorm:"not null;default:0" json:"score"`
	BookFinished bool      `gorm:"not null;default:false" json:"book_finished"`
	Comment      string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	// DailyScoreThreshold is the minimum minutes for a day to score a point.
	DailyScoreThreshold = 30
	// MaxDailyMinutes caps a single day's entry at 24 hours.
	MaxDailyMinutes = 1440
	// DateLayout is the wire and storage format for log dates.
	DateLayout = "2006-01-02"
)

func (l *ReadingLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
