package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoundResult is the final leaderboard snapshot taken when results are
// published. Never mutated afterwards.
type RoundResult struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoundID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_round_results_round_user" json:"round_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_round_results_round_user" json:"user_id"`
	TotalScore  int       `gorm:"not null;default:0" json:"total_score"`
	Rank        int       `gorm:"not null" json:"rank"`
	ResultGroup string    `gorm:"size:10;not null" json:"group"`
	ComputedAt  time.Time `gorm:"not null" json:"computed_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	ResultGroupWinner = "winner"
	ResultGroupLoser  = "loser"
)

func (r *RoundResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
