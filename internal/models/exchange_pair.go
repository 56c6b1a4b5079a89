package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExchangePair is one giver -> receiver book-exchange assignment created when
// a round's results are published. The two confirmation timestamps are
// independent and each settable exactly once, by the respective side.
type ExchangePair struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RoundID                 uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_exchange_pairs_round_giver" json:"round_id"`
	GiverUserID             uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_exchange_pairs_round_giver" json:"giver_user_id"`
	ReceiverUserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"receiver_user_id"`
	GiverMarkedGivenAt      *time.Time `json:"giver_marked_given_at,omitempty"`
	ReceiverMarkedReceivedAt *time.Time `json:"receiver_marked_received_at,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

func (p *ExchangePair) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
