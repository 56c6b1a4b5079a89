package services

import (
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExchangeService struct {
	db *gorm.DB
}

func NewExchangeService(db *gorm.DB) *ExchangeService {
	return &ExchangeService{db: db}
}

type PairView struct {
	models.ExchangePair
	GiverName    string `json:"giver_name"`
	ReceiverName string `json:"receiver_name"`
}

// ListForUser returns every pair where the user is giver or receiver.
func (s *ExchangeService) ListForUser(userID uuid.UUID) ([]PairView, error) {
	var pairs []models.ExchangePair
	if err := s.db.Where("giver_user_id = ? OR receiver_user_id = ?", userID, userID).
		Order("created_at DESC").Find(&pairs).Error; err != nil {
		return nil, err
	}
	return s.withNames(pairs)
}

// MarkGiven records the giver's confirmation, exactly once.
func (s *ExchangeService) MarkGiven(pairID, userID uuid.UUID, now time.Time) (*models.ExchangePair, error) {
	pair, err := s.get(pairID)
	if err != nil {
		return nil, err
	}
	if pair.GiverUserID != userID {
		return nil, apperr.Forbidden("not_giver", "only the giver can mark the book as given")
	}
	if pair.GiverMarkedGivenAt != nil {
		return nil, apperr.Conflict("already_marked", "already marked as given")
	}

	// Guarded update: a concurrent double-click loses the null check.
	res := s.db.Model(&models.ExchangePair{}).
		Where("id = ? AND giver_marked_given_at IS NULL", pairID).
		Update("giver_marked_given_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("already_marked", "already marked as given")
	}
	return s.get(pairID)
}

// MarkReceived records the receiver's confirmation, exactly once. It is
// independent of the giver's mark.
func (s *ExchangeService) MarkReceived(pairID, userID uuid.UUID, now time.Time) (*models.ExchangePair, error) {
	pair, err := s.get(pairID)
	if err != nil {
		return nil, err
	}
	if pair.ReceiverUserID != userID {
		return nil, apperr.Forbidden("not_receiver", "only the receiver can mark the book as received")
	}
	if pair.ReceiverMarkedReceivedAt != nil {
		return nil, apperr.Conflict("already_marked", "already marked as received")
	}

	res := s.db.Model(&models.ExchangePair{}).
		Where("id = ? AND receiver_marked_received_at IS NULL", pairID).
		Update("receiver_marked_received_at", now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("already_marked", "already marked as received")
	}
	return s.get(pairID)
}

func (s *ExchangeService) get(pairID uuid.UUID) (*models.ExchangePair, error) {
	var pair models.ExchangePair
	if err := s.db.First(&pair, "id = ?", pairID).Error; err != nil {
		return nil, apperr.NotFound("pair_not_found", "exchange pair not found")
	}
	return &pair, nil
}

func (s *ExchangeService) withNames(pairs []models.ExchangePair) ([]PairView, error) {
	ids := make([]uuid.UUID, 0, len(pairs)*2)
	for _, p := range pairs {
		ids = append(ids, p.GiverUserID, p.ReceiverUserID)
	}
	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		var users []models.User
		if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.DisplayName
		}
	}

	views := make([]PairView, 0, len(pairs))
	for _, p := range pairs {
		views = append(views, PairView{
			ExchangePair: p,
			GiverName:    names[p.GiverUserID],
			ReceiverName: names[p.ReceiverUserID],
		})
	}
	return views, nil
}
