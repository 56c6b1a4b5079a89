package services

import (
	"sort"
	"time"

	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaderboardService recomputes rankings from the reading logs on every call.
// There is no cached running total that could drift from the log store.
type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	TotalScore  int       `json:"total_score"`
	DaysRead    int       `json:"days_read"`
	Rank        int       `json:"rank"`

	joinedAt time.Time
}

// Leaderboard ranks every active participant of the round by total score.
// Ties break by earlier join time, then by user id, so the order is fully
// deterministic and stable across repeated calls.
func (s *LeaderboardService) Leaderboard(roundID uuid.UUID) ([]LeaderboardEntry, error) {
	var participants []models.RoundParticipant
	if err := s.db.Where("round_id = ? AND status = ?", roundID, models.ParticipantStatusActive).
		Find(&participants).Error; err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(participants))
	for _, p := range participants {
		userIDs = append(userIDs, p.UserID)
	}

	names := map[uuid.UUID]string{}
	if len(userIDs) > 0 {
		var users []models.User
		if err := s.db.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.DisplayName
		}
	}

	type scoreRow struct {
		UserID     uuid.UUID
		TotalScore int
		DaysRead   int
	}
	var rows []scoreRow
	if err := s.db.Model(&models.ReadingLog{}).
		Select("user_id, COALESCE(SUM(score), 0) AS total_score, COALESCE(SUM(score), 0) AS days_read").
		Where("round_id = ?", roundID).
		Group("user_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	scores := map[uuid.UUID]scoreRow{}
	for _, r := range rows {
		scores[r.UserID] = r
	}

	entries := make([]LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		sc := scores[p.UserID]
		entries = append(entries, LeaderboardEntry{
			UserID:      p.UserID,
			DisplayName: names[p.UserID],
			TotalScore:  sc.TotalScore,
			DaysRead:    sc.DaysRead,
			joinedAt:    p.JoinedAt,
		})
	}

	sort.Slice(entries, func(a, b int) bool {
		if entries[a].TotalScore != entries[b].TotalScore {
			return entries[a].TotalScore > entries[b].TotalScore
		}
		if !entries[a].joinedAt.Equal(entries[b].joinedAt) {
			return entries[a].joinedAt.Before(entries[b].joinedAt)
		}
		return entries[a].UserID.String() < entries[b].UserID.String()
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
