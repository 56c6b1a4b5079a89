package services

import (
	"time"

	"github.com/aidosorynbay/powerbook/internal/models"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const statsCacheKey = "public_stats"

// StatsService computes the homepage counters. Results are cached for 30
// seconds since the endpoint is unauthenticated and hit by every visitor.
type StatsService struct {
	db        *gorm.DB
	groups    *GroupService
	groupSlug string
	cache     *gocache.Cache
}

func NewStatsService(db *gorm.DB, groups *GroupService, groupSlug string) *StatsService {
	return &StatsService{
		db:        db,
		groups:    groups,
		groupSlug: groupSlug,
		cache:     gocache.New(30*time.Second, time.Minute),
	}
}

type PublicStats struct {
	TotalParticipants        int  `json:"total_participants"`
	TotalHoursRead           int  `json:"total_hours_read"`
	TotalRounds              int  `json:"total_rounds"`
	CurrentRoundParticipants int  `json:"current_round_participants"`
	DaysRemaining            int  `json:"days_remaining"`
	RoundProgressPercent     int  `json:"round_progress_percent"`
	IsRoundActive            bool `json:"is_round_active"`
}

func (s *StatsService) PublicStats(now time.Time) (*PublicStats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(*PublicStats), nil
	}

	out := &PublicStats{}

	var totalParticipants int64
	if err := s.db.Model(&models.RoundParticipant{}).
		Distinct("user_id").Count(&totalParticipants).Error; err != nil {
		return nil, err
	}
	out.TotalParticipants = int(totalParticipants)

	var totalMinutes int64
	if err := s.db.Model(&models.ReadingLog{}).
		Select("COALESCE(SUM(minutes), 0)").Scan(&totalMinutes).Error; err != nil {
		return nil, err
	}
	out.TotalHoursRead = int(totalMinutes / 60)

	group, err := s.groups.GetBySlug(s.groupSlug)
	if err == nil {
		var totalRounds int64
		if err := s.db.Model(&models.Round{}).
			Where("group_id = ?", group.ID).Count(&totalRounds).Error; err != nil {
			return nil, err
		}
		out.TotalRounds = int(totalRounds)

		rnd, err := s.groups.CurrentRound(group.ID, now)
		if err != nil {
			return nil, err
		}
		if rnd != nil {
			status := rnd.EffectiveStatus(now)
			if status == models.RoundStatusRegistrationOpen || status == models.RoundStatusLocked {
				out.IsRoundActive = true

				var active int64
				if err := s.db.Model(&models.RoundParticipant{}).
					Where("round_id = ? AND status = ?", rnd.ID, models.ParticipantStatusActive).
					Count(&active).Error; err != nil {
					return nil, err
				}
				out.CurrentRoundParticipants = int(active)

				daysInMonth := rnd.DaysInMonth()
				currentDay := now.In(rnd.Location()).Day()
				out.DaysRemaining = daysInMonth - currentDay
				if out.DaysRemaining < 0 {
					out.DaysRemaining = 0
				}
				out.RoundProgressPercent = currentDay * 100 / daysInMonth
			}
		}
	}

	s.cache.SetDefault(statsCacheKey, out)
	return out, nil
}
