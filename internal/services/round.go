package services

import (
	"errors"
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RoundService owns the monthly round lifecycle:
// draft -> registration_open -> locked -> closed -> results_published.
// Stored status only advances through administrative actions; the
// time-driven boundaries are derived per request via Round.EffectiveStatus,
// so concurrent requests near a deadline never race on a one-shot flag.
type RoundService struct {
	db          *gorm.DB
	leaderboard *LeaderboardService
}

func NewRoundService(db *gorm.DB, leaderboard *LeaderboardService) *RoundService {
	return &RoundService{db: db, leaderboard: leaderboard}
}

func (s *RoundService) Get(roundID uuid.UUID) (*models.Round, error) {
	var rnd models.Round
	if err := s.db.First(&rnd, "id = ?", roundID).Error; err != nil {
		return nil, apperr.NotFound("round_not_found", "round not found")
	}
	return &rnd, nil
}

func (s *RoundService) GetByGroupYearMonth(groupID uuid.UUID, year, month int) (*models.Round, error) {
	var rnd models.Round
	err := s.db.Where("group_id = ? AND year = ? AND month = ?", groupID, year, month).First(&rnd).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rnd, nil
}

type CreateRoundInput struct {
	GroupID                  uuid.UUID
	Year                     int
	Month                    int
	Timezone                 string
	RegistrationOpenUntilDay int
}

func (s *RoundService) Create(in CreateRoundInput) (*models.Round, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, apperr.Validation("invalid_month", "month must be between 1 and 12")
	}
	if in.Timezone == "" {
		in.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(in.Timezone); err != nil {
		return nil, apperr.Validation("invalid_timezone", "unknown timezone identifier")
	}
	if in.RegistrationOpenUntilDay <= 0 {
		in.RegistrationOpenUntilDay = 10
	}

	rnd := models.Round{
		GroupID:                  in.GroupID,
		Year:                     in.Year,
		Month:                    in.Month,
		Status:                   models.RoundStatusDraft,
		Timezone:                 in.Timezone,
		RegistrationOpenUntilDay: in.RegistrationOpenUntilDay,
	}
	if err := s.db.Create(&rnd).Error; err != nil {
		return nil, apperr.Conflict("round_exists", "round already exists for this month")
	}
	return &rnd, nil
}

// SetStatus is the administrative lifecycle lever (open registration, lock,
// close). Publishing goes through PublishResults instead.
func (s *RoundService) SetStatus(roundID uuid.UUID, status string, now time.Time) (*models.Round, error) {
	rnd, err := s.Get(roundID)
	if err != nil {
		return nil, err
	}

	rnd.Status = status
	if status == models.RoundStatusRegistrationOpen && rnd.StartedAt == nil {
		t := now
		rnd.StartedAt = &t
	}
	if (status == models.RoundStatusClosed || status == models.RoundStatusResultsPublished) && rnd.ClosedAt == nil {
		t := now
		rnd.ClosedAt = &t
	}

	if err := s.db.Save(rnd).Error; err != nil {
		return nil, err
	}
	return rnd, nil
}

// EnsureNextRound creates the round that follows cur, in registration_open,
// when a request observes the next-round registration window. The unique
// (group, year, month) index makes the create race-safe: concurrent callers
// all converge on the single created row.
func (s *RoundService) EnsureNextRound(cur *models.Round) (*models.Round, error) {
	year, month := cur.NextYearMonth()

	next := models.Round{
		GroupID:                  cur.GroupID,
		Year:                     year,
		Month:                    month,
		Status:                   models.RoundStatusRegistrationOpen,
		Timezone:                 cur.Timezone,
		RegistrationOpenUntilDay: cur.RegistrationOpenUntilDay,
	}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&next).Error
	if err != nil {
		return nil, err
	}
	// Re-read: on conflict the insert was a no-op and another request won.
	return s.GetByGroupYearMonth(cur.GroupID, year, month)
}

func (s *RoundService) Join(roundID, userID uuid.UUID, now time.Time) (*models.RoundParticipant, error) {
	rnd, err := s.Get(roundID)
	if err != nil {
		return nil, err
	}
	if !rnd.RegistrationOpenAt(now) {
		return nil, apperr.RoundState("registration_closed", "registration is not open")
	}

	var existing models.RoundParticipant
	err = s.db.Where("round_id = ? AND user_id = ?", roundID, userID).First(&existing).Error
	if err == nil {
		if existing.Status == models.ParticipantStatusActive {
			return &existing, nil
		}
		// Rejoin before the deadline reactivates the same participation row.
		existing.Status = models.ParticipantStatusActive
		existing.LeftAt = nil
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := models.RoundParticipant{
		RoundID:  roundID,
		UserID:   userID,
		Status:   models.ParticipantStatusActive,
		JoinedAt: now,
	}
	if err := s.db.Create(&p).Error; err != nil {
		// Unique (round, user) lost a concurrent double-click; return the winner.
		if err2 := s.db.Where("round_id = ? AND user_id = ?", roundID, userID).First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *RoundService) Leave(roundID, userID uuid.UUID, now time.Time) (*models.RoundParticipant, error) {
	rnd, err := s.Get(roundID)
	if err != nil {
		return nil, err
	}

	var p models.RoundParticipant
	if err := s.db.Where("round_id = ? AND user_id = ?", roundID, userID).First(&p).Error; err != nil {
		return nil, apperr.NotFound("not_participant", "not a participant of this round")
	}
	if p.Status != models.ParticipantStatusActive {
		return nil, apperr.Conflict("already_left", "already left this round")
	}
	if !rnd.RegistrationOpenAt(now) {
		return nil, apperr.RoundState("leave_deadline_passed", "cannot leave after the registration deadline")
	}

	t := now
	p.Status = models.ParticipantStatusLeftBeforeDeadline
	p.LeftAt = &t
	if err := s.db.Save(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RoundService) Participant(roundID, userID uuid.UUID) (*models.RoundParticipant, error) {
	var p models.RoundParticipant
	err := s.db.Where("round_id = ? AND user_id = ?", roundID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// LastCompleted returns the most recent round of the group that has reached
// closed or results_published.
func (s *RoundService) LastCompleted(groupID uuid.UUID) (*models.Round, error) {
	var rnd models.Round
	err := s.db.Where("group_id = ? AND status IN ?", groupID,
		[]string{models.RoundStatusClosed, models.RoundStatusResultsPublished}).
		Order("year DESC, month DESC").
		First(&rnd).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rnd, nil
}

type PublishSummary struct {
	RoundID      uuid.UUID `json:"round_id"`
	Participants int       `json:"participants"`
	Winners      int       `json:"winners"`
	Losers       int       `json:"losers"`
	Pairs        int       `json:"pairs"`
}

// PublishResults flips closed -> results_published, snapshots the final
// leaderboard and generates the book exchange pairs. The status flip is a
// check-and-set: only the request that wins the update performs pairing,
// later requests observe the published state and no-op.
func (s *RoundService) PublishResults(roundID uuid.UUID, now time.Time) (*PublishSummary, error) {
	rnd, err := s.Get(roundID)
	if err != nil {
		return nil, err
	}

	if rnd.Status == models.RoundStatusResultsPublished {
		return s.publishSummary(rnd)
	}
	if rnd.EffectiveStatus(now) != models.RoundStatusClosed {
		return nil, apperr.RoundState("round_not_closed", "round is not closed yet")
	}

	entries, err := s.leaderboard.Leaderboard(roundID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperr.Conflict("no_participants", "round has no participants")
	}

	summary := &PublishSummary{RoundID: roundID, Participants: len(entries)}
	won := false

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Round{}).
			Where("id = ? AND status <> ?", roundID, models.RoundStatusResultsPublished).
			Updates(map[string]interface{}{"status": models.RoundStatusResultsPublished, "closed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race: another request already published.
			return nil
		}
		won = true

		winnersN := len(entries) / 2 // odd participant count puts the extra member with the losers
		winners := entries[:winnersN]
		losers := entries[winnersN:]
		summary.Winners = len(winners)
		summary.Losers = len(losers)

		results := make([]models.RoundResult, 0, len(entries))
		for i, e := range entries {
			group := models.ResultGroupLoser
			if i < winnersN {
				group = models.ResultGroupWinner
			}
			results = append(results, models.RoundResult{
				RoundID:     roundID,
				UserID:      e.UserID,
				TotalScore:  e.TotalScore,
				Rank:        e.Rank,
				ResultGroup: group,
				ComputedAt:  now,
			})
		}
		if err := tx.Create(&results).Error; err != nil {
			return err
		}

		pairs, err := s.pairLosersToWinners(tx, roundID, losers, winners)
		if err != nil {
			return err
		}
		summary.Pairs = len(pairs)
		if len(pairs) > 0 {
			if err := tx.Create(&pairs).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !won {
		return s.publishSummary(rnd)
	}
	return summary, nil
}

// pairLosersToWinners builds the giver -> receiver assignments: each loser
// gives a book to one winner, preferring a winner of the same gender. Both
// sides are consumed in rank order, which makes the pairing deterministic
// for a fixed final ranking. Leftover losers (odd participant counts) stay
// unpaired. No self-pairs are possible since the two groups are disjoint.
func (s *RoundService) pairLosersToWinners(tx *gorm.DB, roundID uuid.UUID, losers, winners []LeaderboardEntry) ([]models.ExchangePair, error) {
	if len(winners) == 0 || len(losers) == 0 {
		return nil, nil
	}

	userIDs := make([]uuid.UUID, 0, len(winners)+len(losers))
	for _, e := range winners {
		userIDs = append(userIDs, e.UserID)
	}
	for _, e := range losers {
		userIDs = append(userIDs, e.UserID)
	}
	genders := map[uuid.UUID]string{}
	var users []models.User
	if err := tx.Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		genders[u.ID] = u.Gender
	}

	remaining := make([]LeaderboardEntry, len(winners))
	copy(remaining, winners)

	takeWinner := func(gender string) (uuid.UUID, bool) {
		for i, w := range remaining {
			if genders[w.UserID] == gender {
				remaining = append(remaining[:i], remaining[i+1:]...)
				return w.UserID, true
			}
		}
		if len(remaining) > 0 {
			w := remaining[0]
			remaining = remaining[1:]
			return w.UserID, true
		}
		return uuid.Nil, false
	}

	var pairs []models.ExchangePair
	for _, loser := range losers {
		receiver, ok := takeWinner(genders[loser.UserID])
		if !ok {
			break
		}
		pairs = append(pairs, models.ExchangePair{
			RoundID:        roundID,
			GiverUserID:    loser.UserID,
			ReceiverUserID: receiver,
		})
	}
	return pairs, nil
}

func (s *RoundService) publishSummary(rnd *models.Round) (*PublishSummary, error) {
	summary := &PublishSummary{RoundID: rnd.ID}

	var results []models.RoundResult
	if err := s.db.Where("round_id = ?", rnd.ID).Find(&results).Error; err != nil {
		return nil, err
	}
	summary.Participants = len(results)
	for _, r := range results {
		if r.ResultGroup == models.ResultGroupWinner {
			summary.Winners++
		} else {
			summary.Losers++
		}
	}

	var pairCount int64
	if err := s.db.Model(&models.ExchangePair{}).Where("round_id = ?", rnd.ID).Count(&pairCount).Error; err != nil {
		return nil, err
	}
	summary.Pairs = int(pairCount)
	return summary, nil
}
