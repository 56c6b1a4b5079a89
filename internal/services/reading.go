package services

import (
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadingService is the per-user, per-date minute log store. One row per
// (round, user, date); writes are last-write-wins replaces.
type ReadingService struct {
	db     *gorm.DB
	rounds *RoundService
}

func NewReadingService(db *gorm.DB, rounds *RoundService) *ReadingService {
	return &ReadingService{db: db, rounds: rounds}
}

type LogMinutesInput struct {
	RoundID      uuid.UUID
	UserID       uuid.UUID
	Date         string
	Minutes      int
	BookFinished bool
	Comment      string
}

// LogMinutes upserts one day's entry, enforcing the round's write policy:
// no writes into closed rounds, last-day writes only during the correction
// window, and the last day itself never scores.
func (s *ReadingService) LogMinutes(in LogMinutesInput, now time.Time) (*models.ReadingLog, error) {
	rnd, err := s.rounds.Get(in.RoundID)
	if err != nil {
		return nil, err
	}

	status := rnd.EffectiveStatus(now)
	if status == models.RoundStatusClosed || status == models.RoundStatusResultsPublished {
		return nil, apperr.RoundState("round_closed", "round is closed")
	}

	if in.Minutes < 0 || in.Minutes > models.MaxDailyMinutes {
		return nil, apperr.Validation("invalid_minutes", "minutes must be between 0 and 1440")
	}

	day, err := time.ParseInLocation(models.DateLayout, in.Date, rnd.Location())
	if err != nil {
		return nil, apperr.Validation("invalid_date", "date must be formatted YYYY-MM-DD")
	}
	if day.Year() != rnd.Year || int(day.Month()) != rnd.Month {
		return nil, apperr.Validation("date_outside_round", "date is outside the round's month")
	}

	lastDay := rnd.LastDay()
	nowLocal := now.In(rnd.Location())
	todayIsLastDay := nowLocal.Year() == lastDay.Year() && nowLocal.YearDay() == lastDay.YearDay()
	dateIsLastDay := day.Day() == rnd.DaysInMonth()

	if todayIsLastDay && !now.Before(rnd.CorrectionDeadline()) {
		return nil, apperr.RoundState("correction_window_closed", "correction period has ended")
	}
	if dateIsLastDay && !todayIsLastDay {
		return nil, apperr.RoundState("last_day_non_competitive", "last day can only be logged on the last day itself")
	}

	p, err := s.rounds.Participant(in.RoundID, in.UserID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Status != models.ParticipantStatusActive {
		return nil, apperr.Forbidden("not_participant", "not an active participant of this round")
	}

	score := 0
	if !dateIsLastDay && in.Minutes >= models.DailyScoreThreshold {
		score = 1
	}

	row := models.ReadingLog{
		RoundID:      in.RoundID,
		UserID:       in.UserID,
		Date:         in.Date,
		Minutes:      in.Minutes,
		Score:        score,
		BookFinished: in.BookFinished,
		Comment:      in.Comment,
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "round_id"}, {Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"minutes", "score", "book_finished", "comment", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, err
	}

	var saved models.ReadingLog
	if err := s.db.Where("round_id = ? AND user_id = ? AND date = ?",
		in.RoundID, in.UserID, in.Date).First(&saved).Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

type CalendarDay struct {
	Date         string `json:"date"`
	Minutes      int    `json:"minutes"`
	Score        int    `json:"score"`
	BookFinished bool   `json:"book_finished"`
	Comment      string `json:"comment,omitempty"`
}

type Calendar struct {
	RoundID      uuid.UUID     `json:"round_id"`
	TotalMinutes int           `json:"total_minutes"`
	TotalScore   int           `json:"total_score"`
	Days         []CalendarDay `json:"days"`
}

// CalendarForUser returns every day of the round's month, zero-filled where
// no entry exists.
func (s *ReadingService) CalendarForUser(roundID, userID uuid.UUID) (*Calendar, error) {
	rnd, err := s.rounds.Get(roundID)
	if err != nil {
		return nil, err
	}

	var logs []models.ReadingLog
	if err := s.db.Where("round_id = ? AND user_id = ?", roundID, userID).
		Order("date ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	byDate := map[string]models.ReadingLog{}
	for _, l := range logs {
		byDate[l.Date] = l
	}

	cal := &Calendar{RoundID: roundID, Days: make([]CalendarDay, 0, rnd.DaysInMonth())}
	for d := 1; d <= rnd.DaysInMonth(); d++ {
		key := time.Date(rnd.Year, time.Month(rnd.Month), d, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
		day := CalendarDay{Date: key}
		if row, ok := byDate[key]; ok {
			day.Minutes = row.Minutes
			day.Score = row.Score
			day.BookFinished = row.BookFinished
			day.Comment = row.Comment
		}
		cal.TotalMinutes += day.Minutes
		cal.TotalScore += day.Score
		cal.Days = append(cal.Days, day)
	}
	return cal, nil
}

type ArchiveDay struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

type YearlyArchive struct {
	Year               int                  `json:"year"`
	Months             map[int][]ArchiveDay `json:"months"`
	ParticipatedMonths []int                `json:"participated_months"`
}

// Archive returns per-day minutes for every month of the year plus the set
// of months the user actually participated in, so clients can distinguish
// "didn't join" from "joined but missed days".
func (s *ReadingService) Archive(groupID, userID uuid.UUID, year int) (*YearlyArchive, error) {
	var rounds []models.Round
	if err := s.db.Where("group_id = ? AND year = ?", groupID, year).Find(&rounds).Error; err != nil {
		return nil, err
	}

	roundIDs := make([]uuid.UUID, 0, len(rounds))
	for _, r := range rounds {
		roundIDs = append(roundIDs, r.ID)
	}

	minutesByDate := map[string]int{}
	if len(roundIDs) > 0 {
		var logs []models.ReadingLog
		if err := s.db.Where("round_id IN ? AND user_id = ?", roundIDs, userID).Find(&logs).Error; err != nil {
			return nil, err
		}
		for _, l := range logs {
			minutesByDate[l.Date] = l.Minutes
		}
	}

	participated := []int{}
	for _, r := range rounds {
		p, err := s.rounds.Participant(r.ID, userID)
		if err != nil {
			return nil, err
		}
		if p != nil && p.Status == models.ParticipantStatusActive {
			participated = append(participated, r.Month)
		}
	}

	arch := &YearlyArchive{Year: year, Months: map[int][]ArchiveDay{}, ParticipatedMonths: participated}
	for month := 1; month <= 12; month++ {
		daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		days := make([]ArchiveDay, 0, daysInMonth)
		for d := 1; d <= daysInMonth; d++ {
			key := time.Date(year, time.Month(month), d, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
			days = append(days, ArchiveDay{Date: key, Minutes: minutesByDate[key]})
		}
		arch.Months[month] = days
	}
	return arch, nil
}
