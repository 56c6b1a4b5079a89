package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Round struct {
	ID                      uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GroupID                 uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_rounds_group_year_month" json:"group_id"`
	Year                    int        `gorm:"not null;uniqueIndex:uq_rounds_group_year_month" json:"year"`
	Month                   int        `gorm:"not null;uniqueIndex:uq_rounds_group_year_month" json:"month"`
	Status                  string     `gorm:"size:30;not null;default:'draft'" json:"status"`
	RegistrationOpenUntilDay int       `gorm:"not null;default:10" json:"registration_open_until_day"`
	Timezone                string     `gorm:"size:64;not null;default:'UTC'" json:"timezone"`
	StartedAt               *time.Time `json:"started_at,omitempty"`
	ClosedAt                *time.Time `json:"closed_at,omitempty"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
}

const (
	RoundStatusDraft            = "draft"
	RoundStatusRegistrationOpen = "registration_open"
	RoundStatusLocked           = "locked"
	RoundStatusClosed           = "closed"
	RoundStatusResultsPublished = "results_published"
)

// Writes on the round's last day are accepted until this local hour.
const CorrectionDeadlineHour = 20

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Location resolves the round's IANA timezone, falling back to UTC if the
// stored identifier is unknown.
func (r *Round) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DaysInMonth returns the number of calendar days in the round's month.
func (r *Round) DaysInMonth() int {
	return time.Date(r.Year, time.Month(r.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// LastDay returns the round's last calendar day as a date in the round's timezone.
func (r *Round) LastDay() time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.DaysInMonth(), 0, 0, 0, 0, r.Location())
}

// RegistrationDeadline is the instant after which join/leave are forbidden:
// midnight local time at the end of the registration deadline day.
func (r *Round) RegistrationDeadline() time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.RegistrationOpenUntilDay+1, 0, 0, 0, 0, r.Location())
}

// CorrectionDeadline is 8 PM local time on the round's last calendar day.
// After it, last-day corrections are rejected.
func (r *Round) CorrectionDeadline() time.Time {
	return time.Date(r.Year, time.Month(r.Month), r.DaysInMonth(), CorrectionDeadlineHour, 0, 0, 0, r.Location())
}

// EndOfMonth is midnight local time after the round's last calendar day,
// i.e. the instant the round closes.
func (r *Round) EndOfMonth() time.Time {
	return time.Date(r.Year, time.Month(r.Month)+1, 1, 0, 0, 0, 0, r.Location())
}

// EffectiveStatus derives the lifecycle phase from the stored status and the
// current time. Stored status only ever moves forward administratively; time
// boundaries (registration deadline, end of month) are recomputed on every
// call so concurrent requests near a boundary all observe the same phase.
func (r *Round) EffectiveStatus(now time.Time) string {
	switch r.Status {
	case RoundStatusRegistrationOpen:
		if !now.Before(r.EndOfMonth()) {
			return RoundStatusClosed
		}
		if !now.Before(r.RegistrationDeadline()) {
			return RoundStatusLocked
		}
		return RoundStatusRegistrationOpen
	case RoundStatusLocked:
		if !now.Before(r.EndOfMonth()) {
			return RoundStatusClosed
		}
		return RoundStatusLocked
	default:
		return r.Status
	}
}

// RegistrationOpenAt reports whether a user may join or leave at the given time.
func (r *Round) RegistrationOpenAt(now time.Time) bool {
	return r.EffectiveStatus(now) == RoundStatusRegistrationOpen
}

// InNextRoundWindow reports whether now falls inside the last-day window
// (correction deadline to midnight local) during which the next month's
// round becomes joinable.
func (r *Round) InNextRoundWindow(now time.Time) bool {
	return !now.Before(r.CorrectionDeadline()) && now.Before(r.EndOfMonth())
}

// NextYearMonth returns the (year, month) of the round that follows this one.
func (r *Round) NextYearMonth() (int, int) {
	if r.Month == 12 {
		return r.Year + 1, 1
	}
	return r.Year, r.Month + 1
}
