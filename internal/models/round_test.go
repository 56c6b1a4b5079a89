package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func almatyRound() *Round {
	return &Round{
		Year:                     2026,
		Month:                    3,
		Status:                   RoundStatusRegistrationOpen,
		RegistrationOpenUntilDay: 10,
		Timezone:                 "Asia/Almaty",
	}
}

func inTZ(t *testing.T, tz string, year int, month time.Month, day, hour, min int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func TestEffectiveStatusBoundaries(t *testing.T) {
	r := almatyRound()

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"mid registration", inTZ(t, "Asia/Almaty", 2026, time.March, 5, 12, 0), RoundStatusRegistrationOpen},
		{"last minute of deadline day", inTZ(t, "Asia/Almaty", 2026, time.March, 10, 23, 59), RoundStatusRegistrationOpen},
		{"midnight after deadline day", inTZ(t, "Asia/Almaty", 2026, time.March, 11, 0, 0), RoundStatusLocked},
		{"last day evening", inTZ(t, "Asia/Almaty", 2026, time.March, 31, 23, 59), RoundStatusLocked},
		{"midnight after last day", inTZ(t, "Asia/Almaty", 2026, time.April, 1, 0, 0), RoundStatusClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.EffectiveStatus(tt.now))
		})
	}
}

func TestEffectiveStatusIsTimezoneAware(t *testing.T) {
	r := almatyRound()

	// 21:00 UTC on March 10 is already March 11 02:00 in Almaty (UTC+5):
	// the registration deadline has passed in the round's timezone even
	// though the UTC date still reads the 10th.
	now := time.Date(2026, time.March, 10, 21, 0, 0, 0, time.UTC)
	assert.Equal(t, RoundStatusLocked, r.EffectiveStatus(now))
}

func TestEffectiveStatusTerminalStates(t *testing.T) {
	r := almatyRound()
	longAfter := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	r.Status = RoundStatusDraft
	assert.Equal(t, RoundStatusDraft, r.EffectiveStatus(longAfter))

	r.Status = RoundStatusResultsPublished
	assert.Equal(t, RoundStatusResultsPublished, r.EffectiveStatus(longAfter))
}

func TestNextRoundWindow(t *testing.T) {
	r := almatyRound()

	assert.False(t, r.InNextRoundWindow(inTZ(t, "Asia/Almaty", 2026, time.March, 31, 19, 59)))
	assert.True(t, r.InNextRoundWindow(inTZ(t, "Asia/Almaty", 2026, time.March, 31, 20, 0)))
	assert.True(t, r.InNextRoundWindow(inTZ(t, "Asia/Almaty", 2026, time.March, 31, 23, 59)))
	assert.False(t, r.InNextRoundWindow(inTZ(t, "Asia/Almaty", 2026, time.April, 1, 0, 0)))
}

func TestCorrectionDeadlineUTC(t *testing.T) {
	r := almatyRound()

	// 20:00 Almaty on March 31 is 15:00 UTC.
	want := time.Date(2026, time.March, 31, 15, 0, 0, 0, time.UTC)
	assert.True(t, r.CorrectionDeadline().Equal(want))
}

func TestDaysInMonth(t *testing.T) {
	feb := &Round{Year: 2026, Month: 2, Timezone: "UTC"}
	assert.Equal(t, 28, feb.DaysInMonth())

	febLeap := &Round{Year: 2028, Month: 2, Timezone: "UTC"}
	assert.Equal(t, 29, febLeap.DaysInMonth())

	assert.Equal(t, 31, almatyRound().DaysInMonth())
}

func TestNextYearMonth(t *testing.T) {
	r := almatyRound()
	y, m := r.NextYearMonth()
	assert.Equal(t, 2026, y)
	assert.Equal(t, 4, m)

	dec := &Round{Year: 2026, Month: 12, Timezone: "UTC"}
	y, m = dec.NextYearMonth()
	assert.Equal(t, 2027, y)
	assert.Equal(t, 1, m)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	r := &Round{Year: 2026, Month: 3, Timezone: "Not/AZone"}
	assert.Equal(t, time.UTC, r.Location())
}
