package services

import (
	"testing"
	"time"

	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Round{},
		&models.RoundParticipant{},
		&models.ReadingLog{},
		&models.RoundResult{},
		&models.ExchangePair{},
	))
	return db
}

func newServices(t *testing.T) (*gorm.DB, *RoundService, *ReadingService, *LeaderboardService) {
	t.Helper()
	db := newTestDB(t)
	leaderboard := NewLeaderboardService(db)
	rounds := NewRoundService(db, leaderboard)
	reading := NewReadingService(db, rounds)
	return db, rounds, reading, leaderboard
}

func createUser(t *testing.T, db *gorm.DB, name, gender string) *models.User {
	t.Helper()
	u := models.User{
		Username:     name,
		PasswordHash: "x",
		DisplayName:  name,
		Gender:       gender,
		SystemRole:   models.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return &u
}

func createGroup(t *testing.T, db *gorm.DB, slug string, owner uuid.UUID) *models.Group {
	t.Helper()
	g := models.Group{Name: slug, Slug: slug, OwnerUserID: owner}
	require.NoError(t, db.Create(&g).Error)
	return &g
}

// createRound makes a March 2026 round in UTC with registration open,
// deadline day 10, unless overridden by the caller afterwards.
func createRound(t *testing.T, db *gorm.DB, groupID uuid.UUID) *models.Round {
	t.Helper()
	r := models.Round{
		GroupID:                  groupID,
		Year:                     2026,
		Month:                    3,
		Status:                   models.RoundStatusRegistrationOpen,
		RegistrationOpenUntilDay: 10,
		Timezone:                 "UTC",
	}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

func joinAt(t *testing.T, rounds *RoundService, roundID, userID uuid.UUID, now time.Time) *models.RoundParticipant {
	t.Helper()
	p, err := rounds.Join(roundID, userID, now)
	require.NoError(t, err)
	return p
}

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
