package services

import (
	"testing"
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGroupGrantsOwnerAdminMembership(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	groups := NewGroupService(db, rounds)
	owner := createUser(t, db, "owner", models.GenderMale)

	g, err := groups.Create("Power Book", "powerbook", owner.ID, utc(2026, time.February, 1, 10))
	require.NoError(t, err)

	ok, err := groups.ActiveMember(g.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	var m models.GroupMember
	require.NoError(t, db.Where("group_id = ? AND user_id = ?", g.ID, owner.ID).First(&m).Error)
	assert.Equal(t, models.MemberRoleAdmin, m.Role)

	_, err = groups.Create("Other", "powerbook", owner.ID, utc(2026, time.February, 1, 11))
	require.Error(t, err)
	assert.Equal(t, "slug_taken", apperr.From(err).Code)
}

func TestCurrentRoundStatusSnapshot(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	groups := NewGroupService(db, rounds)
	u := createUser(t, db, "alice", models.GenderFemale)
	g, err := groups.Create("Power Book", "powerbook", u.ID, utc(2026, time.February, 1, 10))
	require.NoError(t, err)
	r := createRound(t, db, g.ID)
	joinAt(t, rounds, r.ID, u.ID, utc(2026, time.March, 2, 10))

	status, err := groups.CurrentRoundStatusBySlug("powerbook", u.ID, utc(2026, time.March, 15, 12))
	require.NoError(t, err)
	require.NotNil(t, status.Round)
	assert.Equal(t, models.RoundStatusLocked, status.Round.EffectiveStatus)
	require.NotNil(t, status.Participation)
	assert.True(t, status.Participation.IsParticipant)
	require.NotNil(t, status.DeadlineUTC)
	assert.Equal(t, utc(2026, time.April, 1, 0), status.DeadlineUTC.UTC())
	require.NotNil(t, status.CorrectionDeadlineUTC)
	assert.Equal(t, utc(2026, time.March, 31, 20), status.CorrectionDeadlineUTC.UTC())
	assert.Nil(t, status.NextRound, "next round not visible before the correction deadline")
}

func TestCurrentRoundStatusCreatesNextRoundInWindow(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	groups := NewGroupService(db, rounds)
	u := createUser(t, db, "alice", models.GenderFemale)
	g, err := groups.Create("Power Book", "powerbook", u.ID, utc(2026, time.February, 1, 10))
	require.NoError(t, err)
	createRound(t, db, g.ID)

	// 21:00 on the last day is past the correction deadline.
	status, err := groups.CurrentRoundStatusBySlug("powerbook", u.ID, utc(2026, time.March, 31, 21))
	require.NoError(t, err)
	require.NotNil(t, status.NextRound)
	assert.Equal(t, 2026, status.NextRound.Year)
	assert.Equal(t, 4, status.NextRound.Month)
	assert.Equal(t, models.RoundStatusRegistrationOpen, status.NextRound.Status)

	// A second observation finds the same round instead of creating another.
	again, err := groups.CurrentRoundStatusBySlug("powerbook", u.ID, utc(2026, time.March, 31, 22))
	require.NoError(t, err)
	require.NotNil(t, again.NextRound)
	assert.Equal(t, status.NextRound.ID, again.NextRound.ID)

	var count int64
	db.Model(&models.Round{}).Where("group_id = ?", g.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestCurrentRoundStatusWithoutRound(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	groups := NewGroupService(db, rounds)
	u := createUser(t, db, "alice", models.GenderFemale)
	_, err := groups.Create("Power Book", "powerbook", u.ID, utc(2026, time.February, 1, 10))
	require.NoError(t, err)

	status, err := groups.CurrentRoundStatusBySlug("powerbook", u.ID, utc(2026, time.March, 15, 12))
	require.NoError(t, err)
	assert.Nil(t, status.Round)
	assert.Nil(t, status.Participation)

	_, err = groups.CurrentRoundStatusBySlug("missing", u.ID, utc(2026, time.March, 15, 12))
	require.Error(t, err)
	assert.Equal(t, "group_not_found", apperr.From(err).Code)
}
