package services

import (
	"sort"
	"testing"
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinBeforeAndAfterDeadline(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)
	r := createRound(t, db, g.ID)

	p, err := rounds.Join(r.ID, u.ID, utc(2026, time.March, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusActive, p.Status)

	u2 := createUser(t, db, "bob", models.GenderMale)
	_, err = rounds.Join(r.ID, u2.ID, utc(2026, time.March, 11, 0))
	require.Error(t, err)
	assert.Equal(t, "registration_closed", apperr.From(err).Code)
}

func TestJoinIsIdempotent(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)
	r := createRound(t, db, g.ID)

	now := utc(2026, time.March, 3, 12)
	p1 := joinAt(t, rounds, r.ID, u.ID, now)
	p2 := joinAt(t, rounds, r.ID, u.ID, now.Add(time.Hour))
	assert.Equal(t, p1.ID, p2.ID)

	var count int64
	db.Model(&models.RoundParticipant{}).Where("round_id = ?", r.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestLeaveAndRejoin(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)
	r := createRound(t, db, g.ID)

	joinAt(t, rounds, r.ID, u.ID, utc(2026, time.March, 2, 10))

	p, err := rounds.Leave(r.ID, u.ID, utc(2026, time.March, 5, 10))
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusLeftBeforeDeadline, p.Status)
	assert.NotNil(t, p.LeftAt)

	// Second leave conflicts.
	_, err = rounds.Leave(r.ID, u.ID, utc(2026, time.March, 5, 11))
	require.Error(t, err)
	assert.Equal(t, "already_left", apperr.From(err).Code)

	// Rejoin before the deadline reactivates the same row.
	p2 := joinAt(t, rounds, r.ID, u.ID, utc(2026, time.March, 6, 10))
	assert.Equal(t, p.ID, p2.ID)
	assert.Equal(t, models.ParticipantStatusActive, p2.Status)
	assert.Nil(t, p2.LeftAt)
}

func TestLeaveAfterDeadlineFails(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)
	r := createRound(t, db, g.ID)

	joinAt(t, rounds, r.ID, u.ID, utc(2026, time.March, 2, 10))

	_, err := rounds.Leave(r.ID, u.ID, utc(2026, time.March, 15, 10))
	require.Error(t, err)
	assert.Equal(t, "leave_deadline_passed", apperr.From(err).Code)
}

func TestCreateRoundUniquePerMonth(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)

	_, err := rounds.Create(CreateRoundInput{GroupID: g.ID, Year: 2026, Month: 4, Timezone: "UTC"})
	require.NoError(t, err)

	_, err = rounds.Create(CreateRoundInput{GroupID: g.ID, Year: 2026, Month: 4, Timezone: "UTC"})
	require.Error(t, err)
	assert.Equal(t, "round_exists", apperr.From(err).Code)
}

func TestCreateRoundRejectsUnknownTimezone(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)

	_, err := rounds.Create(CreateRoundInput{GroupID: g.ID, Year: 2026, Month: 4, Timezone: "Mars/Olympus"})
	require.Error(t, err)
	assert.Equal(t, "invalid_timezone", apperr.From(err).Code)
}

func TestEnsureNextRoundIsCreateOnce(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)
	r := createRound(t, db, g.ID)

	n1, err := rounds.EnsureNextRound(r)
	require.NoError(t, err)
	require.NotNil(t, n1)
	assert.Equal(t, 2026, n1.Year)
	assert.Equal(t, 4, n1.Month)
	assert.Equal(t, models.RoundStatusRegistrationOpen, n1.Status)

	n2, err := rounds.EnsureNextRound(r)
	require.NoError(t, err)
	assert.Equal(t, n1.ID, n2.ID)

	var count int64
	db.Model(&models.Round{}).Where("group_id = ?", g.ID).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestLastCompleted(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	u := createUser(t, db, "alice", models.GenderFemale)
	g := createGroup(t, db, "club", u.ID)

	none, err := rounds.LastCompleted(g.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	feb := models.Round{GroupID: g.ID, Year: 2026, Month: 2, Status: models.RoundStatusResultsPublished, Timezone: "UTC", RegistrationOpenUntilDay: 10}
	require.NoError(t, db.Create(&feb).Error)
	jan := models.Round{GroupID: g.ID, Year: 2026, Month: 1, Status: models.RoundStatusClosed, Timezone: "UTC", RegistrationOpenUntilDay: 10}
	require.NoError(t, db.Create(&jan).Error)
	createRound(t, db, g.ID) // March, still open

	last, err := rounds.LastCompleted(g.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 2, last.Month)
}

func TestPublishResultsPairingInvariants(t *testing.T) {
	db, rounds, reading, _ := newServices(t)
	owner := createUser(t, db, "owner", models.GenderFemale)
	g := createGroup(t, db, "club", owner.ID)
	r := createRound(t, db, g.ID)

	joinTime := utc(2026, time.March, 2, 10)
	users := []*models.User{
		createUser(t, db, "u1", models.GenderFemale),
		createUser(t, db, "u2", models.GenderMale),
		createUser(t, db, "u3", models.GenderFemale),
		createUser(t, db, "u4", models.GenderMale),
		createUser(t, db, "u5", models.GenderFemale),
	}
	for i, u := range users {
		joinAt(t, rounds, r.ID, u.ID, joinTime.Add(time.Duration(i)*time.Minute))
	}

	// Give u1..u3 distinct scores so the ranking is unambiguous.
	writeTime := utc(2026, time.March, 12, 12)
	for day := 5; day < 8; day++ {
		_, err := reading.LogMinutes(LogMinutesInput{
			RoundID: r.ID, UserID: users[0].ID,
			Date: time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout), Minutes: 60,
		}, writeTime)
		require.NoError(t, err)
	}
	for day := 5; day < 7; day++ {
		_, err := reading.LogMinutes(LogMinutesInput{
			RoundID: r.ID, UserID: users[1].ID,
			Date: time.Date(2026, time.March, day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout), Minutes: 60,
		}, writeTime)
		require.NoError(t, err)
	}
	_, err := reading.LogMinutes(LogMinutesInput{RoundID: r.ID, UserID: users[2].ID, Date: "2026-03-05", Minutes: 60}, writeTime)
	require.NoError(t, err)

	after := utc(2026, time.April, 2, 0)
	summary, err := rounds.PublishResults(r.ID, after)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Participants)
	assert.Equal(t, 2, summary.Winners) // n/2 with the odd member in the losers
	assert.Equal(t, 3, summary.Losers)

	var pairs []models.ExchangePair
	require.NoError(t, db.Where("round_id = ?", r.ID).Find(&pairs).Error)
	assert.Equal(t, summary.Pairs, len(pairs))

	givers := map[uuid.UUID]bool{}
	receivers := map[uuid.UUID]bool{}
	for _, p := range pairs {
		assert.NotEqual(t, p.GiverUserID, p.ReceiverUserID, "no self-pair")
		assert.False(t, givers[p.GiverUserID], "no duplicate giver")
		assert.False(t, receivers[p.ReceiverUserID], "no duplicate receiver")
		givers[p.GiverUserID] = true
		receivers[p.ReceiverUserID] = true
	}

	var rnd models.Round
	require.NoError(t, db.First(&rnd, "id = ?", r.ID).Error)
	assert.Equal(t, models.RoundStatusResultsPublished, rnd.Status)
	require.NotNil(t, rnd.ClosedAt)
}

func TestPublishResultsIsOnce(t *testing.T) {
	db, rounds, reading, _ := newServices(t)
	owner := createUser(t, db, "owner", models.GenderFemale)
	g := createGroup(t, db, "club", owner.ID)
	r := createRound(t, db, g.ID)

	u1 := createUser(t, db, "u1", models.GenderFemale)
	u2 := createUser(t, db, "u2", models.GenderMale)
	joinAt(t, rounds, r.ID, u1.ID, utc(2026, time.March, 2, 10))
	joinAt(t, rounds, r.ID, u2.ID, utc(2026, time.March, 2, 11))

	_, err := reading.LogMinutes(LogMinutesInput{RoundID: r.ID, UserID: u1.ID, Date: "2026-03-05", Minutes: 45}, utc(2026, time.March, 5, 12))
	require.NoError(t, err)

	after := utc(2026, time.April, 2, 0)
	first, err := rounds.PublishResults(r.ID, after)
	require.NoError(t, err)

	second, err := rounds.PublishResults(r.ID, after.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.Participants, second.Participants)
	assert.Equal(t, first.Pairs, second.Pairs)

	// Pairing ran exactly once.
	var pairCount int64
	db.Model(&models.ExchangePair{}).Where("round_id = ?", r.ID).Count(&pairCount)
	assert.EqualValues(t, first.Pairs, pairCount)

	var resultCount int64
	db.Model(&models.RoundResult{}).Where("round_id = ?", r.ID).Count(&resultCount)
	assert.EqualValues(t, 2, resultCount)
}

func TestPublishResultsRequiresClosedRound(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	owner := createUser(t, db, "owner", models.GenderFemale)
	g := createGroup(t, db, "club", owner.ID)
	r := createRound(t, db, g.ID)
	joinAt(t, rounds, r.ID, owner.ID, utc(2026, time.March, 2, 10))

	_, err := rounds.PublishResults(r.ID, utc(2026, time.March, 20, 12))
	require.Error(t, err)
	assert.Equal(t, "round_not_closed", apperr.From(err).Code)
}

func TestResultsNotPublishedYet(t *testing.T) {
	db, rounds, _, _ := newServices(t)
	owner := createUser(t, db, "owner", models.GenderFemale)
	g := createGroup(t, db, "club", owner.ID)
	r := createRound(t, db, g.ID)

	_, err := rounds.Results(r.ID, owner.ID)
	require.Error(t, err)
	assert.Equal(t, "results_not_published", apperr.From(err).Code)
}

func TestResultsIncludeCallerSlice(t *testing.T) {
	db, rounds, reading, _ := newServices(t)
	owner := createUser(t, db, "owner", models.GenderFemale)
	g := createGroup(t, db, "club", owner.ID)
	r := createRound(t, db, g.ID)

	u1 := createUser(t, db, "u1", models.GenderFemale)
	u2 := createUser(t, db, "u2", models.GenderMale)
	joinAt(t, rounds, r.ID, u1.ID, utc(2026, time.March, 2, 10))
	joinAt(t, rounds, r.ID, u2.ID, utc(2026, time.March, 2, 11))

	_, err := reading.LogMinutes(LogMinutesInput{RoundID: r.ID, UserID: u1.ID, Date: "2026-03-05", Minutes: 45}, utc(2026, time.March, 5, 12))
	require.NoError(t, err)

	_, err = rounds.PublishResults(r.ID, utc(2026, time.April, 2, 0))
	require.NoError(t, err)

	out, err := rounds.Results(r.ID, u2.ID)
	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, 1, out.Results[0].Rank)
	assert.Equal(t, u1.ID, out.Results[0].UserID)

	require.NotNil(t, out.Me)
	assert.Equal(t, 2, out.Me.Rank)
	assert.Equal(t, models.ResultGroupLoser, out.Me.Group)
	require.NotNil(t, out.Me.Pair, "loser gives a book and sees the pair")
	assert.Equal(t, u2.ID, out.Me.Pair.GiverUserID)
	assert.Equal(t, u1.ID, out.Me.Pair.ReceiverUserID)
}

func TestPairingIsDeterministic(t *testing.T) {
	run := func() []string {
		db, rounds, reading, _ := newServices(t)
		owner := createUser(t, db, "owner", models.GenderFemale)
		g := createGroup(t, db, "club", owner.ID)
		r := createRound(t, db, g.ID)

		names := []struct {
			name   string
			gender string
		}{
			{"ann", models.GenderFemale}, {"bob", models.GenderMale},
			{"cat", models.GenderFemale}, {"dan", models.GenderMale},
			{"eve", models.GenderFemale}, {"fred", models.GenderMale},
		}
		joinTime := utc(2026, time.March, 2, 10)
		users := map[uuid.UUID]string{}
		for i, n := range names {
			u := createUser(t, db, n.name, n.gender)
			users[u.ID] = n.name
			joinAt(t, rounds, r.ID, u.ID, joinTime.Add(time.Duration(i)*time.Minute))
			// Descending scores by join order keep the ranking fixed.
			for day := 0; day < len(names)-i; day++ {
				_, err := reading.LogMinutes(LogMinutesInput{
					RoundID: r.ID, UserID: u.ID,
					Date:    time.Date(2026, time.March, 5+day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout),
					Minutes: 60,
				}, utc(2026, time.March, 20, 12))
				require.NoError(t, err)
			}
		}

		_, err := rounds.PublishResults(r.ID, utc(2026, time.April, 2, 0))
		require.NoError(t, err)

		var pairs []models.ExchangePair
		require.NoError(t, db.Where("round_id = ?", r.ID).Find(&pairs).Error)
		out := make([]string, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, users[p.GiverUserID]+"->"+users[p.ReceiverUserID])
		}
		sort.Strings(out)
		return out
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}
