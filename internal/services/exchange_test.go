package services

import (
	"testing"
	"time"

	"github.com/aidosorynbay/powerbook/internal/apperr"
	"github.com/aidosorynbay/powerbook/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPair(t *testing.T, db *gorm.DB, roundID, giver, receiver uuid.UUID) *models.ExchangePair {
	t.Helper()
	pair := models.ExchangePair{RoundID: roundID, GiverUserID: giver, ReceiverUserID: receiver}
	require.NoError(t, db.Create(&pair).Error)
	return &pair
}

func TestMarkGivenOnce(t *testing.T) {
	db, _, _, _ := newServices(t)
	exchange := NewExchangeService(db)
	giver := createUser(t, db, "giver", models.GenderMale)
	receiver := createUser(t, db, "receiver", models.GenderFemale)
	g := createGroup(t, db, "club", giver.ID)
	r := createRound(t, db, g.ID)
	pair := createPair(t, db, r.ID, giver.ID, receiver.ID)

	now := utc(2026, time.April, 2, 12)
	updated, err := exchange.MarkGiven(pair.ID, giver.ID, now)
	require.NoError(t, err)
	require.NotNil(t, updated.GiverMarkedGivenAt)
	assert.Nil(t, updated.ReceiverMarkedReceivedAt, "receiver's confirmation untouched")

	_, err = exchange.MarkGiven(pair.ID, giver.ID, now.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, "already_marked", apperr.From(err).Code)

	// The timestamp of the first confirmation stays.
	final, err := exchange.ListForUser(giver.ID)
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, now.Unix(), final[0].GiverMarkedGivenAt.Unix())
}

func TestMarkReceivedOnce(t *testing.T) {
	db, _, _, _ := newServices(t)
	exchange := NewExchangeService(db)
	giver := createUser(t, db, "giver", models.GenderMale)
	receiver := createUser(t, db, "receiver", models.GenderFemale)
	g := createGroup(t, db, "club", giver.ID)
	r := createRound(t, db, g.ID)
	pair := createPair(t, db, r.ID, giver.ID, receiver.ID)

	now := utc(2026, time.April, 2, 12)
	updated, err := exchange.MarkReceived(pair.ID, receiver.ID, now)
	require.NoError(t, err)
	require.NotNil(t, updated.ReceiverMarkedReceivedAt)
	assert.Nil(t, updated.GiverMarkedGivenAt)

	_, err = exchange.MarkReceived(pair.ID, receiver.ID, now.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, "already_marked", apperr.From(err).Code)
}

func TestMarkRequiresMatchingRole(t *testing.T) {
	db, _, _, _ := newServices(t)
	exchange := NewExchangeService(db)
	giver := createUser(t, db, "giver", models.GenderMale)
	receiver := createUser(t, db, "receiver", models.GenderFemale)
	g := createGroup(t, db, "club", giver.ID)
	r := createRound(t, db, g.ID)
	pair := createPair(t, db, r.ID, giver.ID, receiver.ID)

	now := utc(2026, time.April, 2, 12)

	_, err := exchange.MarkGiven(pair.ID, receiver.ID, now)
	require.Error(t, err)
	assert.Equal(t, "not_giver", apperr.From(err).Code)

	_, err = exchange.MarkReceived(pair.ID, giver.ID, now)
	require.Error(t, err)
	assert.Equal(t, "not_receiver", apperr.From(err).Code)

	_, err = exchange.MarkGiven(uuid.New(), giver.ID, now)
	require.Error(t, err)
	assert.Equal(t, "pair_not_found", apperr.From(err).Code)
}

func TestListForUserIncludesBothSides(t *testing.T) {
	db, _, _, _ := newServices(t)
	exchange := NewExchangeService(db)
	a := createUser(t, db, "ann", models.GenderFemale)
	b := createUser(t, db, "bob", models.GenderMale)
	c := createUser(t, db, "cat", models.GenderFemale)
	g := createGroup(t, db, "club", a.ID)
	r := createRound(t, db, g.ID)

	createPair(t, db, r.ID, a.ID, b.ID)
	createPair(t, db, r.ID, c.ID, a.ID)
	createPair(t, db, r.ID, b.ID, c.ID)

	pairs, err := exchange.ListForUser(a.ID)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.True(t, p.GiverUserID == a.ID || p.ReceiverUserID == a.ID)
		assert.NotEmpty(t, p.GiverName)
		assert.NotEmpty(t, p.ReceiverName)
	}
}
