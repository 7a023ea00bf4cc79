package perks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/card-perks/internal/domain/extraction"
)

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock), mock
}

func TestRepository_SavePerks(t *testing.T) {
	repo, mock := newMockRepo(t)

	cardID := uuid.New()
	merchantID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO merchants`).
		WithArgs(pgxmock.AnyArg(), "Starbucks").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(merchantID))
	mock.ExpectExec(`INSERT INTO perks`).
		WithArgs(pgxmock.AnyArg(), cardID, merchantID, "Get 10% off", "10%", "12/31/2025", 0.9, "generic", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	stored, err := repo.SavePerks(context.Background(), cardID, "generic", []extraction.ExtractedPerk{
		{Merchant: "Starbucks", Description: "Get 10% off", Value: "10%", Expiration: "12/31/2025", Confidence: 0.9},
	})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	assert.Equal(t, cardID, stored[0].CardID)
	assert.Equal(t, merchantID, stored[0].MerchantID)
	assert.Equal(t, "Starbucks", stored[0].Merchant)
	assert.Equal(t, "generic", stored[0].Issuer)
	assert.NotEqual(t, uuid.Nil, stored[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SavePerks_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	// No perks means no transaction at all.
	stored, err := repo.SavePerks(context.Background(), uuid.New(), "chase", nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SavePerks_MerchantErrorRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO merchants`).
		WithArgs(pgxmock.AnyArg(), "Starbucks").
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	_, err := repo.SavePerks(context.Background(), uuid.New(), "generic", []extraction.ExtractedPerk{
		{Merchant: "Starbucks", Description: "Get 10% off", Value: "10%", Confidence: 0.9},
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, `resolve merchant "Starbucks"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByCard(t *testing.T) {
	repo, mock := newMockRepo(t)

	cardID := uuid.New()
	now := time.Now()
	rows := pgxmock.NewRows([]string{
		"id", "card_id", "merchant_id", "name", "description",
		"value", "expiration", "confidence", "issuer", "created_at",
	}).AddRow(
		uuid.New(), cardID, uuid.New(), "Shake Shack", "Earn 20% back",
		"20%", "02/14/2025", 0.85, "amex", now,
	).AddRow(
		uuid.New(), cardID, uuid.New(), "Turo", "10% cash back",
		"10%", "", 0.9, "chase", now.Add(-time.Hour),
	)

	mock.ExpectQuery(`SELECT (.+) FROM perks`).
		WithArgs(cardID).
		WillReturnRows(rows)

	perks, err := repo.ListByCard(context.Background(), cardID)
	require.NoError(t, err)
	require.Len(t, perks, 2)
	assert.Equal(t, "Shake Shack", perks[0].Merchant)
	assert.Equal(t, "amex", perks[0].Issuer)
	assert.Equal(t, "Turo", perks[1].Merchant)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteByCard(t *testing.T) {
	repo, mock := newMockRepo(t)

	cardID := uuid.New()
	mock.ExpectExec(`DELETE FROM perks`).
		WithArgs(cardID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	n, err := repo.DeleteByCard(context.Background(), cardID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
