package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"nostr-market-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSeller() *domain.Seller {
	return &domain.Seller{
		ID:           uuid.New(),
		Pubkey:       "npub_merchant",
		Username:     "merchant1",
		PasswordHash: "$argon2id$...",
		V4VShares: []domain.V4VShare{
			{RecipientPubkey: "npub_dev", Percentage: 5.0},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func sellerColumns() []string {
	return []string{"id", "pubkey", "username", "password_hash", "v4v_shares", "created_at"}
}

func TestSellerRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSellerRepo(mock)
	s := newTestSeller()
	shares, err := json.Marshal(s.V4VShares)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO sellers").
		WithArgs(s.ID, s.Pubkey, s.Username, s.PasswordHash, shares, s.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), s)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepo_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSellerRepo(mock)
	s := newTestSeller()
	shares, err := json.Marshal(s.V4VShares)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .+ FROM sellers WHERE username").
		WithArgs(s.Username).
		WillReturnRows(pgxmock.NewRows(sellerColumns()).AddRow(
			s.ID, s.Pubkey, s.Username, s.PasswordHash, shares, s.CreatedAt,
		))

	result, err := repo.GetByUsername(context.Background(), s.Username)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, s.Pubkey, result.Pubkey)
	require.Len(t, result.V4VShares, 1)
	assert.Equal(t, "npub_dev", result.V4VShares[0].RecipientPubkey)
	assert.Equal(t, 5.0, result.V4VShares[0].Percentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepo_GetByUsername_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSellerRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM sellers WHERE username").
		WithArgs("nobody").
		WillReturnRows(pgxmock.NewRows(sellerColumns()))

	result, err := repo.GetByUsername(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSellerRepo_UpdateShares(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewSellerRepo(mock)
	id := uuid.New()
	shares := []domain.V4VShare{{RecipientPubkey: "npub_artist", Percentage: 2.5}}
	raw, err := json.Marshal(shares)
	require.NoError(t, err)

	mock.ExpectExec("UPDATE sellers SET v4v_shares").
		WithArgs(raw, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdateShares(context.Background(), id, shares)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
