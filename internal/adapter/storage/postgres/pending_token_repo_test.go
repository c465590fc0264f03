package postgres

import (
	"context"
	"testing"
	"time"

	"nostr-market-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPendingToken() *domain.PendingToken {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.PendingToken{
		ID:        uuid.New(),
		Token:     "enc_cashuA...",
		Amount:    24,
		MintURL:   "https://mint.example.com",
		Status:    domain.PendingTokenStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func pendingTokenColumns() []string {
	return []string{"id", "token", "amount", "mint_url", "status", "created_at", "updated_at"}
}

func TestPendingTokenRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPendingTokenRepo(mock)
	pt := newTestPendingToken()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO pending_tokens").
		WithArgs(pt.ID, pt.Token, pt.Amount, pt.MintURL, pt.Status, pt.CreatedAt, pt.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), dbTx, pt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingTokenRepo_ListPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPendingTokenRepo(mock)
	pt := newTestPendingToken()

	mock.ExpectQuery("SELECT .+ FROM pending_tokens WHERE status").
		WillReturnRows(pgxmock.NewRows(pendingTokenColumns()).AddRow(
			pt.ID, pt.Token, pt.Amount, pt.MintURL, pt.Status, pt.CreatedAt, pt.UpdatedAt,
		))

	result, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, pt.ID, result[0].ID)
	assert.Equal(t, domain.PendingTokenStatusPending, result[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingTokenRepo_MarkClaimed_WinsWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPendingTokenRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE pending_tokens SET status").
		WithArgs(domain.PendingTokenStatusClaimed, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	won, err := repo.MarkClaimed(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingTokenRepo_MarkReclaimed_AlreadyTerminal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPendingTokenRepo(mock)
	id := uuid.New()

	// A row already claimed matches no pending row; the caller loses.
	mock.ExpectExec("UPDATE pending_tokens SET status").
		WithArgs(domain.PendingTokenStatusReclaimed, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	won, err := repo.MarkReclaimed(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingTokenRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPendingTokenRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM pending_tokens WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(pendingTokenColumns()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
