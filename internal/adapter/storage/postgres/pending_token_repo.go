package postgres

import (
	"context"
	"errors"
	"fmt"

	"nostr-market-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PendingTokenRepo implements ports.PendingTokenRepository.
type PendingTokenRepo struct {
	pool Pool
}

// NewPendingTokenRepo creates a new PendingTokenRepo.
func NewPendingTokenRepo(pool Pool) *PendingTokenRepo {
	return &PendingTokenRepo{pool: pool}
}

// Create inserts a pending token within a database transaction. The
// row must be durable before the serialized token leaves the process.
func (r *PendingTokenRepo) Create(ctx context.Context, tx pgx.Tx, token *domain.PendingToken) error {
	query := `INSERT INTO pending_tokens (id, token, amount, mint_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := tx.Exec(ctx, query,
		token.ID, token.Token, token.Amount, token.MintURL,
		token.Status, token.CreatedAt, token.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pending token: %w", err)
	}
	return nil
}

// GetByID fetches a pending token by UUID.
func (r *PendingTokenRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingToken, error) {
	query := `SELECT id, token, amount, mint_url, status, created_at, updated_at
		FROM pending_tokens WHERE id = $1`

	pt := &domain.PendingToken{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pt.ID, &pt.Token, &pt.Amount, &pt.MintURL, &pt.Status, &pt.CreatedAt, &pt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pending token: %w", err)
	}
	return pt, nil
}

// ListPending fetches every token still in status pending, oldest
// first.
func (r *PendingTokenRepo) ListPending(ctx context.Context) ([]domain.PendingToken, error) {
	query := `SELECT id, token, amount, mint_url, status, created_at, updated_at
		FROM pending_tokens WHERE status = 'pending' ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending tokens: %w", err)
	}
	defer rows.Close()

	var tokens []domain.PendingToken
	for rows.Next() {
		pt := domain.PendingToken{}
		err := rows.Scan(&pt.ID, &pt.Token, &pt.Amount, &pt.MintURL, &pt.Status, &pt.CreatedAt, &pt.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan pending token row: %w", err)
		}
		tokens = append(tokens, pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending token rows: %w", err)
	}
	return tokens, nil
}

// MarkClaimed transitions a pending token to claimed. Only a row still
// in status pending is touched, so claimed and reclaimed stay mutually
// exclusive; the return value reports whether this writer won.
func (r *PendingTokenRepo) MarkClaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.markTerminal(ctx, id, domain.PendingTokenStatusClaimed)
}

// MarkReclaimed transitions a pending token to reclaimed under the same
// first-writer-wins rule as MarkClaimed.
func (r *PendingTokenRepo) MarkReclaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.markTerminal(ctx, id, domain.PendingTokenStatusReclaimed)
}

func (r *PendingTokenRepo) markTerminal(ctx context.Context, id uuid.UUID, status domain.PendingTokenStatus) (bool, error) {
	query := `UPDATE pending_tokens SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return false, fmt.Errorf("mark pending token %s: %w", status, err)
	}
	return tag.RowsAffected() == 1, nil
}
