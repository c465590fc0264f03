package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nostr-market-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SellerRepo implements ports.SellerRepository. V4V shares are stored
// as a JSONB document; the split set is always read and written whole.
type SellerRepo struct {
	pool Pool
}

// NewSellerRepo creates a new SellerRepo.
func NewSellerRepo(pool Pool) *SellerRepo {
	return &SellerRepo{pool: pool}
}

// Create inserts a new seller.
func (r *SellerRepo) Create(ctx context.Context, s *domain.Seller) error {
	shares, err := json.Marshal(s.V4VShares)
	if err != nil {
		return fmt.Errorf("marshal v4v shares: %w", err)
	}

	query := `INSERT INTO sellers (id, pubkey, username, password_hash, v4v_shares, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.pool.Exec(ctx, query, s.ID, s.Pubkey, s.Username, s.PasswordHash, shares, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert seller: %w", err)
	}
	return nil
}

// GetByID fetches a seller by UUID.
func (r *SellerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Seller, error) {
	query := `SELECT id, pubkey, username, password_hash, v4v_shares, created_at
		FROM sellers WHERE id = $1`
	return scanSeller(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches a seller by username.
func (r *SellerRepo) GetByUsername(ctx context.Context, username string) (*domain.Seller, error) {
	query := `SELECT id, pubkey, username, password_hash, v4v_shares, created_at
		FROM sellers WHERE username = $1`
	return scanSeller(r.pool.QueryRow(ctx, query, username))
}

// UpdateShares replaces a seller's V4V split configuration.
func (r *SellerRepo) UpdateShares(ctx context.Context, id uuid.UUID, shares []domain.V4VShare) error {
	raw, err := json.Marshal(shares)
	if err != nil {
		return fmt.Errorf("marshal v4v shares: %w", err)
	}

	query := `UPDATE sellers SET v4v_shares = $1 WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, raw, id)
	if err != nil {
		return fmt.Errorf("update v4v shares: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("seller not found: %s", id)
	}
	return nil
}

// scanSeller is a helper to scan a single row into a Seller.
func scanSeller(row pgx.Row) (*domain.Seller, error) {
	s := &domain.Seller{}
	var shares []byte
	err := row.Scan(&s.ID, &s.Pubkey, &s.Username, &s.PasswordHash, &shares, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan seller: %w", err)
	}
	if len(shares) > 0 {
		if err := json.Unmarshal(shares, &s.V4VShares); err != nil {
			return nil, fmt.Errorf("unmarshal v4v shares: %w", err)
		}
	}
	return s, nil
}
