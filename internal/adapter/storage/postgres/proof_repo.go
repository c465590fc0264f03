package postgres

import (
	"context"
	"fmt"

	"nostr-market-payments/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ProofRepo implements ports.ProofRepository. Held ecash proofs live in
// cashu_proofs keyed by (mint_url, secret); token_digests records every
// token ever absorbed so a re-submitted token is a no-op.
type ProofRepo struct {
	pool Pool
}

// NewProofRepo creates a new ProofRepo.
func NewProofRepo(pool Pool) *ProofRepo {
	return &ProofRepo{pool: pool}
}

// InsertProofs stores freshly swapped proofs within a database
// transaction.
func (r *ProofRepo) InsertProofs(ctx context.Context, tx pgx.Tx, mintURL string, proofs []domain.CashuProof) error {
	query := `INSERT INTO cashu_proofs (mint_url, keyset_id, amount, secret, c, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())`

	for _, p := range proofs {
		_, err := tx.Exec(ctx, query, mintURL, p.KeysetID, p.Amount, p.Secret, p.C)
		if err != nil {
			return fmt.Errorf("insert cashu proof: %w", err)
		}
	}
	return nil
}

// DeleteBySecrets removes spent proofs within a database transaction.
func (r *ProofRepo) DeleteBySecrets(ctx context.Context, tx pgx.Tx, mintURL string, secrets []string) error {
	query := `DELETE FROM cashu_proofs WHERE mint_url = $1 AND secret = ANY($2)`

	_, err := tx.Exec(ctx, query, mintURL, secrets)
	if err != nil {
		return fmt.Errorf("delete cashu proofs: %w", err)
	}
	return nil
}

// ListByMint fetches every held proof for one mint.
func (r *ProofRepo) ListByMint(ctx context.Context, mintURL string) ([]domain.CashuProof, error) {
	query := `SELECT keyset_id, amount, secret, c FROM cashu_proofs WHERE mint_url = $1 ORDER BY amount DESC`

	rows, err := r.pool.Query(ctx, query, mintURL)
	if err != nil {
		return nil, fmt.Errorf("list cashu proofs: %w", err)
	}
	defer rows.Close()

	var proofs []domain.CashuProof
	for rows.Next() {
		p := domain.CashuProof{}
		if err := rows.Scan(&p.KeysetID, &p.Amount, &p.Secret, &p.C); err != nil {
			return nil, fmt.Errorf("scan cashu proof row: %w", err)
		}
		proofs = append(proofs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cashu proof rows: %w", err)
	}
	return proofs, nil
}

// TotalByMint sums the held proof amounts for one mint.
func (r *ProofRepo) TotalByMint(ctx context.Context, mintURL string) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM cashu_proofs WHERE mint_url = $1`

	var total int64
	if err := r.pool.QueryRow(ctx, query, mintURL).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum cashu proofs: %w", err)
	}
	return total, nil
}

// HasTokenDigest checks whether a received token was already absorbed.
func (r *ProofRepo) HasTokenDigest(ctx context.Context, digest string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM token_digests WHERE digest = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, digest).Scan(&exists); err != nil {
		return false, fmt.Errorf("check token digest: %w", err)
	}
	return exists, nil
}

// SaveTokenDigest records an absorbed token within a database
// transaction, in the same transaction that stores its proofs.
func (r *ProofRepo) SaveTokenDigest(ctx context.Context, tx pgx.Tx, digest string) error {
	query := `INSERT INTO token_digests (digest, created_at) VALUES ($1, NOW())`

	_, err := tx.Exec(ctx, query, digest)
	if err != nil {
		return fmt.Errorf("save token digest: %w", err)
	}
	return nil
}
