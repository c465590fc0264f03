package postgres

import (
	"context"
	"fmt"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
)

type auditRepo struct {
	pool Pool
}

// NewAuditRepository creates a PostgreSQL-backed AuditRepository.
func NewAuditRepository(pool Pool) ports.AuditRepository {
	return &auditRepo{pool: pool}
}

func (r *auditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO audit_entries (id, order_id, invoice_id, action, proof_kind, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.OrderID, entry.InvoiceID, string(entry.Action),
		string(entry.ProofKind), entry.Detail, entry.CreatedAt,
	)
	return err
}

func (r *auditRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.AuditEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, order_id, invoice_id, action, proof_kind, detail, created_at
		 FROM audit_entries WHERE order_id = $1 ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		e := domain.AuditEntry{}
		err := rows.Scan(&e.ID, &e.OrderID, &e.InvoiceID, &e.Action, &e.ProofKind, &e.Detail, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entry rows: %w", err)
	}
	return entries, nil
}
