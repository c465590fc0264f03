package postgres

import (
	"context"
	"errors"
	"fmt"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const invoiceColumns = `id, order_id, amount, type, recipient_pubkey, v4v_split_percent,
	payment_method, status, bolt11, lightning_address, is_zap, preimage,
	bitcoin_address, payment_uri, txid, confirmations, expires_at, receipt,
	created_at, updated_at, persisted_at`

// InvoiceRepo implements ports.InvoiceRepository.
type InvoiceRepo struct {
	pool Pool
}

// NewInvoiceRepo creates a new InvoiceRepo.
func NewInvoiceRepo(pool Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

// CreateBatch inserts an order's invoice set within a database
// transaction so a partial set is never visible.
func (r *InvoiceRepo) CreateBatch(ctx context.Context, tx pgx.Tx, invoices []*domain.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`

	for _, inv := range invoices {
		_, err := tx.Exec(ctx, query,
			inv.ID, inv.OrderID, inv.Amount, inv.Type, inv.RecipientPubkey, inv.V4VSplitPercent,
			inv.PaymentMethod, inv.Status, inv.Bolt11, inv.LightningAddress, inv.IsZap, inv.Preimage,
			inv.BitcoinAddress, inv.PaymentURI, inv.Txid, inv.Confirmations, inv.ExpiresAt, inv.Receipt,
			inv.CreatedAt, inv.UpdatedAt, inv.PersistedAt,
		)
		if err != nil {
			return fmt.Errorf("insert invoice: %w", err)
		}
	}
	return nil
}

// GetByID fetches an invoice by UUID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches an invoice with a row lock. Concurrent
// settlement attempts on the same invoice serialize here.
func (r *InvoiceRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`
	return scanInvoice(tx.QueryRow(ctx, query, id))
}

// ListByOrder fetches an order's invoices in creation order.
func (r *InvoiceRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE order_id = $1 ORDER BY created_at, id`
	return r.listInvoices(ctx, query, orderID)
}

// ListIncompleteByOrder fetches an order's still-pending invoices.
func (r *InvoiceRepo) ListIncompleteByOrder(ctx context.Context, orderID string) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE order_id = $1 AND status = 'pending' ORDER BY created_at, id`
	return r.listInvoices(ctx, query, orderID)
}

// ListOpenOrders fetches distinct order ids that still carry pending
// invoices, for the background poller.
func (r *InvoiceRepo) ListOpenOrders(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT order_id FROM invoices WHERE status = 'pending' ORDER BY order_id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	defer rows.Close()

	var orderIDs []string
	for rows.Next() {
		var orderID string
		if err := rows.Scan(&orderID); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		orderIDs = append(orderIDs, orderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate open order rows: %w", err)
	}
	return orderIDs, nil
}

// Update writes an invoice's settlement fields within a database
// transaction.
func (r *InvoiceRepo) Update(ctx context.Context, tx pgx.Tx, inv *domain.Invoice) error {
	query := `UPDATE invoices
		SET status = $1, payment_method = $2, preimage = $3, txid = $4,
			confirmations = $5, receipt = $6, updated_at = NOW()
		WHERE id = $7`

	tag, err := tx.Exec(ctx, query,
		inv.Status, inv.PaymentMethod, inv.Preimage, inv.Txid,
		inv.Confirmations, inv.Receipt, inv.ID,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice not found: %s", inv.ID)
	}
	return nil
}

// Stats aggregates invoice figures for a recipient's dashboard.
func (r *InvoiceRepo) Stats(ctx context.Context, recipientPubkey string) (*ports.InvoiceStats, error) {
	query := `SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'paid') AS paid,
		COUNT(*) FILTER (WHERE status = 'pending') AS pending,
		COUNT(*) FILTER (WHERE status = 'expired') AS expired,
		COUNT(*) FILTER (WHERE status = 'skipped') AS skipped,
		COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0) AS sats_collected,
		COALESCE(SUM(amount) FILTER (WHERE status = 'pending'), 0) AS sats_outstanding
		FROM invoices WHERE recipient_pubkey = $1`

	stats := &ports.InvoiceStats{}
	err := r.pool.QueryRow(ctx, query, recipientPubkey).Scan(
		&stats.TotalInvoices, &stats.Paid, &stats.Pending, &stats.Expired, &stats.Skipped,
		&stats.SatsCollected, &stats.SatsOutstanding,
	)
	if err != nil {
		return nil, fmt.Errorf("get invoice stats: %w", err)
	}
	return stats, nil
}

func (r *InvoiceRepo) listInvoices(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv := domain.Invoice{}
		err := rows.Scan(
			&inv.ID, &inv.OrderID, &inv.Amount, &inv.Type, &inv.RecipientPubkey, &inv.V4VSplitPercent,
			&inv.PaymentMethod, &inv.Status, &inv.Bolt11, &inv.LightningAddress, &inv.IsZap, &inv.Preimage,
			&inv.BitcoinAddress, &inv.PaymentURI, &inv.Txid, &inv.Confirmations, &inv.ExpiresAt, &inv.Receipt,
			&inv.CreatedAt, &inv.UpdatedAt, &inv.PersistedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}
	return invoices, nil
}

// scanInvoice is a helper to scan a single row into an Invoice.
func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	inv := &domain.Invoice{}
	err := row.Scan(
		&inv.ID, &inv.OrderID, &inv.Amount, &inv.Type, &inv.RecipientPubkey, &inv.V4VSplitPercent,
		&inv.PaymentMethod, &inv.Status, &inv.Bolt11, &inv.LightningAddress, &inv.IsZap, &inv.Preimage,
		&inv.BitcoinAddress, &inv.PaymentURI, &inv.Txid, &inv.Confirmations, &inv.ExpiresAt, &inv.Receipt,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.PersistedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	return inv, nil
}
