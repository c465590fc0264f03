package ports

import (
	"context"

	"nostr-market-payments/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InvoiceRepository defines persistence for invoices. Methods accepting
// pgx.Tx run inside transaction blocks; GetByIDForUpdate takes a row
// lock so concurrent settlement attempts serialize on the invoice.
type InvoiceRepository interface {
	CreateBatch(ctx context.Context, tx pgx.Tx, invoices []*domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Invoice, error)
	// ListByOrder returns the order's invoices in creation order; the
	// display order is stable across polls.
	ListByOrder(ctx context.Context, orderID string) ([]domain.Invoice, error)
	ListIncompleteByOrder(ctx context.Context, orderID string) ([]domain.Invoice, error)
	// ListOpenOrders returns distinct order ids that still have
	// non-terminal invoices, for the background poller.
	ListOpenOrders(ctx context.Context) ([]string, error)
	Update(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice) error
	// Stats aggregates invoice counts and sats for the dashboard.
	Stats(ctx context.Context, recipientPubkey string) (*InvoiceStats, error)
}

// InvoiceStats holds aggregated invoice figures for the dashboard.
type InvoiceStats struct {
	TotalInvoices   int64
	Paid            int64
	Pending         int64
	Expired         int64
	Skipped         int64
	SatsCollected   int64
	SatsOutstanding int64
}

// PendingTokenRepository persists the durable log of sent-but-
// unconfirmed ecash tokens. MarkClaimed/MarkReclaimed only touch rows
// still in status pending and report whether they won the write, which
// makes the two terminal states mutually exclusive.
type PendingTokenRepository interface {
	Create(ctx context.Context, tx pgx.Tx, token *domain.PendingToken) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingToken, error)
	ListPending(ctx context.Context) ([]domain.PendingToken, error)
	MarkClaimed(ctx context.Context, id uuid.UUID) (bool, error)
	MarkReclaimed(ctx context.Context, id uuid.UUID) (bool, error)
}

// ProofRepository persists locally-held ecash proofs grouped by mint,
// plus the digests of already-received tokens (receive idempotency).
type ProofRepository interface {
	InsertProofs(ctx context.Context, tx pgx.Tx, mintURL string, proofs []domain.CashuProof) error
	DeleteBySecrets(ctx context.Context, tx pgx.Tx, mintURL string, secrets []string) error
	ListByMint(ctx context.Context, mintURL string) ([]domain.CashuProof, error)
	TotalByMint(ctx context.Context, mintURL string) (int64, error)
	HasTokenDigest(ctx context.Context, digest string) (bool, error)
	SaveTokenDigest(ctx context.Context, tx pgx.Tx, digest string) error
}

// SellerRepository defines persistence for seller accounts and their
// V4V share configuration.
type SellerRepository interface {
	Create(ctx context.Context, seller *domain.Seller) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Seller, error)
	GetByUsername(ctx context.Context, username string) (*domain.Seller, error)
	UpdateShares(ctx context.Context, id uuid.UUID, shares []domain.V4VShare) error
}

// OrderFlagRepository tracks the external cancellation flag per order.
type OrderFlagRepository interface {
	SetCancelled(ctx context.Context, orderID string) error
	IsCancelled(ctx context.Context, orderID string) (bool, error)
}

// AuditRepository persists the settlement audit trail.
type AuditRepository interface {
	Record(ctx context.Context, entry *domain.AuditEntry) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.AuditEntry, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
