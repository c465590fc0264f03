package ports

import (
	"context"
	"time"

	"nostr-market-payments/internal/core/domain"

	"github.com/google/uuid"
)

// --- Collaborator Ports (external systems, consumed) ---

// EventPublisher broadcasts an event to relays. At-least-once,
// fire-and-forget from this core's perspective.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.ReceiptEvent) error
}

// EventFetcher queries relays for events matching a filter. No
// ordering guarantee across calls.
type EventFetcher interface {
	FetchEvents(ctx context.Context, filter domain.EventFilter) ([]domain.NostrEvent, error)
}

// WalletGateway is the buyer/seller wallet action surface. Rail
// adapters map its failures into the apperror taxonomy.
type WalletGateway interface {
	PayInvoice(ctx context.Context, bolt11 string) (preimage string, err error)
	ReceiveEcash(ctx context.Context, token string) error
	SignEvent(ctx context.Context, event *domain.ReceiptEvent) error
	GetBalance(ctx context.Context) (int64, error)
}

// MintClient talks to a Cashu mint. Swap exchanges proofs for fresh
// ones (claiming a received token, splitting for change, reclaiming a
// pending token). CheckSpent reports which secrets the mint has seen.
type MintClient interface {
	Swap(ctx context.Context, mintURL string, proofs []domain.CashuProof, amounts []int64) ([]domain.CashuProof, error)
	CheckSpent(ctx context.Context, mintURL string, secrets []string) ([]bool, error)
}

// ChainWatcher observes on-chain payment state for an address.
type ChainWatcher interface {
	// AddressPayment returns the funding txid and its confirmation
	// count for the expected amount, or ("", 0, nil) when unseen.
	AddressPayment(ctx context.Context, address string, amount int64) (txid string, confirmations int, err error)
}

// PaymentRail attempts to settle one invoice via one rail and yields
// rail-specific payment evidence.
type PaymentRail interface {
	Method() domain.PaymentMethod
	Settle(ctx context.Context, invoice *domain.Invoice) (domain.PaymentProof, error)
}

// --- Cache / Store Ports (redis) ---

// ReceiptCache is the fast-path idempotency check for settlement: the
// canonical receipt already accepted for an invoice, if any.
type ReceiptCache interface {
	Get(ctx context.Context, invoiceID string) ([]byte, error) // nil when absent
	Set(ctx context.Context, invoiceID string, receipt []byte, ttl time.Duration) error
}

// EventDedupStore remembers relay event ids the poller has already
// reconciled, so at-least-once delivery does not re-drive settlements.
type EventDedupStore interface {
	// CheckAndSet atomically records the event id under a scope.
	// Returns true if the id is new.
	CheckAndSet(ctx context.Context, scope string, eventID string, ttl time.Duration) (bool, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// RateLimitStore implements fixed-window request counters.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// --- Crypto / Auth Ports ---

// EncryptionService handles AES-256-GCM encryption/decryption. Used to
// keep PendingToken bearer material encrypted at rest.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// HashService handles password hashing (Argon2id).
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations for the dashboard.
type TokenService interface {
	Generate(sellerID uuid.UUID, pubkey string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	SellerID uuid.UUID
	Pubkey   string
}

// --- Service Ports (Business Logic) ---

// InvoiceRegistry is the transition-checked owner of an order's
// invoice set. All mutation funnels through it.
type InvoiceRegistry interface {
	Create(ctx context.Context, orderID string, invoices []*domain.Invoice) ([]domain.Invoice, error)
	UpdateStatus(ctx context.Context, invoiceID uuid.UUID, status domain.InvoiceStatus, proof domain.PaymentProof) (*domain.Invoice, error)
	Query(ctx context.Context, orderID string) ([]domain.Invoice, error)
	ListIncomplete(ctx context.Context, orderID string) ([]domain.Invoice, error)
	AggregateStatus(ctx context.Context, orderID string) (domain.OrderStatus, bool, error) // status, unmetPayment, error
	Cancel(ctx context.Context, orderID string) error
}

// ProofReconciler canonicalizes payment evidence into the stored
// receipt and drives the invoice to paid. Safe to invoke twice.
type ProofReconciler interface {
	Reconcile(ctx context.Context, invoiceID uuid.UUID, proof domain.PaymentProof) (*domain.Invoice, error)
}

// ProofLedger owns locally-held ecash proofs and the pending-token log.
type ProofLedger interface {
	Receive(ctx context.Context, serializedToken string) (int64, error) // amount absorbed
	Send(ctx context.Context, amount int64, mintURL string) (string, error)
	Balance(ctx context.Context, mintURL string) (int64, error)
	RecoverPending(ctx context.Context) error
}

// SyncScheduler converges local invoice state with remote truth.
type SyncScheduler interface {
	Start()
	Stop()
	RefreshAll(ctx context.Context, orderID string) error
}

// ReceiptPublisher signs and broadcasts payment receipts with retries.
type ReceiptPublisher interface {
	PublishReceipt(ctx context.Context, invoice *domain.Invoice, canonical string) error
}

// AuthService defines seller dashboard authentication.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.Seller, error)
	Login(ctx context.Context, username, password string) (string, time.Time, error) // token, expiry, error
}

// RegisterRequest holds input for seller registration.
type RegisterRequest struct {
	Username  string
	Password  string
	Pubkey    string
	V4VShares []domain.V4VShare
}

// ReportingService defines dashboard figures.
type ReportingService interface {
	GetDashboardStats(ctx context.Context, recipientPubkey string) (*InvoiceStats, error)
	GetAuditTrail(ctx context.Context, orderID string) ([]domain.AuditEntry, error)
}
