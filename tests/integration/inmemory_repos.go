package integration

import (
	"context"
	"fmt"
	"sync"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory Invoice Repo ---

type inMemoryInvoiceRepo struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*domain.Invoice
	order    []uuid.UUID // insertion order, stable listing
}

func newInMemoryInvoiceRepo() *inMemoryInvoiceRepo {
	return &inMemoryInvoiceRepo{invoices: make(map[uuid.UUID]*domain.Invoice)}
}

func (r *inMemoryInvoiceRepo) CreateBatch(ctx context.Context, tx pgx.Tx, invoices []*domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range invoices {
		cp := *inv
		r.invoices[inv.ID] = &cp
		r.order = append(r.order, inv.ID)
	}
	return nil
}

func (r *inMemoryInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *inMemoryInvoiceRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Invoice, error) {
	// No row-level locks in memory; concurrent transitions may race.
	// PostgreSQL locking is covered by the repo tests.
	return r.GetByID(ctx, id)
}

func (r *inMemoryInvoiceRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Invoice
	for _, id := range r.order {
		if inv := r.invoices[id]; inv.OrderID == orderID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *inMemoryInvoiceRepo) ListIncompleteByOrder(ctx context.Context, orderID string) ([]domain.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Invoice
	for _, id := range r.order {
		if inv := r.invoices[id]; inv.OrderID == orderID && inv.Status == domain.InvoiceStatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *inMemoryInvoiceRepo) ListOpenOrders(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, id := range r.order {
		inv := r.invoices[id]
		if inv.Status != domain.InvoiceStatusPending {
			continue
		}
		if _, ok := seen[inv.OrderID]; ok {
			continue
		}
		seen[inv.OrderID] = struct{}{}
		out = append(out, inv.OrderID)
	}
	return out, nil
}

func (r *inMemoryInvoiceRepo) Update(ctx context.Context, tx pgx.Tx, invoice *domain.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[invoice.ID]; !ok {
		return fmt.Errorf("invoice not found")
	}
	cp := *invoice
	r.invoices[invoice.ID] = &cp
	return nil
}

func (r *inMemoryInvoiceRepo) Stats(ctx context.Context, recipientPubkey string) (*ports.InvoiceStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := &ports.InvoiceStats{}
	for _, inv := range r.invoices {
		if inv.RecipientPubkey != recipientPubkey {
			continue
		}
		stats.TotalInvoices++
		switch inv.Status {
		case domain.InvoiceStatusPaid:
			stats.Paid++
			stats.SatsCollected += inv.Amount
		case domain.InvoiceStatusPending:
			stats.Pending++
			stats.SatsOutstanding += inv.Amount
		case domain.InvoiceStatusExpired:
			stats.Expired++
		case domain.InvoiceStatusSkipped:
			stats.Skipped++
		}
	}
	return stats, nil
}

// --- In-Memory Pending Token Repo ---

type inMemoryPendingTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]*domain.PendingToken
}

func newInMemoryPendingTokenRepo() *inMemoryPendingTokenRepo {
	return &inMemoryPendingTokenRepo{tokens: make(map[uuid.UUID]*domain.PendingToken)}
}

func (r *inMemoryPendingTokenRepo) Create(ctx context.Context, tx pgx.Tx, token *domain.PendingToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.ID] = &cp
	return nil
}

func (r *inMemoryPendingTokenRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.PendingToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryPendingTokenRepo) ListPending(ctx context.Context) ([]domain.PendingToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.PendingToken
	for _, t := range r.tokens {
		if t.Status == domain.PendingTokenStatusPending {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *inMemoryPendingTokenRepo) MarkClaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.markTerminal(id, domain.PendingTokenStatusClaimed)
}

func (r *inMemoryPendingTokenRepo) MarkReclaimed(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.markTerminal(id, domain.PendingTokenStatusReclaimed)
}

// markTerminal mirrors the conditional UPDATE of the postgres repo:
// only a pending row can be moved, the first writer wins.
func (r *inMemoryPendingTokenRepo) markTerminal(id uuid.UUID, status domain.PendingTokenStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[id]
	if !ok || t.Status != domain.PendingTokenStatusPending {
		return false, nil
	}
	t.Status = status
	return true, nil
}

// --- In-Memory Proof Repo ---

type inMemoryProofRepo struct {
	mu      sync.RWMutex
	proofs  map[string][]domain.CashuProof // by mint URL
	digests map[string]struct{}
}

func newInMemoryProofRepo() *inMemoryProofRepo {
	return &inMemoryProofRepo{
		proofs:  make(map[string][]domain.CashuProof),
		digests: make(map[string]struct{}),
	}
}

func (r *inMemoryProofRepo) InsertProofs(ctx context.Context, tx pgx.Tx, mintURL string, proofs []domain.CashuProof) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proofs[mintURL] = append(r.proofs[mintURL], proofs...)
	return nil
}

func (r *inMemoryProofRepo) DeleteBySecrets(ctx context.Context, tx pgx.Tx, mintURL string, secrets []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	drop := make(map[string]struct{}, len(secrets))
	for _, s := range secrets {
		drop[s] = struct{}{}
	}
	var kept []domain.CashuProof
	for _, p := range r.proofs[mintURL] {
		if _, ok := drop[p.Secret]; !ok {
			kept = append(kept, p)
		}
	}
	r.proofs[mintURL] = kept
	return nil
}

func (r *inMemoryProofRepo) ListByMint(ctx context.Context, mintURL string) ([]domain.CashuProof, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CashuProof, len(r.proofs[mintURL]))
	copy(out, r.proofs[mintURL])
	return out, nil
}

func (r *inMemoryProofRepo) TotalByMint(ctx context.Context, mintURL string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total int64
	for _, p := range r.proofs[mintURL] {
		total += p.Amount
	}
	return total, nil
}

func (r *inMemoryProofRepo) HasTokenDigest(ctx context.Context, digest string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.digests[digest]
	return ok, nil
}

func (r *inMemoryProofRepo) SaveTokenDigest(ctx context.Context, tx pgx.Tx, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digests[digest] = struct{}{}
	return nil
}

// --- In-Memory Seller Repo ---

type inMemorySellerRepo struct {
	mu      sync.RWMutex
	sellers map[uuid.UUID]*domain.Seller
}

func newInMemorySellerRepo() *inMemorySellerRepo {
	return &inMemorySellerRepo{sellers: make(map[uuid.UUID]*domain.Seller)}
}

func (r *inMemorySellerRepo) Create(ctx context.Context, s *domain.Seller) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.sellers {
		if existing.Username == s.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *s
	r.sellers[s.ID] = &cp
	return nil
}

func (r *inMemorySellerRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sellers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *inMemorySellerRepo) GetByUsername(ctx context.Context, username string) (*domain.Seller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sellers {
		if s.Username == username {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemorySellerRepo) UpdateShares(ctx context.Context, id uuid.UUID, shares []domain.V4VShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sellers[id]
	if !ok {
		return fmt.Errorf("seller not found")
	}
	s.V4VShares = shares
	return nil
}

// --- In-Memory Order Flag Repo ---

type inMemoryOrderFlagRepo struct {
	mu        sync.RWMutex
	cancelled map[string]bool
}

func newInMemoryOrderFlagRepo() *inMemoryOrderFlagRepo {
	return &inMemoryOrderFlagRepo{cancelled: make(map[string]bool)}
}

func (r *inMemoryOrderFlagRepo) SetCancelled(ctx context.Context, orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled[orderID] = true
	return nil
}

func (r *inMemoryOrderFlagRepo) IsCancelled(ctx context.Context, orderID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cancelled[orderID], nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Record(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *inMemoryAuditRepo) ListByOrder(ctx context.Context, orderID string) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.AuditEntry
	for _, e := range r.entries {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- Fake Mint ---

// fakeMint is an in-process Cashu mint: swaps consume input secrets and
// issue fresh proofs, double-spends are rejected terminally.
type fakeMint struct {
	mu      sync.Mutex
	spent   map[string]struct{}
	counter int
}

func newFakeMint() *fakeMint {
	return &fakeMint{spent: make(map[string]struct{})}
}

func (m *fakeMint) Swap(ctx context.Context, mintURL string, proofs []domain.CashuProof, amounts []int64) ([]domain.CashuProof, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range proofs {
		if _, ok := m.spent[p.Secret]; ok {
			return nil, apperror.ErrAlreadySpent()
		}
	}
	for _, p := range proofs {
		m.spent[p.Secret] = struct{}{}
	}
	fresh := make([]domain.CashuProof, 0, len(amounts))
	for _, amount := range amounts {
		m.counter++
		fresh = append(fresh, domain.CashuProof{
			KeysetID: "00fakekeyset",
			Amount:   amount,
			Secret:   fmt.Sprintf("fresh-secret-%d", m.counter),
			C:        fmt.Sprintf("02c%d", m.counter),
		})
	}
	return fresh, nil
}

func (m *fakeMint) CheckSpent(ctx context.Context, mintURL string, secrets []string) ([]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]bool, len(secrets))
	for i, s := range secrets {
		_, out[i] = m.spent[s]
	}
	return out, nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
