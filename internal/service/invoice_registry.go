package service

import (
	"context"
	"fmt"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InvoiceRegistryImpl implements ports.InvoiceRegistry. Every status
// mutation funnels through UpdateStatus under a row lock, which is what
// keeps terminal states sticky under concurrent settlement attempts.
type InvoiceRegistryImpl struct {
	invoiceRepo ports.InvoiceRepository
	flagRepo    ports.OrderFlagRepository
	auditRepo   ports.AuditRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewInvoiceRegistry creates a new InvoiceRegistryImpl.
func NewInvoiceRegistry(
	invoiceRepo ports.InvoiceRepository,
	flagRepo ports.OrderFlagRepository,
	auditRepo ports.AuditRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *InvoiceRegistryImpl {
	return &InvoiceRegistryImpl{
		invoiceRepo: invoiceRepo,
		flagRepo:    flagRepo,
		auditRepo:   auditRepo,
		transactor:  transactor,
		log:         log,
	}
}

// Create registers the invoice set for an order. Registering the same
// set again is a no-op that returns the stored set; registering a
// conflicting set for an existing order is rejected.
func (s *InvoiceRegistryImpl) Create(ctx context.Context, orderID string, invoices []*domain.Invoice) ([]domain.Invoice, error) {
	if orderID == "" {
		return nil, apperror.Validation("order id is required")
	}
	if len(invoices) == 0 {
		return nil, apperror.Validation("invoice set is empty")
	}

	existing, err := s.invoiceRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list order invoices: %w", err))
	}
	if len(existing) > 0 {
		if !sameInvoiceSet(existing, invoices) {
			return nil, apperror.ErrDuplicateInvoiceSet()
		}
		s.log.Debug().Str("order_id", orderID).Msg("invoice set already registered, returning stored set")
		return existing, nil
	}

	now := time.Now().UTC()
	for _, inv := range invoices {
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		inv.OrderID = orderID
		if inv.Status == "" {
			inv.Status = domain.InvoiceStatusPending
		}
		inv.PersistedAt = now
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.invoiceRepo.CreateBatch(ctx, dbTx, invoices); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create invoices: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("order_id", orderID).
		Int("invoices", len(invoices)).
		Msg("invoice set registered")

	out := make([]domain.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, *inv)
	}
	return out, nil
}

// UpdateStatus drives one invoice through a checked transition under a
// row lock. Re-applying the status an invoice already holds is an
// idempotent no-op; any other write to a terminal invoice is rejected.
// Marking paid requires a proof, whose canonical form becomes the
// stored receipt.
func (s *InvoiceRegistryImpl) UpdateStatus(ctx context.Context, invoiceID uuid.UUID, status domain.InvoiceStatus, proof domain.PaymentProof) (*domain.Invoice, error) {
	if status == domain.InvoiceStatusPaid && proof.IsZero() {
		return nil, apperror.ErrProofRequired()
	}
	if status != domain.InvoiceStatusPaid && !proof.IsZero() {
		return nil, apperror.ErrProofRequired()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	invoice, err := s.invoiceRepo.GetByIDForUpdate(ctx, dbTx, invoiceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock invoice: %w", err))
	}
	if invoice == nil {
		return nil, apperror.ErrNotFound("invoice")
	}

	if invoice.Status == status {
		return invoice, nil
	}
	if !invoice.Status.CanTransitionTo(status) {
		return nil, apperror.ErrInvalidTransition(string(invoice.Status), string(status))
	}

	now := time.Now().UTC()
	from := invoice.Status
	invoice.Status = status
	invoice.UpdatedAt = now
	if status == domain.InvoiceStatusPaid {
		invoice.Receipt = proof.Canonical()
		if proof.Kind == domain.ProofKindPreimage || proof.Preimage != "" {
			invoice.Preimage = proof.Preimage
		}
	}

	if err := s.invoiceRepo.Update(ctx, dbTx, invoice); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update invoice: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		OrderID:   invoice.OrderID,
		InvoiceID: &invoice.ID,
		Action:    domain.AuditActionStatusTransition,
		ProofKind: proof.Kind,
		Detail:    fmt.Sprintf("%s -> %s", from, status),
		CreatedAt: now,
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to record transition audit entry")
	}

	s.log.Info().
		Str("invoice_id", invoiceID.String()).
		Str("order_id", invoice.OrderID).
		Str("from", string(from)).
		Str("to", string(status)).
		Str("proof_kind", string(proof.Kind)).
		Msg("invoice status updated")

	return invoice, nil
}

// Query returns the order's invoice set in stable creation order.
func (s *InvoiceRegistryImpl) Query(ctx context.Context, orderID string) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list order invoices: %w", err))
	}
	return invoices, nil
}

// ListIncomplete returns the order's non-terminal invoices.
func (s *InvoiceRegistryImpl) ListIncomplete(ctx context.Context, orderID string) ([]domain.Invoice, error) {
	invoices, err := s.invoiceRepo.ListIncompleteByOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list incomplete invoices: %w", err))
	}
	return invoices, nil
}

// AggregateStatus recomputes the order-level status from scratch on
// every call; nothing incremental is cached.
func (s *InvoiceRegistryImpl) AggregateStatus(ctx context.Context, orderID string) (domain.OrderStatus, bool, error) {
	cancelled, err := s.flagRepo.IsCancelled(ctx, orderID)
	if err != nil {
		return "", false, apperror.InternalError(fmt.Errorf("check cancellation flag: %w", err))
	}

	invoices, err := s.invoiceRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return "", false, apperror.InternalError(fmt.Errorf("list order invoices: %w", err))
	}

	status := domain.AggregateOrderStatus(invoices, cancelled, time.Now().UTC())
	return status, domain.HasUnmetPayment(invoices), nil
}

// Cancel flags the order cancelled. The invoice rows are untouched; the
// flag overrides the invoice set at aggregation time.
func (s *InvoiceRegistryImpl) Cancel(ctx context.Context, orderID string) error {
	if err := s.flagRepo.SetCancelled(ctx, orderID); err != nil {
		return apperror.InternalError(fmt.Errorf("set cancellation flag: %w", err))
	}

	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		OrderID:   orderID,
		Action:    domain.AuditActionStatusTransition,
		Detail:    "order cancelled externally",
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("failed to record cancellation audit entry")
	}

	s.log.Info().Str("order_id", orderID).Msg("order cancelled")
	return nil
}

// sameInvoiceSet compares a stored set against a requested one by
// amount and recipient, positionally.
func sameInvoiceSet(existing []domain.Invoice, requested []*domain.Invoice) bool {
	if len(existing) != len(requested) {
		return false
	}
	for i := range existing {
		if existing[i].Amount != requested[i].Amount ||
			existing[i].RecipientPubkey != requested[i].RecipientPubkey ||
			existing[i].Type != requested[i].Type {
			return false
		}
	}
	return true
}
