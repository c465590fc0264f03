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

const receiptCacheTTL = 24 * time.Hour

// ProofReconcilerImpl implements ports.ProofReconciler. Settlement is
// first proof wins: once a canonical receipt is stored, a later proof
// for the same invoice is either an idempotent replay (same canonical)
// or a conflict that gets audited and dropped, never an overwrite.
type ProofReconcilerImpl struct {
	invoiceRepo ports.InvoiceRepository
	registry    ports.InvoiceRegistry
	cache       ports.ReceiptCache
	auditRepo   ports.AuditRepository
	publisher   ports.ReceiptPublisher
	log         zerolog.Logger
}

// NewProofReconciler creates a new ProofReconcilerImpl.
func NewProofReconciler(
	invoiceRepo ports.InvoiceRepository,
	registry ports.InvoiceRegistry,
	cache ports.ReceiptCache,
	auditRepo ports.AuditRepository,
	publisher ports.ReceiptPublisher,
	log zerolog.Logger,
) *ProofReconcilerImpl {
	return &ProofReconcilerImpl{
		invoiceRepo: invoiceRepo,
		registry:    registry,
		cache:       cache,
		auditRepo:   auditRepo,
		publisher:   publisher,
		log:         log,
	}
}

// Reconcile canonicalizes the proof and drives the invoice to paid.
// Safe to invoke any number of times with the same proof.
func (s *ProofReconcilerImpl) Reconcile(ctx context.Context, invoiceID uuid.UUID, proof domain.PaymentProof) (*domain.Invoice, error) {
	if proof.IsZero() {
		return nil, apperror.ErrProofRequired()
	}
	canonical := proof.Canonical()

	// Layer 1: Redis receipt check. A wallet ack canonicalizes to ""
	// and is never cached, so it always falls through to the DB path.
	if canonical != "" {
		cached, err := s.cache.Get(ctx, invoiceID.String())
		if err != nil {
			s.log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Msg("redis receipt check failed, falling through to DB")
		}
		if cached != nil && string(cached) == canonical {
			return s.invoiceRepo.GetByID(ctx, invoiceID)
		}
	}

	// Layer 2: DB, under the registry's row lock. A replay of the
	// already-stored status comes back unchanged.
	invoice, err := s.registry.UpdateStatus(ctx, invoiceID, domain.InvoiceStatusPaid, proof)
	if err != nil {
		return nil, err
	}

	if invoice.Receipt != canonical {
		// A different proof settled this invoice first. The stored
		// receipt wins; record the conflict for dispute handling.
		s.recordConflict(ctx, invoice, proof)
		return invoice, nil
	}

	if canonical != "" {
		if err := s.cache.Set(ctx, invoiceID.String(), []byte(canonical), receiptCacheTTL); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to cache receipt in redis")
		}
	}

	if err := s.publisher.PublishReceipt(ctx, invoice, canonical); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Msg("failed to enqueue receipt publication")
	}

	return invoice, nil
}

func (s *ProofReconcilerImpl) recordConflict(ctx context.Context, invoice *domain.Invoice, proof domain.PaymentProof) {
	s.log.Warn().
		Str("invoice_id", invoice.ID.String()).
		Str("order_id", invoice.OrderID).
		Str("proof_kind", string(proof.Kind)).
		Msg("conflicting proof for settled invoice, keeping original receipt")

	entry := &domain.AuditEntry{
		ID:        uuid.New(),
		OrderID:   invoice.OrderID,
		InvoiceID: &invoice.ID,
		Action:    domain.AuditActionProofConflict,
		ProofKind: proof.Kind,
		Detail:    fmt.Sprintf("rejected %s proof, stored receipt retained", proof.Kind),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", invoice.ID.String()).Msg("failed to record proof conflict audit entry")
	}
}
