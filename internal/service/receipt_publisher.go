package service

import (
	"context"
	"fmt"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// receiptRetryIntervals defines the relay delivery retry schedule.
var receiptRetryIntervals = []time.Duration{
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// ReceiptPublisherImpl implements ports.ReceiptPublisher. The event is
// signed synchronously so a signing failure surfaces to the caller;
// relay delivery is asynchronous with retries, since relays are
// at-least-once anyway.
type ReceiptPublisherImpl struct {
	wallet    ports.WalletGateway
	publisher ports.EventPublisher
	auditRepo ports.AuditRepository
	log       zerolog.Logger
}

// NewReceiptPublisher creates a new ReceiptPublisherImpl.
func NewReceiptPublisher(
	wallet ports.WalletGateway,
	publisher ports.EventPublisher,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) *ReceiptPublisherImpl {
	return &ReceiptPublisherImpl{
		wallet:    wallet,
		publisher: publisher,
		auditRepo: auditRepo,
		log:       log,
	}
}

// PublishReceipt signs a payment receipt event for the settled invoice
// and broadcasts it asynchronously. An empty canonical string is
// published as-is: it tells consumers the payment was wallet-
// acknowledged rather than cryptographically proven.
func (s *ReceiptPublisherImpl) PublishReceipt(ctx context.Context, invoice *domain.Invoice, canonical string) error {
	event := domain.ReceiptEvent{
		Kind:            domain.EventKindPaymentReceipt,
		OrderID:         invoice.OrderID,
		InvoiceID:       invoice.ID.String(),
		RecipientPubkey: invoice.RecipientPubkey,
		Amount:          invoice.Amount,
		Receipt:         canonical,
		PaidAt:          time.Now().UTC(),
	}

	if err := s.wallet.SignEvent(ctx, &event); err != nil {
		s.log.Error().Err(err).Str("invoice_id", invoice.ID.String()).Msg("receipt: failed to sign event")
		return fmt.Errorf("sign receipt event: %w", err)
	}

	// Fire async with retries
	go s.deliverWithRetries(event, invoice.OrderID, invoice.ID)

	return nil
}

// deliverWithRetries attempts to broadcast the signed receipt through
// the retry schedule, then records the publication in the audit trail.
func (s *ReceiptPublisherImpl) deliverWithRetries(event domain.ReceiptEvent, orderID string, invoiceID uuid.UUID) {
	ctx := context.Background()

	for attempt := 0; attempt <= len(receiptRetryIntervals); attempt++ {
		if attempt > 0 {
			time.Sleep(receiptRetryIntervals[attempt-1])
		}

		if err := s.publisher.Publish(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Int("attempt", attempt+1).Msg("receipt: relay delivery failed")
			continue
		}

		s.log.Info().Str("invoice_id", invoiceID.String()).Int("attempt", attempt+1).Msg("receipt: published")

		entry := &domain.AuditEntry{
			ID:        uuid.New(),
			OrderID:   orderID,
			InvoiceID: &invoiceID,
			Action:    domain.AuditActionReceiptPublished,
			Detail:    fmt.Sprintf("kind %d receipt broadcast", event.Kind),
			CreatedAt: time.Now().UTC(),
		}
		if err := s.auditRepo.Record(ctx, entry); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", invoiceID.String()).Msg("receipt: failed to record publication audit entry")
		}
		return
	}

	s.log.Error().Str("invoice_id", invoiceID.String()).Msg("receipt: all retry attempts exhausted")
}
