package rail

import (
	"context"
	"fmt"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"

	"github.com/rs/zerolog"
)

// ZapRail settles a zap invoice from its published zap receipt. The
// payment itself happened out of band in the buyer's wallet; this rail
// only discovers the kind 9735 event that proves it.
type ZapRail struct {
	fetcher ports.EventFetcher
	log     zerolog.Logger
}

// NewZapRail creates a new ZapRail.
func NewZapRail(fetcher ports.EventFetcher, log zerolog.Logger) *ZapRail {
	return &ZapRail{fetcher: fetcher, log: log}
}

// Method returns the payment method this rail settles.
func (r *ZapRail) Method() domain.PaymentMethod {
	return domain.PaymentMethodLightning
}

// Settle queries relays for a zap receipt matching the invoice's
// bolt11 and yields a zap-receipt proof when one exists.
func (r *ZapRail) Settle(ctx context.Context, invoice *domain.Invoice) (domain.PaymentProof, error) {
	if invoice.Bolt11 == "" {
		return domain.PaymentProof{}, fmt.Errorf("invoice %s has no bolt11 payment request", invoice.ID)
	}

	events, err := r.fetcher.FetchEvents(ctx, domain.EventFilter{
		Kinds:      []int{domain.EventKindZapReceipt},
		Recipients: []string{invoice.RecipientPubkey},
		Since:      invoice.CreatedAt,
	})
	if err != nil {
		return domain.PaymentProof{}, fmt.Errorf("fetch zap receipts: %w", err)
	}

	for _, event := range events {
		if event.TagValue("bolt11") != invoice.Bolt11 {
			continue
		}
		r.log.Info().
			Str("invoice_id", invoice.ID.String()).
			Str("event_id", event.ID).
			Msg("zap receipt found")
		return domain.NewZapReceiptProof(event.ID, event.TagValue("preimage")), nil
	}

	return domain.PaymentProof{}, fmt.Errorf("no zap receipt published yet for invoice %s", invoice.ID)
}
