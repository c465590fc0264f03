package rail

import (
	"context"
	"encoding/hex"
	"fmt"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"

	"github.com/rs/zerolog"
)

// LightningRail settles an invoice by paying its bolt11 through the
// wallet gateway. The preimage the wallet returns is the strongest
// proof class this system stores.
type LightningRail struct {
	wallet ports.WalletGateway
	log    zerolog.Logger
}

// NewLightningRail creates a new LightningRail.
func NewLightningRail(wallet ports.WalletGateway, log zerolog.Logger) *LightningRail {
	return &LightningRail{wallet: wallet, log: log}
}

// Method returns the payment method this rail settles.
func (r *LightningRail) Method() domain.PaymentMethod {
	return domain.PaymentMethodLightning
}

// Settle pays the invoice's bolt11 and yields a preimage proof.
func (r *LightningRail) Settle(ctx context.Context, invoice *domain.Invoice) (domain.PaymentProof, error) {
	if invoice.Bolt11 == "" {
		return domain.PaymentProof{}, fmt.Errorf("invoice %s has no bolt11 payment request", invoice.ID)
	}

	preimage, err := r.wallet.PayInvoice(ctx, invoice.Bolt11)
	if err != nil {
		return domain.PaymentProof{}, fmt.Errorf("pay invoice: %w", err)
	}
	if !validPreimage(preimage) {
		return domain.PaymentProof{}, fmt.Errorf("wallet returned malformed preimage for invoice %s", invoice.ID)
	}

	r.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Int64("amount", invoice.Amount).
		Msg("lightning payment settled")

	return domain.NewPreimageProof(preimage), nil
}

// validPreimage checks the 32-byte hex shape every Lightning preimage
// has. The cryptographic check against the payment hash is the payee's
// side of the protocol; a malformed string here means a broken wallet.
func validPreimage(preimage string) bool {
	if len(preimage) != 64 {
		return false
	}
	_, err := hex.DecodeString(preimage)
	return err == nil
}
