package rail

import (
	"context"
	"fmt"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"

	"github.com/rs/zerolog"
)

// CustodialRail settles through a custodial wallet that moves funds
// internally. Some custodial APIs expose the preimage and some only
// acknowledge; this rail upgrades the proof class whenever the
// stronger evidence is available.
type CustodialRail struct {
	wallet ports.WalletGateway
	log    zerolog.Logger
}

// NewCustodialRail creates a new CustodialRail.
func NewCustodialRail(wallet ports.WalletGateway, log zerolog.Logger) *CustodialRail {
	return &CustodialRail{wallet: wallet, log: log}
}

// Method returns the payment method this rail settles.
func (r *CustodialRail) Method() domain.PaymentMethod {
	return domain.PaymentMethodLightning
}

// Settle pays through the custodial wallet. A returned preimage yields
// a preimage proof; a bare acknowledgement yields a wallet-ack proof.
func (r *CustodialRail) Settle(ctx context.Context, invoice *domain.Invoice) (domain.PaymentProof, error) {
	if invoice.Bolt11 == "" {
		return domain.PaymentProof{}, fmt.Errorf("invoice %s has no bolt11 payment request", invoice.ID)
	}

	balance, err := r.wallet.GetBalance(ctx)
	if err != nil {
		return domain.PaymentProof{}, fmt.Errorf("check wallet balance: %w", err)
	}
	if balance < invoice.Amount {
		return domain.PaymentProof{}, fmt.Errorf("wallet balance %d below invoice amount %d", balance, invoice.Amount)
	}

	preimage, err := r.wallet.PayInvoice(ctx, invoice.Bolt11)
	if err != nil {
		return domain.PaymentProof{}, fmt.Errorf("pay invoice: %w", err)
	}

	if validPreimage(preimage) {
		r.log.Info().Str("invoice_id", invoice.ID.String()).Msg("custodial payment settled with preimage")
		return domain.NewPreimageProof(preimage), nil
	}

	r.log.Info().Str("invoice_id", invoice.ID.String()).Msg("custodial payment acknowledged without preimage")
	return domain.NewWalletAckProof("custodial", time.Now().UTC()), nil
}
