package rail

import (
	"context"
	"fmt"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"

	"github.com/rs/zerolog"
)

// OnChainRail settles an invoice against confirmed chain state. The
// chain gives a txid, not a payment secret, so the proof class is a
// wallet acknowledgement; the txid stays queryable on chain and in the
// logs.
type OnChainRail struct {
	watcher          ports.ChainWatcher
	minConfirmations int
	log              zerolog.Logger
}

// NewOnChainRail creates a new OnChainRail.
func NewOnChainRail(watcher ports.ChainWatcher, minConfirmations int, log zerolog.Logger) *OnChainRail {
	return &OnChainRail{watcher: watcher, minConfirmations: minConfirmations, log: log}
}

// Method returns the payment method this rail settles.
func (r *OnChainRail) Method() domain.PaymentMethod {
	return domain.PaymentMethodOnChain
}

// Settle checks the invoice's address for a sufficiently confirmed
// payment of the expected amount.
func (r *OnChainRail) Settle(ctx context.Context, invoice *domain.Invoice) (domain.PaymentProof, error) {
	if invoice.BitcoinAddress == "" {
		return domain.PaymentProof{}, fmt.Errorf("invoice %s has no bitcoin address", invoice.ID)
	}

	txid, confirmations, err := r.watcher.AddressPayment(ctx, invoice.BitcoinAddress, invoice.Amount)
	if err != nil {
		return domain.PaymentProof{}, fmt.Errorf("query chain watcher: %w", err)
	}
	if txid == "" {
		return domain.PaymentProof{}, fmt.Errorf("no payment seen for address %s", invoice.BitcoinAddress)
	}
	if confirmations < r.minConfirmations {
		return domain.PaymentProof{}, fmt.Errorf("payment %s has %d of %d required confirmations", txid, confirmations, r.minConfirmations)
	}

	r.log.Info().
		Str("invoice_id", invoice.ID.String()).
		Str("txid", txid).
		Int("confirmations", confirmations).
		Msg("on-chain payment settled")

	return domain.NewWalletAckProof("onchain", time.Now().UTC()), nil
}
