// Package gateway provides stand-in implementations of the external
// collaborator ports (relay, wallet, mint, chain watcher). Real wire
// integrations live outside this repo; these keep the binary runnable
// without them. Settlement driven by client-submitted proofs works
// fully; rail-driven settlement and ledger operations report the
// collaborator as unavailable.
package gateway

import (
	"context"
	"errors"

	"nostr-market-payments/internal/core/domain"

	"github.com/rs/zerolog"
)

// ErrNotConfigured is returned by collaborator operations that need a
// wire integration this deployment does not carry.
var ErrNotConfigured = errors.New("external collaborator not configured")

// NoopPublisher drops receipt events after logging them. Publication
// is at-least-once fire-and-forget, so dropping is a valid degraded
// mode: the invoice is already settled when publication happens.
type NoopPublisher struct {
	log zerolog.Logger
}

func NewNoopPublisher(log zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) Publish(ctx context.Context, event domain.ReceiptEvent) error {
	p.log.Debug().
		Str("order_id", event.OrderID).
		Str("invoice_id", event.InvoiceID).
		Msg("receipt event dropped, no relay publisher configured")
	return nil
}

// NoopFetcher reports no relay events. The background poller then only
// advances invoices via the chain watcher and expiry checks.
type NoopFetcher struct{}

func NewNoopFetcher() *NoopFetcher {
	return &NoopFetcher{}
}

func (f *NoopFetcher) FetchEvents(ctx context.Context, filter domain.EventFilter) ([]domain.NostrEvent, error) {
	return nil, nil
}

// NoopWallet fails every wallet action. Signing succeeds as a
// pass-through so receipt events still reach the publisher unsigned.
type NoopWallet struct{}

func NewNoopWallet() *NoopWallet {
	return &NoopWallet{}
}

func (w *NoopWallet) PayInvoice(ctx context.Context, bolt11 string) (string, error) {
	return "", ErrNotConfigured
}

func (w *NoopWallet) ReceiveEcash(ctx context.Context, token string) error {
	return ErrNotConfigured
}

func (w *NoopWallet) SignEvent(ctx context.Context, event *domain.ReceiptEvent) error {
	return nil
}

func (w *NoopWallet) GetBalance(ctx context.Context) (int64, error) {
	return 0, ErrNotConfigured
}

// NoopMint fails every mint call. The ledger maps the failure to its
// retryable mint-unreachable error, so no token is ever consumed
// through this stand-in.
type NoopMint struct{}

func NewNoopMint() *NoopMint {
	return &NoopMint{}
}

func (m *NoopMint) Swap(ctx context.Context, mintURL string, proofs []domain.CashuProof, amounts []int64) ([]domain.CashuProof, error) {
	return nil, ErrNotConfigured
}

func (m *NoopMint) CheckSpent(ctx context.Context, mintURL string, secrets []string) ([]bool, error) {
	return nil, ErrNotConfigured
}

// NoopWatcher reports every address as unseen, which the poller treats
// as "no payment yet".
type NoopWatcher struct{}

func NewNoopWatcher() *NoopWatcher {
	return &NoopWatcher{}
}

func (w *NoopWatcher) AddressPayment(ctx context.Context, address string, amount int64) (string, int, error) {
	return "", 0, nil
}
