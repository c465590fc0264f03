package service

import (
	"context"
	"sync"
	"time"

	"nostr-market-payments/config"
	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"

	"github.com/rs/zerolog"
)

const zapDedupTTL = 24 * time.Hour

// SyncSchedulerImpl implements ports.SyncScheduler: a ticker-driven
// poller that converges local invoice state with remote truth. Each
// refresh is bounded by the configured timeout so one stuck relay or
// chain backend cannot wedge the loop.
type SyncSchedulerImpl struct {
	invoiceRepo ports.InvoiceRepository
	registry    ports.InvoiceRegistry
	reconciler  ports.ProofReconciler
	fetcher     ports.EventFetcher
	watcher     ports.ChainWatcher
	dedup       ports.EventDedupStore
	cfg         config.SyncConfig
	log         zerolog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewSyncScheduler creates a new SyncSchedulerImpl.
func NewSyncScheduler(
	invoiceRepo ports.InvoiceRepository,
	registry ports.InvoiceRegistry,
	reconciler ports.ProofReconciler,
	fetcher ports.EventFetcher,
	watcher ports.ChainWatcher,
	dedup ports.EventDedupStore,
	cfg config.SyncConfig,
	log zerolog.Logger,
) *SyncSchedulerImpl {
	return &SyncSchedulerImpl{
		invoiceRepo: invoiceRepo,
		registry:    registry,
		reconciler:  reconciler,
		fetcher:     fetcher,
		watcher:     watcher,
		dedup:       dedup,
		cfg:         cfg,
		log:         log,
		stopCh:      make(chan struct{}),
	}
}

// Start launches the poll loop. Calling Start more than once is a
// no-op.
func (s *SyncSchedulerImpl) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run()
		s.log.Info().Dur("poll_interval", s.cfg.PollInterval).Msg("background sync started")
	})
}

// Stop shuts the poll loop down and waits for the in-flight tick to
// finish. Safe to call any number of times.
func (s *SyncSchedulerImpl) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

func (s *SyncSchedulerImpl) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			s.log.Info().Msg("background sync stopped")
			return
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

func (s *SyncSchedulerImpl) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.PollInterval)
	defer cancel()

	orders, err := s.invoiceRepo.ListOpenOrders(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sync: failed to list open orders")
		return
	}

	for _, orderID := range orders {
		select {
		case <-s.stopCh:
			return
		default:
		}
		if err := s.RefreshAll(ctx, orderID); err != nil {
			s.log.Warn().Err(err).Str("order_id", orderID).Msg("sync: order refresh failed")
		}
	}
}

// RefreshAll re-converges every incomplete invoice of one order:
// lapsed payment requests transition to expired, zap receipts are
// discovered from relays, and on-chain payments are confirmed against
// the chain watcher. Bounded by the refresh timeout.
func (s *SyncSchedulerImpl) RefreshAll(ctx context.Context, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RefreshTimeout)
	defer cancel()

	invoices, err := s.registry.ListIncomplete(ctx, orderID)
	if err != nil {
		return err
	}
	if len(invoices) == 0 {
		return nil
	}

	now := time.Now().UTC()
	var zapInvoices []domain.Invoice
	for i := range invoices {
		inv := invoices[i]
		if inv.Status != domain.InvoiceStatusPending {
			continue
		}

		if inv.IsExpired(now) {
			if _, err := s.registry.UpdateStatus(ctx, inv.ID, domain.InvoiceStatusExpired, domain.PaymentProof{}); err != nil {
				s.log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("sync: failed to expire invoice")
			}
			continue
		}

		if inv.IsZap && inv.Bolt11 != "" {
			zapInvoices = append(zapInvoices, inv)
			continue
		}

		if inv.BitcoinAddress != "" {
			s.refreshOnChain(ctx, inv)
		}
	}

	if len(zapInvoices) > 0 {
		s.discoverZapReceipts(ctx, orderID, zapInvoices)
	}
	return nil
}

// refreshOnChain checks the chain watcher for the invoice's address.
// Enough confirmations settle the invoice with a wallet-acknowledged
// proof; the txid is surfaced via logs, not the receipt.
func (s *SyncSchedulerImpl) refreshOnChain(ctx context.Context, inv domain.Invoice) {
	txid, confirmations, err := s.watcher.AddressPayment(ctx, inv.BitcoinAddress, inv.Amount)
	if err != nil {
		s.log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Msg("sync: chain watcher query failed")
		return
	}
	if txid == "" || confirmations < s.cfg.MinConfirmations {
		return
	}

	proof := domain.NewWalletAckProof("onchain", time.Now().UTC())
	if _, err := s.reconciler.Reconcile(ctx, inv.ID, proof); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Str("txid", txid).Msg("sync: on-chain settlement failed")
		return
	}
	s.log.Info().
		Str("invoice_id", inv.ID.String()).
		Str("txid", txid).
		Int("confirmations", confirmations).
		Msg("sync: on-chain payment confirmed")
}

// discoverZapReceipts fetches zap receipt events for the order's zap
// invoices and reconciles any receipt not seen before. Relay delivery
// is at-least-once, so every event id passes the dedup store first.
func (s *SyncSchedulerImpl) discoverZapReceipts(ctx context.Context, orderID string, invoices []domain.Invoice) {
	recipients := make([]string, 0, len(invoices))
	since := invoices[0].CreatedAt
	byBolt11 := make(map[string]domain.Invoice, len(invoices))
	for _, inv := range invoices {
		recipients = append(recipients, inv.RecipientPubkey)
		byBolt11[inv.Bolt11] = inv
		if inv.CreatedAt.Before(since) {
			since = inv.CreatedAt
		}
	}

	events, err := s.fetcher.FetchEvents(ctx, domain.EventFilter{
		Kinds:      []int{domain.EventKindZapReceipt},
		Recipients: recipients,
		Since:      since,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("order_id", orderID).Msg("sync: zap receipt fetch failed")
		return
	}

	for _, event := range events {
		inv, ok := byBolt11[event.TagValue("bolt11")]
		if !ok {
			continue
		}

		fresh, err := s.dedup.CheckAndSet(ctx, "zap", event.ID, zapDedupTTL)
		if err != nil {
			s.log.Warn().Err(err).Str("event_id", event.ID).Msg("sync: zap dedup check failed")
			continue
		}
		if !fresh {
			continue
		}

		proof := domain.NewZapReceiptProof(event.ID, event.TagValue("preimage"))
		if _, err := s.reconciler.Reconcile(ctx, inv.ID, proof); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", inv.ID.String()).Str("event_id", event.ID).Msg("sync: zap settlement failed")
			continue
		}
		s.log.Info().
			Str("invoice_id", inv.ID.String()).
			Str("event_id", event.ID).
			Msg("sync: zap receipt settled invoice")
	}
}
