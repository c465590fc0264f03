package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nostr-market-payments/config"
	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProofLedgerImpl implements ports.ProofLedger. All proof mutations
// for one mint run under that mint's mutex, so a send cannot select
// proofs a concurrent receive is still writing. The invariant Send
// maintains is durable-write-before-handoff: the pending-token row and
// the proof deletions commit before the serialized token leaves this
// process.
type ProofLedgerImpl struct {
	proofRepo   ports.ProofRepository
	pendingRepo ports.PendingTokenRepository
	mint        ports.MintClient
	encSvc      ports.EncryptionService
	transactor  ports.DBTransactor
	cfg         config.LedgerConfig
	log         zerolog.Logger

	mu        sync.Mutex
	mintLocks map[string]*sync.Mutex
}

// NewProofLedger creates a new ProofLedgerImpl.
func NewProofLedger(
	proofRepo ports.ProofRepository,
	pendingRepo ports.PendingTokenRepository,
	mint ports.MintClient,
	encSvc ports.EncryptionService,
	transactor ports.DBTransactor,
	cfg config.LedgerConfig,
	log zerolog.Logger,
) *ProofLedgerImpl {
	return &ProofLedgerImpl{
		proofRepo:   proofRepo,
		pendingRepo: pendingRepo,
		mint:        mint,
		encSvc:      encSvc,
		transactor:  transactor,
		cfg:         cfg,
		log:         log,
		mintLocks:   make(map[string]*sync.Mutex),
	}
}

func (s *ProofLedgerImpl) lockMint(mintURL string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mintLocks[mintURL]
	if !ok {
		m = &sync.Mutex{}
		s.mintLocks[mintURL] = m
	}
	return m
}

// swapWithRetry calls the mint's swap with bounded backoff. Terminal
// mint answers (already spent) are never retried; only network-class
// failures are.
func (s *ProofLedgerImpl) swapWithRetry(ctx context.Context, mintURL string, proofs []domain.CashuProof, amounts []int64) ([]domain.CashuProof, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MintRetryMax; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, apperror.ErrMintUnreachable(ctx.Err())
			case <-time.After(s.cfg.MintRetryBackoff * time.Duration(attempt)):
			}
		}

		fresh, err := s.mint.Swap(ctx, mintURL, proofs, amounts)
		if err == nil {
			return fresh, nil
		}
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && !appErr.Retryable {
			return nil, err
		}
		lastErr = err
		s.log.Warn().Err(err).Str("mint", mintURL).Int("attempt", attempt+1).Msg("mint swap failed, retrying")
	}
	return nil, apperror.ErrMintUnreachable(lastErr)
}

// Receive absorbs a serialized ecash token into the ledger and returns
// the amount absorbed. The same token submitted twice is recognized by
// digest and absorbs zero the second time; a token the mint reports
// spent is rejected and nothing is stored.
func (s *ProofLedgerImpl) Receive(ctx context.Context, serializedToken string) (int64, error) {
	token, err := domain.DecodeToken(serializedToken)
	if err != nil {
		return 0, apperror.ErrInvalidTokenFormat(err)
	}

	digest := domain.TokenDigest(serializedToken)
	seen, err := s.proofRepo.HasTokenDigest(ctx, digest)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("check token digest: %w", err))
	}
	if seen {
		s.log.Debug().Str("digest", digest).Msg("token already received, nothing absorbed")
		return 0, nil
	}

	// Swap each entry with its mint before storing. Holding the sender's
	// original proofs would leave them double-spendable by the sender.
	type absorbed struct {
		mintURL string
		proofs  []domain.CashuProof
	}
	var entries []absorbed
	var total int64
	for _, entry := range token.Token {
		var amount int64
		for _, p := range entry.Proofs {
			amount += p.Amount
		}

		stored := entry.Proofs
		if s.cfg.SwapOnReceive {
			lock := s.lockMint(entry.Mint)
			lock.Lock()
			fresh, err := s.swapWithRetry(ctx, entry.Mint, entry.Proofs, denominate(amount))
			lock.Unlock()
			if err != nil {
				return 0, err
			}
			stored = fresh
		}
		entries = append(entries, absorbed{mintURL: entry.Mint, proofs: stored})
		total += amount
	}

	// The digest and the proofs land in one transaction, so a replay
	// after a crash either sees both or neither.
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.proofRepo.SaveTokenDigest(ctx, dbTx, digest); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("save token digest: %w", err))
	}
	for _, e := range entries {
		if err := s.proofRepo.InsertProofs(ctx, dbTx, e.mintURL, e.proofs); err != nil {
			return 0, apperror.InternalError(fmt.Errorf("insert proofs: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Int64("amount", total).
		Int("entries", len(entries)).
		Msg("ecash token absorbed")

	return total, nil
}

// Send assembles a token worth exactly amount from held proofs at the
// given mint. The pending-token row and the proof state change commit
// before the token string is returned; a crash after commit but before
// handoff is recoverable from that row.
func (s *ProofLedgerImpl) Send(ctx context.Context, amount int64, mintURL string) (string, error) {
	if amount <= 0 {
		return "", apperror.Validation("send amount must be positive")
	}

	lock := s.lockMint(mintURL)
	lock.Lock()
	defer lock.Unlock()

	held, err := s.proofRepo.ListByMint(ctx, mintURL)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("list proofs: %w", err))
	}

	selected, selectedSum := selectProofs(held, amount)
	if selectedSum < amount {
		return "", apperror.ErrInsufficientProofs()
	}

	sendProofs := selected
	var changeProofs []domain.CashuProof
	if selectedSum > amount {
		// Over-selection: swap at the mint for exact send + change
		// denominations.
		targets := append(denominate(amount), denominate(selectedSum-amount)...)
		fresh, err := s.swapWithRetry(ctx, mintURL, selected, targets)
		if err != nil {
			return "", err
		}
		sendProofs, changeProofs = partitionProofs(fresh, amount)
		if sumProofs(sendProofs) != amount {
			return "", apperror.InternalError(fmt.Errorf("mint returned unsplittable denominations for %d", amount))
		}
	}

	serialized, err := domain.EncodeToken(domain.EcashToken{
		Token: []domain.TokenEntry{{Mint: mintURL, Proofs: sendProofs}},
	})
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("encode token: %w", err))
	}

	encrypted, err := s.encSvc.Encrypt(serialized)
	if err != nil {
		return "", apperror.ErrEncryptionFailure(fmt.Errorf("encrypt pending token: %w", err))
	}

	now := time.Now().UTC()
	pending := &domain.PendingToken{
		ID:        uuid.New(),
		Token:     encrypted,
		Amount:    amount,
		MintURL:   mintURL,
		Status:    domain.PendingTokenStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return "", apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.proofRepo.DeleteBySecrets(ctx, dbTx, mintURL, secretsOf(selected)); err != nil {
		return "", apperror.InternalError(fmt.Errorf("delete spent proofs: %w", err))
	}
	if len(changeProofs) > 0 {
		if err := s.proofRepo.InsertProofs(ctx, dbTx, mintURL, changeProofs); err != nil {
			return "", apperror.InternalError(fmt.Errorf("insert change proofs: %w", err))
		}
	}
	if err := s.pendingRepo.Create(ctx, dbTx, pending); err != nil {
		return "", apperror.InternalError(fmt.Errorf("create pending token: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return "", apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("pending_id", pending.ID.String()).
		Str("mint", mintURL).
		Int64("amount", amount).
		Msg("ecash token issued, pending claim")

	return serialized, nil
}

// Balance returns the sats held at one mint.
func (s *ProofLedgerImpl) Balance(ctx context.Context, mintURL string) (int64, error) {
	total, err := s.proofRepo.TotalByMint(ctx, mintURL)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("total proofs: %w", err))
	}
	return total, nil
}

// RecoverPending scans the pending-token log and resolves every entry
// older than the grace window: spent at the mint means the recipient
// claimed it, unspent means the value is swept back into the ledger.
// Entries inside the grace window are left alone so a recipient mid-
// claim is not raced. Run on startup before serving traffic.
func (s *ProofLedgerImpl) RecoverPending(ctx context.Context) error {
	pending, err := s.pendingRepo.ListPending(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("list pending tokens: %w", err))
	}

	now := time.Now().UTC()
	for i := range pending {
		pt := &pending[i]
		if !pt.EligibleForReclaim(now, s.cfg.GraceWindow) {
			continue
		}
		if err := s.resolvePending(ctx, pt); err != nil {
			// An unreachable mint leaves the row pending for the next
			// scan; recovery of other mints proceeds.
			s.log.Warn().Err(err).Str("pending_id", pt.ID.String()).Str("mint", pt.MintURL).Msg("pending token unresolved, will retry next scan")
		}
	}
	return nil
}

func (s *ProofLedgerImpl) resolvePending(ctx context.Context, pt *domain.PendingToken) error {
	serialized, err := s.encSvc.Decrypt(pt.Token)
	if err != nil {
		return apperror.ErrEncryptionFailure(fmt.Errorf("decrypt pending token: %w", err))
	}
	token, err := domain.DecodeToken(serialized)
	if err != nil {
		return apperror.ErrInvalidTokenFormat(err)
	}

	lock := s.lockMint(pt.MintURL)
	lock.Lock()
	defer lock.Unlock()

	secrets := token.Secrets()
	spent, err := s.mint.CheckSpent(ctx, pt.MintURL, secrets)
	if err != nil {
		return err
	}

	anySpent := false
	for _, sp := range spent {
		if sp {
			anySpent = true
			break
		}
	}
	if anySpent {
		// The recipient redeemed the token. First writer wins on the
		// terminal state; losing the race just means the other path
		// already resolved it.
		won, err := s.pendingRepo.MarkClaimed(ctx, pt.ID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("mark claimed: %w", err))
		}
		if won {
			s.log.Info().Str("pending_id", pt.ID.String()).Msg("pending token resolved as claimed")
		}
		return nil
	}

	// Unspent past the grace window: reclaim by swapping the proofs for
	// fresh ones, which also invalidates the outstanding token.
	var all []domain.CashuProof
	for _, entry := range token.Token {
		all = append(all, entry.Proofs...)
	}
	fresh, err := s.swapWithRetry(ctx, pt.MintURL, all, denominate(pt.Amount))
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "MINT_002" {
			// The recipient won the race between CheckSpent and Swap.
			if _, markErr := s.pendingRepo.MarkClaimed(ctx, pt.ID); markErr != nil {
				return apperror.InternalError(fmt.Errorf("mark claimed after spent race: %w", markErr))
			}
			return nil
		}
		return err
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.proofRepo.InsertProofs(ctx, dbTx, pt.MintURL, fresh); err != nil {
		return apperror.InternalError(fmt.Errorf("insert reclaimed proofs: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	won, err := s.pendingRepo.MarkReclaimed(ctx, pt.ID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("mark reclaimed: %w", err))
	}
	if won {
		s.log.Info().
			Str("pending_id", pt.ID.String()).
			Int64("amount", pt.Amount).
			Msg("pending token reclaimed into ledger")
	}
	return nil
}

// denominate splits an amount into power-of-two denominations, largest
// first, matching how mints cut blinded outputs.
func denominate(amount int64) []int64 {
	var out []int64
	for bit := 62; bit >= 0; bit-- {
		d := int64(1) << bit
		if amount >= d {
			out = append(out, d)
			amount -= d
		}
	}
	return out
}

// selectProofs picks held proofs greedily, largest first, until the
// target is covered.
func selectProofs(held []domain.CashuProof, target int64) ([]domain.CashuProof, int64) {
	sorted := make([]domain.CashuProof, len(held))
	copy(sorted, held)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Amount > sorted[j-1].Amount; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	var selected []domain.CashuProof
	var sum int64
	for _, p := range sorted {
		if sum >= target {
			break
		}
		selected = append(selected, p)
		sum += p.Amount
	}
	return selected, sum
}

// partitionProofs splits swap output into a set summing exactly to
// amount and the rest. Descending greedy is exact for the power-of-two
// denominations mints cut.
func partitionProofs(proofs []domain.CashuProof, amount int64) (send, change []domain.CashuProof) {
	sorted := make([]domain.CashuProof, len(proofs))
	copy(sorted, proofs)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Amount > sorted[j-1].Amount; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	remaining := amount
	for _, p := range sorted {
		if remaining >= p.Amount {
			send = append(send, p)
			remaining -= p.Amount
		} else {
			change = append(change, p)
		}
	}
	return send, change
}

func sumProofs(proofs []domain.CashuProof) int64 {
	var sum int64
	for _, p := range proofs {
		sum += p.Amount
	}
	return sum
}

func secretsOf(proofs []domain.CashuProof) []string {
	out := make([]string, 0, len(proofs))
	for _, p := range proofs {
		out = append(out, p.Secret)
	}
	return out
}
