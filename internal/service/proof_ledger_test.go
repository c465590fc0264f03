package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nostr-market-payments/config"
	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports/mocks"
	"nostr-market-payments/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testMint = "https://mint.example.com"

type ledgerTestDeps struct {
	svc         *ProofLedgerImpl
	proofRepo   *mocks.MockProofRepository
	pendingRepo *mocks.MockPendingTokenRepository
	mint        *mocks.MockMintClient
	encSvc      *mocks.MockEncryptionService
	transactor  *mocks.MockDBTransactor
	ctrl        *gomock.Controller
}

func setupProofLedger(t *testing.T) *ledgerTestDeps {
	ctrl := gomock.NewController(t)
	d := &ledgerTestDeps{
		proofRepo:   mocks.NewMockProofRepository(ctrl),
		pendingRepo: mocks.NewMockPendingTokenRepository(ctrl),
		mint:        mocks.NewMockMintClient(ctrl),
		encSvc:      mocks.NewMockEncryptionService(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		ctrl:        ctrl,
	}
	cfg := config.LedgerConfig{
		GraceWindow:      24 * time.Hour,
		MintRetryMax:     2,
		MintRetryBackoff: time.Millisecond,
		SwapOnReceive:    true,
	}
	d.svc = NewProofLedger(d.proofRepo, d.pendingRepo, d.mint, d.encSvc, d.transactor, cfg, zerolog.Nop())
	return d
}

func makeToken(t *testing.T, amounts ...int64) (string, domain.EcashToken) {
	t.Helper()
	var proofs []domain.CashuProof
	for i, a := range amounts {
		proofs = append(proofs, domain.CashuProof{
			KeysetID: "keyset1",
			Amount:   a,
			Secret:   uuid.New().String(),
			C:        "02c" + string(rune('a'+i)),
		})
	}
	token := domain.EcashToken{Token: []domain.TokenEntry{{Mint: testMint, Proofs: proofs}}}
	serialized, err := domain.EncodeToken(token)
	require.NoError(t, err)
	return serialized, token
}

// ==================== Receive Tests ====================

func TestProofLedger_Receive_Success(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	serialized, _ := makeToken(t, 64, 32, 4)
	digest := domain.TokenDigest(serialized)
	fresh := []domain.CashuProof{{KeysetID: "keyset1", Amount: 64, Secret: "s1", C: "c1"}, {KeysetID: "keyset1", Amount: 32, Secret: "s2", C: "c2"}, {KeysetID: "keyset1", Amount: 4, Secret: "s3", C: "c3"}}

	d.proofRepo.EXPECT().HasTokenDigest(ctx, digest).Return(false, nil)
	d.mint.EXPECT().Swap(ctx, testMint, gomock.Any(), []int64{64, 32, 4}).Return(fresh, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proofRepo.EXPECT().SaveTokenDigest(ctx, tx, digest).Return(nil)
	d.proofRepo.EXPECT().InsertProofs(ctx, tx, testMint, fresh).Return(nil)

	amount, err := d.svc.Receive(ctx, serialized)
	require.NoError(t, err)
	assert.Equal(t, int64(100), amount)
}

func TestProofLedger_Receive_TwiceIsNoOp(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	serialized, _ := makeToken(t, 8)
	digest := domain.TokenDigest(serialized)

	// No mint call, no writes: the digest short-circuits everything.
	d.proofRepo.EXPECT().HasTokenDigest(ctx, digest).Return(true, nil)

	amount, err := d.svc.Receive(ctx, serialized)
	require.NoError(t, err)
	assert.Equal(t, int64(0), amount)
}

func TestProofLedger_Receive_MalformedToken(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Receive(context.Background(), "not-a-token")
	assertAppError(t, err, "TOKEN_001")
}

func TestProofLedger_Receive_AlreadySpent(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	serialized, _ := makeToken(t, 16)
	digest := domain.TokenDigest(serialized)

	d.proofRepo.EXPECT().HasTokenDigest(ctx, digest).Return(false, nil)
	// Terminal mint answer: no retry, nothing stored.
	d.mint.EXPECT().Swap(ctx, testMint, gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadySpent())

	_, err := d.svc.Receive(ctx, serialized)
	assertAppError(t, err, "MINT_002")
}

func TestProofLedger_Receive_MintUnreachableAfterRetries(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	serialized, _ := makeToken(t, 16)
	digest := domain.TokenDigest(serialized)

	d.proofRepo.EXPECT().HasTokenDigest(ctx, digest).Return(false, nil)
	// MintRetryMax=2 means three attempts total.
	d.mint.EXPECT().Swap(ctx, testMint, gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrMintUnreachable(errors.New("dial timeout"))).Times(3)

	_, err := d.svc.Receive(ctx, serialized)
	assertAppError(t, err, "MINT_001")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.Retryable)
}

func TestProofLedger_Receive_RecoversAfterTransientFailure(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	serialized, _ := makeToken(t, 16)
	digest := domain.TokenDigest(serialized)
	fresh := []domain.CashuProof{{KeysetID: "keyset1", Amount: 16, Secret: "s1", C: "c1"}}

	d.proofRepo.EXPECT().HasTokenDigest(ctx, digest).Return(false, nil)
	gomock.InOrder(
		d.mint.EXPECT().Swap(ctx, testMint, gomock.Any(), gomock.Any()).
			Return(nil, apperror.ErrMintUnreachable(errors.New("dial timeout"))),
		d.mint.EXPECT().Swap(ctx, testMint, gomock.Any(), gomock.Any()).Return(fresh, nil),
	)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proofRepo.EXPECT().SaveTokenDigest(ctx, tx, digest).Return(nil)
	d.proofRepo.EXPECT().InsertProofs(ctx, tx, testMint, fresh).Return(nil)

	amount, err := d.svc.Receive(ctx, serialized)
	require.NoError(t, err)
	assert.Equal(t, int64(16), amount)
}

// ==================== Send Tests ====================

func TestProofLedger_Send_ExactDenominations(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	held := []domain.CashuProof{
		{KeysetID: "k", Amount: 16, Secret: "s16", C: "c1"},
		{KeysetID: "k", Amount: 8, Secret: "s8", C: "c2"},
	}

	var pendingRow *domain.PendingToken

	d.proofRepo.EXPECT().ListByMint(ctx, testMint).Return(held, nil)
	// 24 covered exactly by 16+8: no swap needed.
	d.encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc_token", nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proofRepo.EXPECT().DeleteBySecrets(ctx, tx, testMint, []string{"s16", "s8"}).Return(nil)
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ interface{}, pt *domain.PendingToken) error {
			pendingRow = pt
			return nil
		})

	serialized, err := d.svc.Send(ctx, 24, testMint)
	require.NoError(t, err)

	token, err := domain.DecodeToken(serialized)
	require.NoError(t, err)
	assert.Equal(t, int64(24), token.TotalAmount())

	require.NotNil(t, pendingRow)
	assert.Equal(t, domain.PendingTokenStatusPending, pendingRow.Status)
	assert.Equal(t, int64(24), pendingRow.Amount)
	assert.Equal(t, "enc_token", pendingRow.Token)
}

func TestProofLedger_Send_SwapsForChange(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	held := []domain.CashuProof{{KeysetID: "k", Amount: 32, Secret: "s32", C: "c1"}}
	// Send 10 from a 32: mint swaps into 8+2 (send) and 16+4+2 (change).
	fresh := []domain.CashuProof{
		{KeysetID: "k", Amount: 8, Secret: "f8", C: "c2"},
		{KeysetID: "k", Amount: 2, Secret: "f2", C: "c3"},
		{KeysetID: "k", Amount: 16, Secret: "f16", C: "c4"},
		{KeysetID: "k", Amount: 4, Secret: "f4", C: "c5"},
		{KeysetID: "k", Amount: 2, Secret: "f2b", C: "c6"},
	}

	d.proofRepo.EXPECT().ListByMint(ctx, testMint).Return(held, nil)
	d.mint.EXPECT().Swap(ctx, testMint, held, []int64{8, 2, 16, 4, 2}).Return(fresh, nil)
	d.encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc_token", nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proofRepo.EXPECT().DeleteBySecrets(ctx, tx, testMint, []string{"s32"}).Return(nil)
	d.proofRepo.EXPECT().InsertProofs(ctx, tx, testMint, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ interface{}, _ string, change []domain.CashuProof) error {
			assert.Equal(t, int64(22), sumProofs(change))
			return nil
		})
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)

	serialized, err := d.svc.Send(ctx, 10, testMint)
	require.NoError(t, err)

	token, err := domain.DecodeToken(serialized)
	require.NoError(t, err)
	assert.Equal(t, int64(10), token.TotalAmount())
}

func TestProofLedger_Send_InsufficientProofs(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.proofRepo.EXPECT().ListByMint(ctx, testMint).Return([]domain.CashuProof{
		{KeysetID: "k", Amount: 4, Secret: "s4", C: "c"},
	}, nil)

	_, err := d.svc.Send(ctx, 100, testMint)
	assertAppError(t, err, "MINT_003")
}

func TestProofLedger_Send_InvalidAmount(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Send(context.Background(), 0, testMint)
	assertAppError(t, err, "VAL_001")
}

func TestProofLedger_Send_PendingRowCommitsBeforeHandoff(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	held := []domain.CashuProof{{KeysetID: "k", Amount: 8, Secret: "s8", C: "c"}}

	d.proofRepo.EXPECT().ListByMint(ctx, testMint).Return(held, nil)
	d.encSvc.EXPECT().Encrypt(gomock.Any()).Return("enc_token", nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proofRepo.EXPECT().DeleteBySecrets(ctx, tx, testMint, []string{"s8"}).Return(nil)
	// The commit fails: the token must NOT be handed out.
	d.pendingRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(errors.New("disk full"))

	serialized, err := d.svc.Send(ctx, 8, testMint)
	require.Error(t, err)
	assert.Empty(t, serialized)
}

// ==================== RecoverPending Tests ====================

func TestProofLedger_RecoverPending_InsideGraceWindowUntouched(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	// One hour old, 24h grace window: no mint calls, no writes.
	d.pendingRepo.EXPECT().ListPending(ctx).Return([]domain.PendingToken{
		{
			ID:        uuid.New(),
			Token:     "enc_token",
			Amount:    8,
			MintURL:   testMint,
			Status:    domain.PendingTokenStatusPending,
			CreatedAt: time.Now().UTC().Add(-time.Hour),
		},
	}, nil)

	err := d.svc.RecoverPending(ctx)
	require.NoError(t, err)
}

func TestProofLedger_RecoverPending_UnspentIsReclaimed(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	serialized, token := makeToken(t, 8)
	fresh := []domain.CashuProof{{KeysetID: "k", Amount: 8, Secret: "fresh8", C: "c"}}
	pendingID := uuid.New()

	d.pendingRepo.EXPECT().ListPending(ctx).Return([]domain.PendingToken{
		{
			ID:        pendingID,
			Token:     "enc_token",
			Amount:    8,
			MintURL:   testMint,
			Status:    domain.PendingTokenStatusPending,
			CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
		},
	}, nil)
	d.encSvc.EXPECT().Decrypt("enc_token").Return(serialized, nil)
	d.mint.EXPECT().CheckSpent(ctx, testMint, token.Secrets()).Return([]bool{false}, nil)
	d.mint.EXPECT().Swap(ctx, testMint, gomock.Any(), []int64{8}).Return(fresh, nil)
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)
	d.proofRepo.EXPECT().InsertProofs(ctx, tx, testMint, fresh).Return(nil)
	d.pendingRepo.EXPECT().MarkReclaimed(ctx, pendingID).Return(true, nil)

	err := d.svc.RecoverPending(ctx)
	require.NoError(t, err)
}

func TestProofLedger_RecoverPending_SpentIsMarkedClaimed(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	serialized, token := makeToken(t, 8)
	pendingID := uuid.New()

	d.pendingRepo.EXPECT().ListPending(ctx).Return([]domain.PendingToken{
		{
			ID:        pendingID,
			Token:     "enc_token",
			Amount:    8,
			MintURL:   testMint,
			Status:    domain.PendingTokenStatusPending,
			CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
		},
	}, nil)
	d.encSvc.EXPECT().Decrypt("enc_token").Return(serialized, nil)
	// The recipient redeemed it: no swap, no proof writes.
	d.mint.EXPECT().CheckSpent(ctx, testMint, token.Secrets()).Return([]bool{true}, nil)
	d.pendingRepo.EXPECT().MarkClaimed(ctx, pendingID).Return(true, nil)

	err := d.svc.RecoverPending(ctx)
	require.NoError(t, err)
}

func TestProofLedger_RecoverPending_SpentRaceDuringSwap(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	serialized, token := makeToken(t, 8)
	pendingID := uuid.New()

	d.pendingRepo.EXPECT().ListPending(ctx).Return([]domain.PendingToken{
		{
			ID:        pendingID,
			Token:     "enc_token",
			Amount:    8,
			MintURL:   testMint,
			Status:    domain.PendingTokenStatusPending,
			CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
		},
	}, nil)
	d.encSvc.EXPECT().Decrypt("enc_token").Return(serialized, nil)
	d.mint.EXPECT().CheckSpent(ctx, testMint, token.Secrets()).Return([]bool{false}, nil)
	// The recipient claims between CheckSpent and Swap.
	d.mint.EXPECT().Swap(ctx, testMint, gomock.Any(), gomock.Any()).Return(nil, apperror.ErrAlreadySpent())
	d.pendingRepo.EXPECT().MarkClaimed(ctx, pendingID).Return(true, nil)

	err := d.svc.RecoverPending(ctx)
	require.NoError(t, err)
}

func TestProofLedger_RecoverPending_UnreachableMintStaysPending(t *testing.T) {
	d := setupProofLedger(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	serialized, token := makeToken(t, 8)
	pendingID := uuid.New()

	d.pendingRepo.EXPECT().ListPending(ctx).Return([]domain.PendingToken{
		{
			ID:        pendingID,
			Token:     "enc_token",
			Amount:    8,
			MintURL:   testMint,
			Status:    domain.PendingTokenStatusPending,
			CreatedAt: time.Now().UTC().Add(-25 * time.Hour),
		},
	}, nil)
	d.encSvc.EXPECT().Decrypt("enc_token").Return(serialized, nil)
	d.mint.EXPECT().CheckSpent(ctx, testMint, token.Secrets()).
		Return(nil, apperror.ErrMintUnreachable(errors.New("dial timeout")))

	// The scan itself succeeds; the row stays pending for the next run.
	err := d.svc.RecoverPending(ctx)
	require.NoError(t, err)
}

// ==================== Helper Tests ====================

func TestDenominate(t *testing.T) {
	assert.Equal(t, []int64{64, 32, 4}, denominate(100))
	assert.Equal(t, []int64{8}, denominate(8))
	assert.Equal(t, []int64{4, 2, 1}, denominate(7))
	assert.Nil(t, denominate(0))
}

func TestSelectProofs_GreedyLargestFirst(t *testing.T) {
	held := []domain.CashuProof{
		{Amount: 2, Secret: "s2"},
		{Amount: 16, Secret: "s16"},
		{Amount: 8, Secret: "s8"},
	}

	selected, sum := selectProofs(held, 20)
	assert.Equal(t, int64(24), sum)
	require.Len(t, selected, 2)
	assert.Equal(t, int64(16), selected[0].Amount)
	assert.Equal(t, int64(8), selected[1].Amount)
}

func TestPartitionProofs_ExactSplit(t *testing.T) {
	proofs := []domain.CashuProof{
		{Amount: 2, Secret: "a"},
		{Amount: 1, Secret: "b"},
		{Amount: 4, Secret: "c"},
	}

	send, change := partitionProofs(proofs, 4)
	assert.Equal(t, int64(4), sumProofs(send))
	assert.Equal(t, int64(3), sumProofs(change))
}
