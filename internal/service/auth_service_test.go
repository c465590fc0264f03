package service

import (
	"context"
	"testing"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type authTestDeps struct {
	svc        *AuthServiceImpl
	sellerRepo *mocks.MockSellerRepository
	hashSvc    *mocks.MockHashService
	tokenSvc   *mocks.MockTokenService
	ctrl       *gomock.Controller
}

func setupAuthService(t *testing.T) *authTestDeps {
	ctrl := gomock.NewController(t)
	d := &authTestDeps{
		sellerRepo: mocks.NewMockSellerRepository(ctrl),
		hashSvc:    mocks.NewMockHashService(ctrl),
		tokenSvc:   mocks.NewMockTokenService(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewAuthService(d.sellerRepo, d.hashSvc, d.tokenSvc)
	return d
}

func TestAuthService_Register_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.RegisterRequest{
		Username: "alice",
		Password: "hunter22",
		Pubkey:   "npub_alice",
		V4VShares: []domain.V4VShare{
			{RecipientPubkey: "npub_dev", Percentage: 5.0},
		},
	}

	d.sellerRepo.EXPECT().GetByUsername(ctx, "alice").Return(nil, nil)
	d.hashSvc.EXPECT().Hash("hunter22").Return("$argon2id$...", nil)
	d.sellerRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	seller, err := d.svc.Register(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "alice", seller.Username)
	assert.Equal(t, "npub_alice", seller.Pubkey)
	assert.Equal(t, "$argon2id$...", seller.PasswordHash)
	assert.Len(t, seller.V4VShares, 1)
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.sellerRepo.EXPECT().GetByUsername(ctx, "alice").Return(&domain.Seller{Username: "alice"}, nil)

	_, err := d.svc.Register(ctx, ports.RegisterRequest{
		Username: "alice", Password: "pw", Pubkey: "npub_alice",
	})
	assertAppError(t, err, "AUTH_002")
}

func TestAuthService_Register_InvalidShares(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	// The bad config is rejected before any repo call.
	_, err := d.svc.Register(context.Background(), ports.RegisterRequest{
		Username: "alice",
		Password: "pw",
		Pubkey:   "npub_alice",
		V4VShares: []domain.V4VShare{
			{RecipientPubkey: "npub_a", Percentage: 60},
			{RecipientPubkey: "npub_b", Percentage: 45},
		},
	})
	assertAppError(t, err, "SPLIT_001")
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Register(context.Background(), ports.RegisterRequest{Username: "alice"})
	assertAppError(t, err, "VAL_001")

	_, err = d.svc.Register(context.Background(), ports.RegisterRequest{Username: "alice", Password: "pw"})
	assertAppError(t, err, "VAL_001")
}

func TestAuthService_Login_Success(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	sellerID := uuid.New()
	expiry := time.Now().Add(time.Hour)

	d.sellerRepo.EXPECT().GetByUsername(ctx, "alice").Return(&domain.Seller{
		ID: sellerID, Username: "alice", Pubkey: "npub_alice", PasswordHash: "$argon2id$...",
	}, nil)
	d.hashSvc.EXPECT().Verify("hunter22", "$argon2id$...").Return(true, nil)
	d.tokenSvc.EXPECT().Generate(sellerID, "npub_alice").Return("jwt_token", expiry, nil)

	token, exp, err := d.svc.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "jwt_token", token)
	assert.Equal(t, expiry, exp)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.sellerRepo.EXPECT().GetByUsername(ctx, "alice").Return(&domain.Seller{
		ID: uuid.New(), Username: "alice", PasswordHash: "$argon2id$...",
	}, nil)
	d.hashSvc.EXPECT().Verify("wrong", "$argon2id$...").Return(false, nil)

	_, _, err := d.svc.Login(ctx, "alice", "wrong")
	assertAppError(t, err, "AUTH_001")
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	d := setupAuthService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.sellerRepo.EXPECT().GetByUsername(ctx, "nobody").Return(nil, nil)

	_, _, err := d.svc.Login(ctx, "nobody", "pw")
	assertAppError(t, err, "AUTH_001")
}
