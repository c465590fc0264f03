package service

import (
	"context"
	"fmt"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"

	"github.com/google/uuid"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	sellerRepo ports.SellerRepository
	hashSvc    ports.HashService
	tokenSvc   ports.TokenService
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	sellerRepo ports.SellerRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		sellerRepo: sellerRepo,
		hashSvc:    hashSvc,
		tokenSvc:   tokenSvc,
	}
}

// Register creates a new seller account. The v4v share configuration
// is validated up front so the first order does not fail mid-split.
func (s *AuthServiceImpl) Register(ctx context.Context, req ports.RegisterRequest) (*domain.Seller, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apperror.Validation("username and password are required")
	}
	if req.Pubkey == "" {
		return nil, apperror.Validation("nostr pubkey is required")
	}
	if _, err := ComputeSplit("validation", 1_000_000, req.Pubkey, req.V4VShares, time.Now().UTC()); err != nil {
		return nil, err
	}

	existing, err := s.sellerRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check username: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrUsernameExists()
	}

	passwordHash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	seller := &domain.Seller{
		ID:           uuid.New(),
		Pubkey:       req.Pubkey,
		Username:     req.Username,
		PasswordHash: passwordHash,
		V4VShares:    req.V4VShares,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create seller: %w", err))
	}

	return seller, nil
}

// Login validates credentials and returns a JWT token.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	seller, err := s.sellerRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("find seller: %w", err))
	}
	if seller == nil {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, seller.PasswordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(seller.ID, seller.Pubkey)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
