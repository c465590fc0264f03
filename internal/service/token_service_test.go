package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService("test-secret", time.Hour, "nostr-market-payments")
	sellerID := uuid.New()

	token, expiry, err := svc.Generate(sellerID, "npub_seller")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, sellerID, claims.SellerID)
	assert.Equal(t, "npub_seller", claims.Pubkey)
}

func TestJWTTokenService_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTTokenService("secret-a", time.Hour, "nostr-market-payments")
	other := NewJWTTokenService("secret-b", time.Hour, "nostr-market-payments")

	token, _, err := svc.Generate(uuid.New(), "npub_seller")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTTokenService("test-secret", -time.Minute, "nostr-market-payments")

	token, _, err := svc.Generate(uuid.New(), "npub_seller")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}

func TestJWTTokenService_RejectsGarbage(t *testing.T) {
	svc := NewJWTTokenService("test-secret", time.Hour, "nostr-market-payments")

	_, err := svc.Validate("not.a.jwt")
	assert.Error(t, err)
}
