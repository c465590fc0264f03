package domain

import (
	"time"

	"github.com/google/uuid"
)

// V4VShare is one configured value-for-value revenue split: a fraction
// of every order total owed to a third-party recipient.
type V4VShare struct {
	RecipientPubkey string  `json:"recipient_pubkey"`
	Percentage      float64 `json:"percentage"` // percent of order total, 5.0 == 5%
}

// Seller is a storefront operator: dashboard credentials plus the
// Nostr identity that receives the merchant share, and the configured
// V4V splits applied to every order.
type Seller struct {
	ID           uuid.UUID  `json:"id"`
	Pubkey       string     `json:"pubkey"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	V4VShares    []V4VShare `json:"v4v_shares"`
	CreatedAt    time.Time  `json:"created_at"`
}
