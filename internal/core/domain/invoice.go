package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceType distinguishes the merchant's own obligation from
// value-for-value revenue shares.
type InvoiceType string

const (
	InvoiceTypeMerchant InvoiceType = "merchant"
	InvoiceTypeV4V      InvoiceType = "v4v"
)

// InvoiceStatus is the lifecycle state of a single payable obligation.
// pending is the only non-terminal state; paid, expired and skipped are
// terminal and an invoice never leaves a terminal state.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusExpired InvoiceStatus = "expired"
	InvoiceStatusSkipped InvoiceStatus = "skipped"
)

// IsTerminal returns true if no further transitions are allowed.
func (s InvoiceStatus) IsTerminal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusExpired || s == InvoiceStatusSkipped
}

// CanTransitionTo validates a status transition. Only pending has
// outgoing edges; everything else is terminal.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	if s != InvoiceStatusPending {
		return false
	}
	switch target {
	case InvoiceStatusPaid, InvoiceStatusExpired, InvoiceStatusSkipped:
		return true
	}
	return false
}

// PaymentMethod is the rail chosen at settlement time.
type PaymentMethod string

const (
	PaymentMethodLightning PaymentMethod = "ln"
	PaymentMethodOnChain   PaymentMethod = "on-chain"
)

// Invoice is one payable obligation within an order: the merchant share
// or a value-for-value share. Exactly one invoice exists per
// (order, recipient) pair.
type Invoice struct {
	ID              uuid.UUID     `json:"id"`
	OrderID         string        `json:"order_id"`
	Amount          int64         `json:"amount"` // sats
	Type            InvoiceType   `json:"type"`
	RecipientPubkey string        `json:"recipient_pubkey"`
	V4VSplitPercent float64       `json:"v4v_split_percent,omitempty"`
	Status          InvoiceStatus `json:"status"`
	PaymentMethod   *PaymentMethod `json:"payment_method,omitempty"`

	// Lightning rail fields
	Bolt11           string `json:"bolt11,omitempty"`
	LightningAddress string `json:"lightning_address,omitempty"`
	IsZap            bool   `json:"is_zap,omitempty"`
	Preimage         string `json:"preimage,omitempty"`

	// On-chain rail fields
	BitcoinAddress string     `json:"bitcoin_address,omitempty"`
	PaymentURI     string     `json:"payment_uri,omitempty"`
	Txid           string     `json:"txid,omitempty"`
	Confirmations  int        `json:"confirmations,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`

	// Receipt holds the canonical proof string once paid. Empty for a
	// paid invoice means the payment was wallet-acknowledged rather
	// than cryptographically proven.
	Receipt string `json:"receipt,omitempty"`

	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PersistedAt time.Time `json:"persisted_at"`
}

// HasPaymentRequest reports whether a concrete payment request is
// outstanding: a Lightning invoice or an on-chain address was issued
// and has not lapsed.
func (i *Invoice) HasPaymentRequest(now time.Time) bool {
	if i.Bolt11 == "" && i.BitcoinAddress == "" {
		return false
	}
	if i.ExpiresAt != nil && !now.Before(*i.ExpiresAt) {
		return false
	}
	return true
}

// IsExpired reports whether the invoice's payment request lapsed
// without a proof.
func (i *Invoice) IsExpired(now time.Time) bool {
	return i.Status == InvoiceStatusPending && i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}
