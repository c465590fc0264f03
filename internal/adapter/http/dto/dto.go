package dto

import (
	"time"

	"nostr-market-payments/internal/core/domain"
)

// RegisterRequest is the request body for seller registration.
type RegisterRequest struct {
	Username  string     `json:"username" binding:"required,min=3,max=50,safe_id"`
	Password  string     `json:"password" binding:"required,min=8,max=128"`
	Pubkey    string     `json:"pubkey" binding:"required,min=8,max=128"`
	V4VShares []V4VShare `json:"v4v_shares" binding:"dive"`
}

// V4VShare is one configured revenue split in a request body.
type V4VShare struct {
	RecipientPubkey string  `json:"recipient_pubkey" binding:"required"`
	Percentage      float64 `json:"percentage" binding:"required,gt=0,lt=100"`
}

// LoginRequest is the request body for seller login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	SellerID string `json:"seller_id"`
	Pubkey   string `json:"pubkey"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token  string `json:"token"`
	Expiry int64  `json:"expiry"` // Unix timestamp
}

// PaymentRequestDetails carries the rail-specific payment request
// issued out of band for one recipient of an order.
type PaymentRequestDetails struct {
	RecipientPubkey  string `json:"recipient_pubkey" binding:"required"`
	Bolt11           string `json:"bolt11,omitempty"`
	LightningAddress string `json:"lightning_address,omitempty"`
	IsZap            bool   `json:"is_zap,omitempty"`
	BitcoinAddress   string `json:"bitcoin_address,omitempty"`
	PaymentURI       string `json:"payment_uri,omitempty"`
	ExpiresAt        *int64 `json:"expires_at,omitempty"` // Unix timestamp
}

// CreateOrderRequest opens an order: the total is split across the
// seller's configured shares and one invoice per recipient is created.
type CreateOrderRequest struct {
	OrderID         string                  `json:"order_id" binding:"required,max=100,safe_id"`
	TotalAmount     int64                   `json:"total_amount" binding:"required,gt=0"`
	PaymentRequests []PaymentRequestDetails `json:"payment_requests,omitempty" binding:"dive"`
}

// SettleProof is a client-submitted payment proof.
type SettleProof struct {
	Kind         string `json:"kind" binding:"required,oneof=preimage zap_receipt wallet_ack"`
	Preimage     string `json:"preimage,omitempty"`
	EventID      string `json:"event_id,omitempty"`
	WalletMethod string `json:"wallet_method,omitempty"`
}

// SettleRequest is the request body for invoice settlement. Either a
// proof is submitted directly, or a rail is named and the server
// obtains the proof itself.
type SettleRequest struct {
	Proof *SettleProof `json:"proof,omitempty"`
	Rail  string       `json:"rail,omitempty" binding:"omitempty,oneof=lightning zap onchain custodial"`
}

// InvoiceResponse is the response body for a single invoice.
type InvoiceResponse struct {
	ID              string  `json:"id"`
	OrderID         string  `json:"order_id"`
	Amount          int64   `json:"amount"`
	Type            string  `json:"type"`
	RecipientPubkey string  `json:"recipient_pubkey"`
	V4VSplitPercent float64 `json:"v4v_split_percent,omitempty"`
	Status          string  `json:"status"`
	PaymentMethod   string  `json:"payment_method,omitempty"`
	Bolt11          string  `json:"bolt11,omitempty"`
	BitcoinAddress  string  `json:"bitcoin_address,omitempty"`
	Receipt         string  `json:"receipt,omitempty"`
	ExpiresAt       *int64  `json:"expires_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// ToInvoiceResponse maps a domain invoice to its response shape.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:              inv.ID.String(),
		OrderID:         inv.OrderID,
		Amount:          inv.Amount,
		Type:            string(inv.Type),
		RecipientPubkey: inv.RecipientPubkey,
		V4VSplitPercent: inv.V4VSplitPercent,
		Status:          string(inv.Status),
		Bolt11:          inv.Bolt11,
		BitcoinAddress:  inv.BitcoinAddress,
		Receipt:         inv.Receipt,
		CreatedAt:       inv.CreatedAt.UTC().Format(time.RFC3339),
	}
	if inv.PaymentMethod != nil {
		resp.PaymentMethod = string(*inv.PaymentMethod)
	}
	if inv.ExpiresAt != nil {
		ts := inv.ExpiresAt.Unix()
		resp.ExpiresAt = &ts
	}
	return resp
}

// OrderStatusResponse is the response for the order-level aggregate.
type OrderStatusResponse struct {
	OrderID      string `json:"order_id"`
	Status       string `json:"status"`
	UnmetPayment bool   `json:"unmet_payment"`
}

// WalletReceiveRequest absorbs an ecash token into the held set.
type WalletReceiveRequest struct {
	Token string `json:"token" binding:"required"`
}

// WalletReceiveResponse reports the amount absorbed. Zero with no
// error means the token was already absorbed earlier.
type WalletReceiveResponse struct {
	Amount int64 `json:"amount"`
}

// WalletSendRequest constructs a bearer token from held proofs.
type WalletSendRequest struct {
	Amount  int64  `json:"amount" binding:"required,gt=0"`
	MintURL string `json:"mint_url" binding:"required,safe_url"`
}

// WalletSendResponse carries the serialized bearer token.
type WalletSendResponse struct {
	Token string `json:"token"`
}

// WalletBalanceResponse is the response for a balance query.
type WalletBalanceResponse struct {
	MintURL string `json:"mint_url"`
	Balance int64  `json:"balance"`
}

// DashboardStatsResponse is the response for dashboard statistics.
type DashboardStatsResponse struct {
	TotalInvoices   int64 `json:"total_invoices"`
	Paid            int64 `json:"paid"`
	Pending         int64 `json:"pending"`
	Expired         int64 `json:"expired"`
	Skipped         int64 `json:"skipped"`
	SatsCollected   int64 `json:"sats_collected"`
	SatsOutstanding int64 `json:"sats_outstanding"`
}

// AuditEntryResponse is one settlement audit trail row.
type AuditEntryResponse struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	InvoiceID string `json:"invoice_id,omitempty"`
	Action    string `json:"action"`
	ProofKind string `json:"proof_kind,omitempty"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}
