package domain

import "time"

// Nostr event kinds consumed and produced by this core.
const (
	EventKindZapReceipt     = 9735
	EventKindPaymentReceipt = 17004
)

// NostrEvent is the slice of a relay event this core reads. Relay
// connectivity and signature verification live in the collaborator
// that produces these.
type NostrEvent struct {
	ID        string     `json:"id"`
	Kind      int        `json:"kind"`
	Pubkey    string     `json:"pubkey"`
	Content   string     `json:"content"`
	Tags      [][]string `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
}

// TagValue returns the second element of the first tag with the given
// name, or "".
func (e NostrEvent) TagValue(name string) string {
	for _, tag := range e.Tags {
		if len(tag) >= 2 && tag[0] == name {
			return tag[1]
		}
	}
	return ""
}

// EventFilter is the subset of a relay subscription filter the
// background poller needs. No ordering is guaranteed across fetches.
type EventFilter struct {
	Kinds      []int     `json:"kinds,omitempty"`
	Recipients []string  `json:"recipients,omitempty"` // #p tags
	Since      time.Time `json:"since,omitempty"`
}

// ReceiptEvent is the payment receipt this core asks the wallet
// collaborator to sign and the publisher to broadcast. Receipt carries
// the canonical proof string; empty means wallet-acknowledged.
type ReceiptEvent struct {
	Kind            int       `json:"kind"`
	OrderID         string    `json:"order_id"`
	InvoiceID       string    `json:"invoice_id"`
	RecipientPubkey string    `json:"recipient_pubkey"`
	Amount          int64     `json:"amount"`
	Receipt         string    `json:"receipt"`
	PaidAt          time.Time `json:"paid_at"`
	Sig             string    `json:"sig,omitempty"`
}
