package domain

import "time"

// ProofKind identifies the rail-specific class of payment evidence.
// The kinds differ in cryptographic strength: a preimage self-verifies
// against the invoice payment hash, a zap receipt is a verifiable
// relay event, a wallet ack is an unverified custodial assertion.
type ProofKind string

const (
	ProofKindPreimage   ProofKind = "preimage"
	ProofKindZapReceipt ProofKind = "zap_receipt"
	ProofKindWalletAck  ProofKind = "wallet_ack"
)

// PaymentProof is the tagged union of payment evidence produced by a
// rail adapter. Exactly one constructor per kind; fields outside the
// kind's set are zero.
type PaymentProof struct {
	Kind ProofKind `json:"kind"`

	// preimage, and optionally zap_receipt
	Preimage string `json:"preimage,omitempty"`

	// zap_receipt
	EventID string `json:"event_id,omitempty"`

	// wallet_ack
	WalletMethod string    `json:"wallet_method,omitempty"`
	AckedAt      time.Time `json:"acked_at,omitempty"`
}

// NewPreimageProof builds a Lightning preimage proof.
func NewPreimageProof(preimage string) PaymentProof {
	return PaymentProof{Kind: ProofKindPreimage, Preimage: preimage}
}

// NewZapReceiptProof builds a zap-receipt proof. The preimage is
// optional; when absent the receipt event id stands in as the proof
// token.
func NewZapReceiptProof(eventID, preimage string) PaymentProof {
	return PaymentProof{Kind: ProofKindZapReceipt, EventID: eventID, Preimage: preimage}
}

// NewWalletAckProof builds a custodial wallet acknowledgement, the
// weakest proof class.
func NewWalletAckProof(method string, ackedAt time.Time) PaymentProof {
	return PaymentProof{Kind: ProofKindWalletAck, WalletMethod: method, AckedAt: ackedAt}
}

// Canonical reduces the proof to the single stored receipt string.
// Total over all well-formed proofs and deterministic:
//
//	preimage    -> the preimage
//	zap_receipt -> preimage if present, else the receipt event id
//	wallet_ack  -> "" (empty string signals wallet-acknowledged, not
//	               cryptographically proven, to receipt consumers)
//
// An unknown kind also canonicalizes to "" so a future proof kind
// degrades to the weakest class instead of being mis-canonicalized.
func (p PaymentProof) Canonical() string {
	switch p.Kind {
	case ProofKindPreimage:
		return p.Preimage
	case ProofKindZapReceipt:
		if p.Preimage != "" {
			return p.Preimage
		}
		return p.EventID
	case ProofKindWalletAck:
		return ""
	default:
		return ""
	}
}

// IsZero reports whether no proof was supplied.
func (p PaymentProof) IsZero() bool {
	return p.Kind == ""
}
