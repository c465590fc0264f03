package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction classifies settlement audit entries.
type AuditAction string

const (
	AuditActionStatusTransition AuditAction = "STATUS_TRANSITION"
	AuditActionProofConflict    AuditAction = "PROOF_CONFLICT"
	AuditActionReceiptPublished AuditAction = "RECEIPT_PUBLISHED"
	AuditActionTokenReclaimed   AuditAction = "TOKEN_RECLAIMED"
)

// AuditEntry records one settlement event for dispute handling. The
// proof kind is recorded so wallet-acknowledged settlements stay
// distinguishable from cryptographically proven ones downstream.
type AuditEntry struct {
	ID        uuid.UUID   `json:"id"`
	OrderID   string      `json:"order_id"`
	InvoiceID *uuid.UUID  `json:"invoice_id,omitempty"`
	Action    AuditAction `json:"action"`
	ProofKind ProofKind   `json:"proof_kind,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}
