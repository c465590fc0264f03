package handler

import (
	"net/http"
	"time"

	"nostr-market-payments/internal/adapter/http/dto"
	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"
	"nostr-market-payments/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Rail names accepted in settle requests.
const (
	RailLightning = "lightning"
	RailZap       = "zap"
	RailOnChain   = "onchain"
	RailCustodial = "custodial"
)

// InvoiceHandler handles per-invoice settlement endpoints.
type InvoiceHandler struct {
	invoiceRepo ports.InvoiceRepository
	registry    ports.InvoiceRegistry
	reconciler  ports.ProofReconciler
	rails       map[string]ports.PaymentRail
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(
	invoiceRepo ports.InvoiceRepository,
	registry ports.InvoiceRegistry,
	reconciler ports.ProofReconciler,
	rails map[string]ports.PaymentRail,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceRepo: invoiceRepo,
		registry:    registry,
		reconciler:  reconciler,
		rails:       rails,
	}
}

// Settle handles POST /api/v1/invoices/:id/settle. The caller either
// submits a proof it already holds, or names a rail and the server
// obtains the proof itself. Re-settling a paid invoice with an
// equivalent proof is a no-op.
func (h *InvoiceHandler) Settle(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid invoice id"))
		return
	}

	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	var proof domain.PaymentProof
	if req.Proof != nil {
		proof, err = buildProof(*req.Proof)
	} else {
		proof, err = h.settleViaRail(c, invoiceID, req.Rail)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	invoice, err := h.reconciler.Reconcile(c.Request.Context(), invoiceID, proof)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToInvoiceResponse(invoice))
}

// Skip handles POST /api/v1/invoices/:id/skip — the explicit override
// that satisfies an invoice without payment.
func (h *InvoiceHandler) Skip(c *gin.Context) {
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid invoice id"))
		return
	}

	invoice, err := h.registry.UpdateStatus(c.Request.Context(), invoiceID, domain.InvoiceStatusSkipped, domain.PaymentProof{})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ToInvoiceResponse(invoice))
}

// settleViaRail loads the invoice and drives the named (or inferred)
// rail to obtain a payment proof.
func (h *InvoiceHandler) settleViaRail(c *gin.Context, invoiceID uuid.UUID, railName string) (domain.PaymentProof, error) {
	invoice, err := h.invoiceRepo.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		return domain.PaymentProof{}, apperror.InternalError(err)
	}
	if invoice == nil {
		return domain.PaymentProof{}, apperror.ErrNotFound("Invoice")
	}

	if railName == "" {
		railName = inferRail(invoice)
	}
	rail, ok := h.rails[railName]
	if !ok {
		return domain.PaymentProof{}, apperror.Validation("no such payment rail: " + railName)
	}

	proof, err := rail.Settle(c.Request.Context(), invoice)
	if err != nil {
		return domain.PaymentProof{}, apperror.Wrap("SYS_001", "Settlement attempt failed", http.StatusBadGateway, err)
	}
	return proof, nil
}

// inferRail picks the rail from the invoice's issued payment request.
func inferRail(invoice *domain.Invoice) string {
	switch {
	case invoice.BitcoinAddress != "":
		return RailOnChain
	case invoice.IsZap:
		return RailZap
	default:
		return RailLightning
	}
}

// buildProof maps a client-submitted proof body onto the tagged union.
func buildProof(p dto.SettleProof) (domain.PaymentProof, error) {
	switch domain.ProofKind(p.Kind) {
	case domain.ProofKindPreimage:
		if p.Preimage == "" {
			return domain.PaymentProof{}, apperror.Validation("preimage proof requires a preimage")
		}
		return domain.NewPreimageProof(p.Preimage), nil
	case domain.ProofKindZapReceipt:
		if p.EventID == "" {
			return domain.PaymentProof{}, apperror.Validation("zap receipt proof requires an event id")
		}
		return domain.NewZapReceiptProof(p.EventID, p.Preimage), nil
	case domain.ProofKindWalletAck:
		if p.WalletMethod == "" {
			return domain.PaymentProof{}, apperror.Validation("wallet ack proof requires a wallet method")
		}
		return domain.NewWalletAckProof(p.WalletMethod, time.Now().UTC()), nil
	default:
		return domain.PaymentProof{}, apperror.Validation("unknown proof kind: " + p.Kind)
	}
}
