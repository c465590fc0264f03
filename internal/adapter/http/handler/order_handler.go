package handler

import (
	"time"

	"nostr-market-payments/internal/adapter/http/dto"
	"nostr-market-payments/internal/adapter/http/middleware"
	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/internal/service"
	"nostr-market-payments/pkg/apperror"
	"nostr-market-payments/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderHandler handles order lifecycle endpoints.
type OrderHandler struct {
	registry   ports.InvoiceRegistry
	scheduler  ports.SyncScheduler
	sellerRepo ports.SellerRepository
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(
	registry ports.InvoiceRegistry,
	scheduler ports.SyncScheduler,
	sellerRepo ports.SellerRepository,
) *OrderHandler {
	return &OrderHandler{
		registry:   registry,
		scheduler:  scheduler,
		sellerRepo: sellerRepo,
	}
}

// Create handles POST /api/v1/orders. The order total is split across
// the seller's configured shares; retrying the same open is a no-op.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	seller, err := h.currentSeller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	invoices, err := service.ComputeSplit(req.OrderID, req.TotalAmount, seller.Pubkey, seller.V4VShares, time.Now().UTC())
	if err != nil {
		response.Error(c, err)
		return
	}
	applyPaymentRequests(invoices, req.PaymentRequests)

	created, err := h.registry.Create(c.Request.Context(), req.OrderID, invoices)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toInvoiceList(created))
}

// ListInvoices handles GET /api/v1/orders/:id/invoices.
func (h *OrderHandler) ListInvoices(c *gin.Context) {
	invoices, err := h.registry.Query(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toInvoiceList(invoices))
}

// ListIncomplete handles GET /api/v1/orders/:id/incomplete.
func (h *OrderHandler) ListIncomplete(c *gin.Context) {
	invoices, err := h.registry.ListIncomplete(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, toInvoiceList(invoices))
}

// Status handles GET /api/v1/orders/:id/status.
func (h *OrderHandler) Status(c *gin.Context) {
	orderID := c.Param("id")
	status, unmet, err := h.registry.AggregateStatus(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.OrderStatusResponse{
		OrderID:      orderID,
		Status:       string(status),
		UnmetPayment: unmet,
	})
}

// Refresh handles POST /api/v1/orders/:id/refresh — an immediate
// out-of-band poll cycle, bounded by the refresh timeout.
func (h *OrderHandler) Refresh(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.scheduler.RefreshAll(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}

	status, unmet, err := h.registry.AggregateStatus(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.OrderStatusResponse{
		OrderID:      orderID,
		Status:       string(status),
		UnmetPayment: unmet,
	})
}

// Cancel handles POST /api/v1/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID := c.Param("id")
	if err := h.registry.Cancel(c.Request.Context(), orderID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.OrderStatusResponse{
		OrderID: orderID,
		Status:  string(domain.OrderStatusCancelled),
	})
}

func (h *OrderHandler) currentSeller(c *gin.Context) (*domain.Seller, error) {
	sid, exists := c.Get(middleware.CtxSellerID)
	if !exists {
		return nil, apperror.ErrInvalidToken()
	}
	sellerID, ok := sid.(uuid.UUID)
	if !ok {
		return nil, apperror.ErrInvalidToken()
	}

	seller, err := h.sellerRepo.GetByID(c.Request.Context(), sellerID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	if seller == nil {
		return nil, apperror.ErrInvalidToken()
	}
	return seller, nil
}

// applyPaymentRequests copies rail-specific payment request details
// onto the freshly split invoices, matched by recipient.
func applyPaymentRequests(invoices []*domain.Invoice, requests []dto.PaymentRequestDetails) {
	byRecipient := make(map[string]dto.PaymentRequestDetails, len(requests))
	for _, r := range requests {
		byRecipient[r.RecipientPubkey] = r
	}

	for _, inv := range invoices {
		r, ok := byRecipient[inv.RecipientPubkey]
		if !ok {
			continue
		}
		inv.Bolt11 = r.Bolt11
		inv.LightningAddress = r.LightningAddress
		inv.IsZap = r.IsZap
		inv.BitcoinAddress = r.BitcoinAddress
		inv.PaymentURI = r.PaymentURI
		if r.ExpiresAt != nil {
			t := time.Unix(*r.ExpiresAt, 0).UTC()
			inv.ExpiresAt = &t
		}
	}
}

func toInvoiceList(invoices []domain.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, dto.ToInvoiceResponse(&invoices[i]))
	}
	return out
}
