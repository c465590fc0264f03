package handler

import (
	"time"

	"nostr-market-payments/internal/adapter/http/dto"
	"nostr-market-payments/internal/adapter/http/middleware"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"
	"nostr-market-payments/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles seller dashboard endpoints.
type DashboardHandler struct {
	reportingSvc ports.ReportingService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingSvc: reportingSvc}
}

// GetStats handles GET /api/v1/dashboard/stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	pubkey := c.GetString(middleware.CtxPubkey)
	if pubkey == "" {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	stats, err := h.reportingSvc.GetDashboardStats(c.Request.Context(), pubkey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.DashboardStatsResponse{
		TotalInvoices:   stats.TotalInvoices,
		Paid:            stats.Paid,
		Pending:         stats.Pending,
		Expired:         stats.Expired,
		Skipped:         stats.Skipped,
		SatsCollected:   stats.SatsCollected,
		SatsOutstanding: stats.SatsOutstanding,
	})
}

// GetAuditTrail handles GET /api/v1/dashboard/orders/:id/audit.
func (h *DashboardHandler) GetAuditTrail(c *gin.Context) {
	entries, err := h.reportingSvc.GetAuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp := dto.AuditEntryResponse{
			ID:        e.ID.String(),
			OrderID:   e.OrderID,
			Action:    string(e.Action),
			ProofKind: string(e.ProofKind),
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
		if e.InvoiceID != nil {
			resp.InvoiceID = e.InvoiceID.String()
		}
		out = append(out, resp)
	}
	response.OK(c, out)
}
