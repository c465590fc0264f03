package service

import (
	"context"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"
)

// reportingService implements ports.ReportingService.
type reportingService struct {
	invoiceRepo ports.InvoiceRepository
	auditRepo   ports.AuditRepository
}

// NewReportingService creates a new reporting service.
func NewReportingService(
	invoiceRepo ports.InvoiceRepository,
	auditRepo ports.AuditRepository,
) ports.ReportingService {
	return &reportingService{
		invoiceRepo: invoiceRepo,
		auditRepo:   auditRepo,
	}
}

// GetDashboardStats returns aggregated invoice figures for one
// recipient pubkey.
func (s *reportingService) GetDashboardStats(ctx context.Context, recipientPubkey string) (*ports.InvoiceStats, error) {
	if recipientPubkey == "" {
		return nil, apperror.Validation("recipient pubkey is required")
	}

	stats, err := s.invoiceRepo.Stats(ctx, recipientPubkey)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return stats, nil
}

// GetAuditTrail returns the settlement audit entries for one order.
func (s *reportingService) GetAuditTrail(ctx context.Context, orderID string) ([]domain.AuditEntry, error) {
	if orderID == "" {
		return nil, apperror.Validation("order id is required")
	}

	entries, err := s.auditRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return entries, nil
}
