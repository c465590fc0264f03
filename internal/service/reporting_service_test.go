package service

import (
	"context"
	"testing"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestReportingService_GetDashboardStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	invoiceRepo := mocks.NewMockInvoiceRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewReportingService(invoiceRepo, auditRepo)

	ctx := context.Background()
	invoiceRepo.EXPECT().Stats(ctx, "npub_m").Return(&ports.InvoiceStats{
		TotalInvoices: 10,
		Paid:          6,
		Pending:       2,
		Expired:       1,
		Skipped:       1,
		SatsCollected: 95000,
	}, nil)

	stats, err := svc.GetDashboardStats(ctx, "npub_m")
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.TotalInvoices)
	assert.Equal(t, int64(95000), stats.SatsCollected)
}

func TestReportingService_GetDashboardStats_MissingPubkey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewReportingService(mocks.NewMockInvoiceRepository(ctrl), mocks.NewMockAuditRepository(ctrl))

	_, err := svc.GetDashboardStats(context.Background(), "")
	assertAppError(t, err, "VAL_001")
}

func TestReportingService_GetAuditTrail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	invoiceRepo := mocks.NewMockInvoiceRepository(ctrl)
	auditRepo := mocks.NewMockAuditRepository(ctrl)
	svc := NewReportingService(invoiceRepo, auditRepo)

	ctx := context.Background()
	invoiceID := uuid.New()
	auditRepo.EXPECT().ListByOrder(ctx, "order-1").Return([]domain.AuditEntry{
		{
			ID:        uuid.New(),
			OrderID:   "order-1",
			InvoiceID: &invoiceID,
			Action:    domain.AuditActionStatusTransition,
			ProofKind: domain.ProofKindPreimage,
			Detail:    "pending -> paid",
			CreatedAt: time.Now().UTC(),
		},
	}, nil)

	entries, err := svc.GetAuditTrail(ctx, "order-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditActionStatusTransition, entries[0].Action)
}
