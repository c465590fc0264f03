package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nostr-market-payments/internal/adapter/http/dto"
	"nostr-market-payments/internal/adapter/http/middleware"
	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/internal/core/ports/mocks"
	"nostr-market-payments/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	sellerID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Username: "alice",
		Password: "password123",
		Pubkey:   "npub1alice",
		V4VShares: []domain.V4VShare{
			{RecipientPubkey: "npub1dev", Percentage: 5},
		},
	}).Return(&domain.Seller{
		ID:     sellerID,
		Pubkey: "npub1alice",
	}, nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "alice",
		Password: "password123",
		Pubkey:   "npub1alice",
		V4VShares: []dto.V4VShare{
			{RecipientPubkey: "npub1dev", Percentage: 5},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, sellerID.String(), data["seller_id"])
	assert.Equal(t, "npub1alice", data["pubkey"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_UsernameTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrUsernameExists())

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "taken",
		Password: "password123",
		Pubkey:   "npub1taken",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "alice", "password123").Return("jwt-token-123", expiry, nil)

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "alice",
		Password: "password123",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "badpassword").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	body, _ := json.Marshal(dto.LoginRequest{
		Username: "bad",
		Password: "badpassword",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Order Handler Tests ---

func TestCreateOrder_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockScheduler := mocks.NewMockSyncScheduler(ctrl)
	mockSellers := mocks.NewMockSellerRepository(ctrl)
	h := NewOrderHandler(mockRegistry, mockScheduler, mockSellers)

	sellerID := uuid.New()
	mockSellers.EXPECT().GetByID(gomock.Any(), sellerID).Return(&domain.Seller{
		ID:     sellerID,
		Pubkey: "npub1seller",
		V4VShares: []domain.V4VShare{
			{RecipientPubkey: "npub1dev", Percentage: 10},
		},
	}, nil)

	mockRegistry.EXPECT().Create(gomock.Any(), "order-001", gomock.Any()).DoAndReturn(
		func(_ context.Context, orderID string, invoices []*domain.Invoice) ([]domain.Invoice, error) {
			require.Len(t, invoices, 2)
			// Merchant remainder plus the 10% share.
			assert.Equal(t, int64(900), invoices[0].Amount)
			assert.Equal(t, int64(100), invoices[1].Amount)
			assert.Equal(t, "lnbc900...", invoices[0].Bolt11)
			out := make([]domain.Invoice, 0, len(invoices))
			for _, inv := range invoices {
				out = append(out, *inv)
			}
			return out, nil
		})

	body, _ := json.Marshal(dto.CreateOrderRequest{
		OrderID:     "order-001",
		TotalAmount: 1000,
		PaymentRequests: []dto.PaymentRequestDetails{
			{RecipientPubkey: "npub1seller", Bolt11: "lnbc900..."},
		},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxSellerID, sellerID)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestCreateOrder_MissingSellerID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockScheduler := mocks.NewMockSyncScheduler(ctrl)
	mockSellers := mocks.NewMockSellerRepository(ctrl)
	h := NewOrderHandler(mockRegistry, mockScheduler, mockSellers)

	body, _ := json.Marshal(dto.CreateOrderRequest{
		OrderID:     "order-001",
		TotalAmount: 1000,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrder_DuplicateSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockScheduler := mocks.NewMockSyncScheduler(ctrl)
	mockSellers := mocks.NewMockSellerRepository(ctrl)
	h := NewOrderHandler(mockRegistry, mockScheduler, mockSellers)

	sellerID := uuid.New()
	mockSellers.EXPECT().GetByID(gomock.Any(), sellerID).Return(&domain.Seller{
		ID:     sellerID,
		Pubkey: "npub1seller",
	}, nil)
	mockRegistry.EXPECT().Create(gomock.Any(), "order-001", gomock.Any()).Return(nil, apperror.ErrDuplicateInvoiceSet())

	body, _ := json.Marshal(dto.CreateOrderRequest{
		OrderID:     "order-001",
		TotalAmount: 1000,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(middleware.CtxSellerID, sellerID)

	h.Create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestOrderStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockScheduler := mocks.NewMockSyncScheduler(ctrl)
	mockSellers := mocks.NewMockSellerRepository(ctrl)
	h := NewOrderHandler(mockRegistry, mockScheduler, mockSellers)

	mockRegistry.EXPECT().AggregateStatus(gomock.Any(), "order-001").Return(domain.OrderStatusConfirmed, true, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "order-001"}}

	h.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "order-001", data["order_id"])
	assert.Equal(t, "CONFIRMED", data["status"])
	assert.Equal(t, true, data["unmet_payment"])
}

func TestOrderRefresh_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockScheduler := mocks.NewMockSyncScheduler(ctrl)
	mockSellers := mocks.NewMockSellerRepository(ctrl)
	h := NewOrderHandler(mockRegistry, mockScheduler, mockSellers)

	mockScheduler.EXPECT().RefreshAll(gomock.Any(), "order-001").Return(nil)
	mockRegistry.EXPECT().AggregateStatus(gomock.Any(), "order-001").Return(domain.OrderStatusPaymentReceived, false, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "order-001"}}

	h.Refresh(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "PAYMENT_RECEIVED", data["status"])
}

func TestOrderCancel_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockScheduler := mocks.NewMockSyncScheduler(ctrl)
	mockSellers := mocks.NewMockSellerRepository(ctrl)
	h := NewOrderHandler(mockRegistry, mockScheduler, mockSellers)

	mockRegistry.EXPECT().Cancel(gomock.Any(), "order-001").Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "order-001"}}

	h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "CANCELLED", data["status"])
}

// --- Invoice Handler Tests ---

func TestSettle_WithPreimageProof(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, nil)

	invoiceID := uuid.New()
	mockReconciler.EXPECT().Reconcile(gomock.Any(), invoiceID, domain.NewPreimageProof("abc123")).Return(&domain.Invoice{
		ID:        invoiceID,
		OrderID:   "order-001",
		Amount:    900,
		Type:      domain.InvoiceTypeMerchant,
		Status:    domain.InvoiceStatusPaid,
		Receipt:   "abc123",
		CreatedAt: time.Now(),
	}, nil)

	body, _ := json.Marshal(dto.SettleRequest{
		Proof: &dto.SettleProof{Kind: "preimage", Preimage: "abc123"},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}

	h.Settle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "paid", data["status"])
	assert.Equal(t, "abc123", data["receipt"])
}

func TestSettle_ProofMissingPreimage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, nil)

	body, _ := json.Marshal(dto.SettleRequest{
		Proof: &dto.SettleProof{Kind: "preimage"},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	h.Settle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettle_ViaInferredRail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	mockRail := mocks.NewMockPaymentRail(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, map[string]ports.PaymentRail{
		RailLightning: mockRail,
	})

	invoiceID := uuid.New()
	invoice := &domain.Invoice{
		ID:      invoiceID,
		OrderID: "order-001",
		Amount:  900,
		Bolt11:  "lnbc900...",
		Status:  domain.InvoiceStatusPending,
	}
	proof := domain.NewPreimageProof("deadbeef")

	mockInvoices.EXPECT().GetByID(gomock.Any(), invoiceID).Return(invoice, nil)
	mockRail.EXPECT().Settle(gomock.Any(), invoice).Return(proof, nil)
	mockReconciler.EXPECT().Reconcile(gomock.Any(), invoiceID, proof).Return(&domain.Invoice{
		ID:        invoiceID,
		OrderID:   "order-001",
		Amount:    900,
		Status:    domain.InvoiceStatusPaid,
		Receipt:   "deadbeef",
		CreatedAt: time.Now(),
	}, nil)

	// No proof and no rail named: the rail is inferred from the invoice.
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}

	h.Settle(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "paid", data["status"])
}

func TestSettle_RailFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	mockRail := mocks.NewMockPaymentRail(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, map[string]ports.PaymentRail{
		RailOnChain: mockRail,
	})

	invoiceID := uuid.New()
	invoice := &domain.Invoice{
		ID:             invoiceID,
		BitcoinAddress: "bc1q...",
		Status:         domain.InvoiceStatusPending,
	}

	mockInvoices.EXPECT().GetByID(gomock.Any(), invoiceID).Return(invoice, nil)
	mockRail.EXPECT().Settle(gomock.Any(), invoice).Return(domain.PaymentProof{}, errors.New("watcher timeout"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}

	h.Settle(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSettle_InvoiceNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, nil)

	invoiceID := uuid.New()
	mockInvoices.EXPECT().GetByID(gomock.Any(), invoiceID).Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}

	h.Settle(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettle_InvalidInvoiceID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.Settle(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSkip_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, nil)

	invoiceID := uuid.New()
	mockRegistry.EXPECT().UpdateStatus(gomock.Any(), invoiceID, domain.InvoiceStatusSkipped, domain.PaymentProof{}).Return(&domain.Invoice{
		ID:        invoiceID,
		OrderID:   "order-001",
		Status:    domain.InvoiceStatusSkipped,
		CreatedAt: time.Now(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}

	h.Skip(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "skipped", data["status"])
}

func TestSkip_TerminalInvoice(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockInvoices := mocks.NewMockInvoiceRepository(ctrl)
	mockRegistry := mocks.NewMockInvoiceRegistry(ctrl)
	mockReconciler := mocks.NewMockProofReconciler(ctrl)
	h := NewInvoiceHandler(mockInvoices, mockRegistry, mockReconciler, nil)

	invoiceID := uuid.New()
	mockRegistry.EXPECT().UpdateStatus(gomock.Any(), invoiceID, domain.InvoiceStatusSkipped, domain.PaymentProof{}).
		Return(nil, apperror.ErrInvalidTransition("paid", "skipped"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: invoiceID.String()}}

	h.Skip(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

// --- Wallet Handler Tests ---

func TestWalletReceive_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockProofLedger(ctrl)
	h := NewWalletHandler(mockLedger)

	mockLedger.EXPECT().Receive(gomock.Any(), "cashuAeyJ0b2tlbiI6...").Return(int64(2100), nil)

	body, _ := json.Marshal(dto.WalletReceiveRequest{Token: "cashuAeyJ0b2tlbiI6..."})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(2100), data["amount"])
}

func TestWalletReceive_AlreadyAbsorbed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockProofLedger(ctrl)
	h := NewWalletHandler(mockLedger)

	// Idempotent redelivery: success with amount zero, not an error.
	mockLedger.EXPECT().Receive(gomock.Any(), "cashuAdup").Return(int64(0), nil)

	body, _ := json.Marshal(dto.WalletReceiveRequest{Token: "cashuAdup"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Receive(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["amount"])
}

func TestWalletReceive_MintUnreachable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockProofLedger(ctrl)
	h := NewWalletHandler(mockLedger)

	mockLedger.EXPECT().Receive(gomock.Any(), gomock.Any()).Return(int64(0), apperror.ErrMintUnreachable(errors.New("dial tcp: timeout")))

	body, _ := json.Marshal(dto.WalletReceiveRequest{Token: "cashuAtoken"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Receive(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "MINT_001", resp["error_code"])
	assert.Equal(t, true, resp["retryable"])
}

func TestWalletSend_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockProofLedger(ctrl)
	h := NewWalletHandler(mockLedger)

	mockLedger.EXPECT().Send(gomock.Any(), int64(500), "https://mint.example.com").Return("cashuAnewtoken", nil)

	body, _ := json.Marshal(dto.WalletSendRequest{
		Amount:  500,
		MintURL: "https://mint.example.com",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Send(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "cashuAnewtoken", data["token"])
}

func TestWalletSend_InsufficientProofs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockProofLedger(ctrl)
	h := NewWalletHandler(mockLedger)

	mockLedger.EXPECT().Send(gomock.Any(), int64(999999), "https://mint.example.com").Return("", apperror.ErrInsufficientProofs())

	body, _ := json.Marshal(dto.WalletSendRequest{
		Amount:  999999,
		MintURL: "https://mint.example.com",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Send(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestWalletBalance_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockProofLedger(ctrl)
	h := NewWalletHandler(mockLedger)

	mockLedger.EXPECT().Balance(gomock.Any(), "https://mint.example.com").Return(int64(4200), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?mint_url=https://mint.example.com", nil)

	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(4200), data["balance"])
}

func TestWalletBalance_MissingMintURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockProofLedger(ctrl)
	h := NewWalletHandler(mockLedger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.Balance(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Dashboard Handler Tests ---

func TestGetStats_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	mockReporting.EXPECT().GetDashboardStats(gomock.Any(), "npub1seller").Return(&ports.InvoiceStats{
		TotalInvoices:   12,
		Paid:            8,
		Pending:         2,
		Expired:         1,
		Skipped:         1,
		SatsCollected:   84000,
		SatsOutstanding: 21000,
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(middleware.CtxPubkey, "npub1seller")

	h.GetStats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(12), data["total_invoices"])
	assert.Equal(t, float64(84000), data["sats_collected"])
}

func TestGetStats_MissingPubkey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetStats(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetAuditTrail_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	invoiceID := uuid.New()
	mockReporting.EXPECT().GetAuditTrail(gomock.Any(), "order-001").Return([]domain.AuditEntry{
		{
			ID:        uuid.New(),
			OrderID:   "order-001",
			InvoiceID: &invoiceID,
			Action:    domain.AuditActionStatusTransition,
			ProofKind: domain.ProofKindPreimage,
			CreatedAt: time.Now(),
		},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "order-001"}}

	h.GetAuditTrail(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.Equal(t, "order-001", entry["order_id"])
	assert.Equal(t, invoiceID.String(), entry["invoice_id"])
	assert.Equal(t, "STATUS_TRANSITION", entry["action"])
}

// --- Health Check Test ---

func TestHealthCheck_NoCheckers(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
