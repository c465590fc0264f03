package handler

import (
	"nostr-market-payments/internal/adapter/http/dto"
	"nostr-market-payments/internal/core/ports"
	"nostr-market-payments/pkg/apperror"
	"nostr-market-payments/pkg/response"

	"github.com/gin-gonic/gin"
)

// WalletHandler handles the ecash ledger endpoints.
type WalletHandler struct {
	ledger ports.ProofLedger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(ledger ports.ProofLedger) *WalletHandler {
	return &WalletHandler{ledger: ledger}
}

// Receive handles POST /api/v1/wallet/receive. Re-submitting a token
// already absorbed reports amount zero.
func (h *WalletHandler) Receive(c *gin.Context) {
	var req dto.WalletReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := h.ledger.Receive(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.WalletReceiveResponse{Amount: amount})
}

// Send handles POST /api/v1/wallet/send.
func (h *WalletHandler) Send(c *gin.Context) {
	var req dto.WalletSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	token, err := h.ledger.Send(c.Request.Context(), req.Amount, req.MintURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.WalletSendResponse{Token: token})
}

// Balance handles GET /api/v1/wallet/balance?mint_url=...
func (h *WalletHandler) Balance(c *gin.Context) {
	mintURL := c.Query("mint_url")
	if mintURL == "" {
		response.Error(c, apperror.Validation("mint_url query parameter is required"))
		return
	}

	balance, err := h.ledger.Balance(c.Request.Context(), mintURL)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.WalletBalanceResponse{MintURL: mintURL, Balance: balance})
}
