package service

import (
	"fmt"
	"math"
	"time"

	"nostr-market-payments/internal/core/domain"
	"nostr-market-payments/pkg/apperror"

	"github.com/google/uuid"
)

// ComputeSplit derives the invoice set for one order from the order
// total and the seller's value-for-value shares. Each share amount is
// floored to whole sats and the residue goes to the merchant invoice,
// so the amounts always sum exactly to the total and the merchant
// absorbs rounding, never the recipients.
//
// The merchant invoice is first in the returned slice, followed by the
// v4v invoices in share order. A share whose floored amount is zero
// produces no invoice; its sats stay with the merchant.
func ComputeSplit(orderID string, total int64, merchantPubkey string, shares []domain.V4VShare, now time.Time) ([]*domain.Invoice, error) {
	if orderID == "" {
		return nil, apperror.ErrInvalidSplitConfig("order id is required")
	}
	if total <= 0 {
		return nil, apperror.ErrInvalidSplitConfig("order total must be positive")
	}
	if merchantPubkey == "" {
		return nil, apperror.ErrInvalidSplitConfig("merchant pubkey is required")
	}

	var percentSum float64
	seen := make(map[string]struct{}, len(shares)+1)
	seen[merchantPubkey] = struct{}{}
	for _, share := range shares {
		if share.RecipientPubkey == "" {
			return nil, apperror.ErrInvalidSplitConfig("share recipient pubkey is required")
		}
		if _, dup := seen[share.RecipientPubkey]; dup {
			return nil, apperror.ErrInvalidSplitConfig(fmt.Sprintf("duplicate recipient %s", share.RecipientPubkey))
		}
		seen[share.RecipientPubkey] = struct{}{}
		if share.Percentage <= 0 || share.Percentage >= 100 {
			return nil, apperror.ErrInvalidSplitConfig(fmt.Sprintf("share percentage %.4f out of range (0, 100)", share.Percentage))
		}
		percentSum += share.Percentage
	}
	if percentSum >= 100 {
		return nil, apperror.ErrInvalidSplitConfig(fmt.Sprintf("share percentages sum to %.4f, must stay below 100", percentSum))
	}

	invoices := make([]*domain.Invoice, 0, len(shares)+1)

	// Merchant invoice placeholder; amount fixed after the v4v floors.
	merchant := &domain.Invoice{
		ID:              uuid.New(),
		OrderID:         orderID,
		Type:            domain.InvoiceTypeMerchant,
		RecipientPubkey: merchantPubkey,
		Status:          domain.InvoiceStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	invoices = append(invoices, merchant)

	remainder := total
	for _, share := range shares {
		amount := int64(math.Floor(float64(total) * share.Percentage / 100))
		if amount == 0 {
			continue
		}
		remainder -= amount
		invoices = append(invoices, &domain.Invoice{
			ID:              uuid.New(),
			OrderID:         orderID,
			Amount:          amount,
			Type:            domain.InvoiceTypeV4V,
			RecipientPubkey: share.RecipientPubkey,
			V4VSplitPercent: share.Percentage,
			Status:          domain.InvoiceStatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	merchant.Amount = remainder

	return invoices, nil
}
