package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{InvoiceStatusPending, InvoiceStatusPaid, true},
		{InvoiceStatusPending, InvoiceStatusExpired, true},
		{InvoiceStatusPending, InvoiceStatusSkipped, true},
		{InvoiceStatusPending, InvoiceStatusPending, false},
		{InvoiceStatusPaid, InvoiceStatusPending, false},
		{InvoiceStatusPaid, InvoiceStatusExpired, false},
		{InvoiceStatusPaid, InvoiceStatusSkipped, false},
		{InvoiceStatusExpired, InvoiceStatusPaid, false},
		{InvoiceStatusSkipped, InvoiceStatusPaid, false},
		{InvoiceStatusExpired, InvoiceStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestInvoiceStatus_IsTerminal(t *testing.T) {
	assert.False(t, InvoiceStatusPending.IsTerminal())
	assert.True(t, InvoiceStatusPaid.IsTerminal())
	assert.True(t, InvoiceStatusExpired.IsTerminal())
	assert.True(t, InvoiceStatusSkipped.IsTerminal())
}

func TestInvoice_HasPaymentRequest(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	t.Run("no request issued", func(t *testing.T) {
		inv := Invoice{Status: InvoiceStatusPending}
		assert.False(t, inv.HasPaymentRequest(now))
	})

	t.Run("outstanding bolt11", func(t *testing.T) {
		inv := Invoice{Status: InvoiceStatusPending, Bolt11: "lnbc500n1..."}
		assert.True(t, inv.HasPaymentRequest(now))
	})

	t.Run("outstanding onchain address", func(t *testing.T) {
		inv := Invoice{Status: InvoiceStatusPending, BitcoinAddress: "bc1q...", ExpiresAt: &future}
		assert.True(t, inv.HasPaymentRequest(now))
	})

	t.Run("lapsed request", func(t *testing.T) {
		inv := Invoice{Status: InvoiceStatusPending, Bolt11: "lnbc500n1...", ExpiresAt: &past}
		assert.False(t, inv.HasPaymentRequest(now))
	})
}

func TestInvoice_IsExpired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)

	pending := Invoice{Status: InvoiceStatusPending, ExpiresAt: &past}
	assert.True(t, pending.IsExpired(now))

	noExpiry := Invoice{Status: InvoiceStatusPending}
	assert.False(t, noExpiry.IsExpired(now))

	// A paid invoice never becomes expired, whatever the clock says.
	paid := Invoice{Status: InvoiceStatusPaid, ExpiresAt: &past}
	assert.False(t, paid.IsExpired(now))
}
