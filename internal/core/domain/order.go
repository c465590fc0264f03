package domain

import "time"

// OrderStatus is the order-level aggregate over the invoice set.
// States from CONFIRMED onward are driven by the external order
// workflow, not by the aggregator.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusPaymentRequested OrderStatus = "PAYMENT_REQUESTED"
	OrderStatusPaymentReceived  OrderStatus = "PAYMENT_RECEIVED"
	OrderStatusConfirmed        OrderStatus = "CONFIRMED"
	OrderStatusProcessing       OrderStatus = "PROCESSING"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusCompleted        OrderStatus = "COMPLETED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// AggregateOrderStatus maps the current invoice set to one order-level
// status. Pure and recomputable from scratch; it is never mutated
// incrementally, so cached and true status cannot drift.
//
// cancelled reflects explicit external cancellation and overrides the
// invoice set entirely.
func AggregateOrderStatus(invoices []Invoice, cancelled bool, now time.Time) OrderStatus {
	if cancelled {
		return OrderStatusCancelled
	}
	if len(invoices) == 0 {
		return OrderStatusPending
	}

	allSettled := true
	anyPaid := false
	anyRequest := false
	for _, inv := range invoices {
		switch inv.Status {
		case InvoiceStatusPaid:
			anyPaid = true
		case InvoiceStatusSkipped:
			// satisfied without payment
		default:
			allSettled = false
		}
		if inv.Status == InvoiceStatusPending && inv.HasPaymentRequest(now) {
			anyRequest = true
		}
	}

	if allSettled {
		return OrderStatusPaymentReceived
	}
	if anyPaid || anyRequest {
		return OrderStatusPaymentRequested
	}
	return OrderStatusPending
}

// HasUnmetPayment reports the manual-reconciliation condition: an
// invoice expired without a proof, so the order cannot reach
// PAYMENT_RECEIVED on its own. The aggregator never auto-cancels on
// this; it only surfaces it.
func HasUnmetPayment(invoices []Invoice) bool {
	for _, inv := range invoices {
		if inv.Status == InvoiceStatusExpired {
			return true
		}
	}
	return false
}
