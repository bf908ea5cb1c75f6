package billing

import "time"

// Event types understood by the reconciler.
const (
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
	EventCheckoutCompleted   = "checkout.session.completed"
	EventInvoiceSucceeded    = "invoice.payment_succeeded"
	EventInvoiceFailed       = "invoice.payment_failed"
)

// Event is a verified, decoded webhook event. The concrete type is one of
// SubscriptionChanged, SubscriptionDeleted, CheckoutCompleted,
// InvoicePayment or Unrecognized.
type Event interface {
	Meta() EventMeta
}

// EventMeta is shared by every event variant.
type EventMeta struct {
	ID   string
	Type string
}

func (m EventMeta) Meta() EventMeta { return m }

// SubscriptionChanged covers subscription creation and updates. Email is
// empty when the payload only carries a customer id.
type SubscriptionChanged struct {
	EventMeta
	Created        bool
	SubscriptionID string
	CustomerID     string
	Email          string
	PriceID        string
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// SubscriptionDeleted is a cancelled subscription.
type SubscriptionDeleted struct {
	EventMeta
	SubscriptionID string
	CustomerID     string
	Email          string
}

// CheckoutCompleted is a finished hosted checkout session.
type CheckoutCompleted struct {
	EventMeta
	SessionID     string
	Mode          Mode
	PaymentStatus string
	CustomerEmail string
	CustomerID    string
}

// InvoicePayment is an invoice payment attempt.
type InvoicePayment struct {
	EventMeta
	Succeeded     bool
	InvoiceID     string
	CustomerEmail string
	AmountPaid    int64
	Currency      string
}

// Unrecognized is any verified event the reconciler does not act on.
type Unrecognized struct {
	EventMeta
}

// PaymentStatusPaid is the checkout payment status that grants access.
const PaymentStatusPaid = "paid"
