package billing

import "context"

// Provider is the payment provider boundary.
type Provider interface {
	// CreateCheckoutSession starts a hosted checkout for a single price.
	CreateCheckoutSession(ctx context.Context, params SessionParams) (CheckoutSession, error)

	// ParseWebhook verifies signature over the raw payload and decodes the
	// event. It never touches the network.
	ParseWebhook(payload []byte, signature string) (Event, error)

	// CustomerEmail looks up the email of a provider customer.
	CustomerEmail(ctx context.Context, customerID string) (string, error)
}

// SessionParams is a resolved checkout request.
type SessionParams struct {
	PriceID    string
	Mode       Mode
	Email      string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the hosted checkout the client is redirected to.
type CheckoutSession struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}
