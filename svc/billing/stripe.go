package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// metadataEmailKey carries the buyer email on subscriptions created through
// Checkout, so subscription events usually resolve without a customer lookup.
const metadataEmailKey = "user_email"

// StripeProvider implements Provider on top of stripe-go.
type StripeProvider struct {
	client        *client.API
	webhookSecret string
}

// StripeOption configures a StripeProvider.
type StripeOption func(*stripeOptions)

type stripeOptions struct {
	backends *stripe.Backends
}

// WithBackends overrides the Stripe API backends, e.g. to point the client
// at a local test server.
func WithBackends(b *stripe.Backends) StripeOption {
	return func(o *stripeOptions) { o.backends = b }
}

// NewStripeProvider creates a Stripe provider. The secret key is only
// needed for API calls; webhook verification needs just the webhook secret.
func NewStripeProvider(cfg Config, opts ...StripeOption) *StripeProvider {
	var o stripeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &StripeProvider{
		client:        client.New(cfg.SecretKey, o.backends),
		webhookSecret: cfg.WebhookSecret,
	}
}

// CreateCheckoutSession creates a hosted checkout session with one line item.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req SessionParams) (CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(req.Mode)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(req.PriceID), Quantity: stripe.Int64(1)},
		},
		CustomerEmail: stripe.String(req.Email),
		SuccessURL:    stripe.String(req.SuccessURL),
		CancelURL:     stripe.String(req.CancelURL),
	}
	if req.Mode == ModeSubscription {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{metadataEmailKey: req.Email},
		}
	}
	params.Context = ctx

	s, err := p.client.CheckoutSessions.New(params)
	if err != nil {
		return CheckoutSession{}, providerError(err)
	}
	if s.URL == "" {
		return CheckoutSession{}, ErrNoCheckoutURL
	}
	return CheckoutSession{SessionID: s.ID, URL: s.URL}, nil
}

// CustomerEmail retrieves the customer and returns its email.
func (p *StripeProvider) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", ErrEmailUnresolved
	}
	params := &stripe.CustomerParams{}
	params.Context = ctx

	c, err := p.client.Customers.Get(customerID, params)
	if err != nil {
		return "", providerError(err)
	}
	if c.Deleted || c.Email == "" {
		return "", fmt.Errorf("%w: customer %s", ErrEmailUnresolved, customerID)
	}
	return c.Email, nil
}

// ParseWebhook verifies the stripe-signature header and decodes the event.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (Event, error) {
	if signature == "" {
		return nil, ErrMissingSignature
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, errors.Join(ErrWebhookVerificationFailed, err)
	}
	return decodeEvent(ev)
}

func decodeEvent(ev stripe.Event) (Event, error) {
	meta := EventMeta{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data == nil {
		return nil, fmt.Errorf("%w: %s has no data", ErrMalformedEvent, meta.Type)
	}

	switch meta.Type {
	case EventSubscriptionCreated, EventSubscriptionUpdated:
		var sub stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return nil, errors.Join(ErrMalformedEvent, err)
		}
		out := SubscriptionChanged{
			EventMeta:      meta,
			Created:        meta.Type == EventSubscriptionCreated,
			SubscriptionID: sub.ID,
			Email:          sub.Metadata[metadataEmailKey],
			PeriodStart:    unixTime(sub.CurrentPeriodStart),
			PeriodEnd:      unixTime(sub.CurrentPeriodEnd),
		}
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
			if out.Email == "" {
				out.Email = sub.Customer.Email
			}
		}
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			out.PriceID = sub.Items.Data[0].Price.ID
		}
		return out, nil

	case EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return nil, errors.Join(ErrMalformedEvent, err)
		}
		out := SubscriptionDeleted{
			EventMeta:      meta,
			SubscriptionID: sub.ID,
			Email:          sub.Metadata[metadataEmailKey],
		}
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
			if out.Email == "" {
				out.Email = sub.Customer.Email
			}
		}
		return out, nil

	case EventCheckoutCompleted:
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &cs); err != nil {
			return nil, errors.Join(ErrMalformedEvent, err)
		}
		out := CheckoutCompleted{
			EventMeta:     meta,
			SessionID:     cs.ID,
			Mode:          Mode(cs.Mode),
			PaymentStatus: string(cs.PaymentStatus),
			CustomerEmail: cs.CustomerEmail,
		}
		if out.CustomerEmail == "" && cs.CustomerDetails != nil {
			out.CustomerEmail = cs.CustomerDetails.Email
		}
		if cs.Customer != nil {
			out.CustomerID = cs.Customer.ID
		}
		return out, nil

	case EventInvoiceSucceeded, EventInvoiceFailed:
		var inv stripe.Invoice
		if err := json.Unmarshal(ev.Data.Raw, &inv); err != nil {
			return nil, errors.Join(ErrMalformedEvent, err)
		}
		return InvoicePayment{
			EventMeta:     meta,
			Succeeded:     meta.Type == EventInvoiceSucceeded,
			InvoiceID:     inv.ID,
			CustomerEmail: inv.CustomerEmail,
			AmountPaid:    inv.AmountPaid,
			Currency:      string(inv.Currency),
		}, nil
	}

	return Unrecognized{EventMeta: meta}, nil
}

func providerError(err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		return &ProviderError{
			Status:  serr.HTTPStatusCode,
			Message: serr.Msg,
			Code:    string(serr.Code),
		}
	}
	return fmt.Errorf("billing: stripe request failed: %w", err)
}

func unixTime(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
