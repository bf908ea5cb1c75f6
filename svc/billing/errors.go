package billing

import (
	"errors"
	"fmt"
)

var (
	ErrMissingFields             = errors.New("billing: missing required fields")
	ErrInvalidPrice              = errors.New("billing: invalid price id or plan")
	ErrMissingAPIKey             = errors.New("billing: stripe secret key is required")
	ErrMissingWebhookSecret      = errors.New("billing: stripe webhook secret is required")
	ErrMissingSignature          = errors.New("billing: missing webhook signature")
	ErrWebhookVerificationFailed = errors.New("billing: webhook signature verification failed")
	ErrMalformedEvent            = errors.New("billing: malformed webhook event")
	ErrNoCheckoutURL             = errors.New("billing: no checkout URL returned from provider")
	ErrEmailUnresolved           = errors.New("billing: customer email could not be resolved")
	ErrMissingPrice              = errors.New("billing: subscription has no price")
)

// ProviderError is an upstream failure whose status and message are passed
// through to the caller unchanged.
type ProviderError struct {
	Status  int
	Message string
	Code    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("billing provider: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("billing provider: %s (status %d)", e.Message, e.Status)
}
