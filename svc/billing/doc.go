// Package billing starts Stripe checkout sessions and reconciles Stripe
// webhook events into entitlement records.
//
// The package has two entry points on Service:
//
//   - Checkout resolves a plan identifier to a price, makes sure a user
//     record exists and asks the provider for a hosted checkout session.
//   - HandleWebhook verifies and decodes a provider event and applies the
//     matching entitlement transition.
//
// Every transition is a full overwrite keyed by email, so redelivered events
// converge on the same record. Provider specifics live behind the Provider
// interface; StripeProvider is the production implementation.
//
// Basic usage:
//
//	provider := billing.NewStripeProvider(cfg)
//	svc := billing.NewService(provider, store, billing.NewCatalog(cfg),
//		billing.WithMailer(dispatcher),
//		billing.WithLogger(log),
//	)
//	session, err := svc.Checkout(ctx, billing.CheckoutRequest{...})
package billing
