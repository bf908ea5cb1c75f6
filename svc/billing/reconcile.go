package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/pkg/metrics"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
	"github.com/yieldcanary/yieldcanary/svc/mailer"
)

// Action is what the reconciler did with an event.
type Action string

const (
	ActionEntitled Action = "entitled"
	ActionRevoked  Action = "revoked"
	ActionLogged   Action = "logged"
	ActionIgnored  Action = "ignored"
	ActionFailed   Action = "failed"
)

// Outcome describes how a verified event was handled. Err is set when the
// side effect failed; the event itself is still acknowledged.
type Outcome struct {
	EventID string
	Type    string
	Action  Action
	Email   string
	Tier    entitlement.Tier
	Err     error
}

// HandleWebhook verifies, decodes and applies a provider event.
//
// An error is returned only when the payload cannot be trusted or decoded;
// in that case nothing has been written. Failures after verification are
// logged, counted and reported in Outcome.Err.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (Outcome, error) {
	ev, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		s.log.WarnContext(ctx, "rejected webhook", logger.Error(err))
		s.countEvent("invalid", metrics.OutcomeError)
		return Outcome{}, err
	}
	return s.Apply(ctx, ev), nil
}

// Apply runs the entitlement transition for an already verified event.
func (s *Service) Apply(ctx context.Context, ev Event) Outcome {
	meta := ev.Meta()
	log := s.log.With(logger.EventID(meta.ID), logger.EventType(meta.Type))

	var out Outcome
	switch e := ev.(type) {
	case SubscriptionChanged:
		out = s.applySubscriptionChanged(ctx, log, e)
	case SubscriptionDeleted:
		out = s.applySubscriptionDeleted(ctx, log, e)
	case CheckoutCompleted:
		out = s.applyCheckoutCompleted(ctx, log, e)
	case InvoicePayment:
		if e.Succeeded {
			log.InfoContext(ctx, "invoice payment succeeded",
				logger.Email(e.CustomerEmail), slog.Int64("amount_paid", e.AmountPaid))
		} else {
			log.WarnContext(ctx, "invoice payment failed", logger.Email(e.CustomerEmail))
		}
		out = Outcome{Action: ActionLogged, Email: e.CustomerEmail}
	default:
		log.InfoContext(ctx, "unhandled webhook event")
		out = Outcome{Action: ActionIgnored}
	}
	out.EventID, out.Type = meta.ID, meta.Type

	switch {
	case out.Err != nil:
		out.Action = ActionFailed
		log.ErrorContext(ctx, "webhook side effect failed", logger.Error(out.Err))
		s.countEvent(meta.Type, metrics.OutcomeError)
	case out.Action == ActionIgnored:
		s.countEvent(meta.Type, metrics.OutcomeIgnored)
	default:
		s.countEvent(meta.Type, metrics.OutcomeOK)
	}
	return out
}

func (s *Service) applySubscriptionChanged(ctx context.Context, log *slog.Logger, e SubscriptionChanged) Outcome {
	email, err := s.resolveEmail(ctx, e.Email, e.CustomerID)
	if err != nil {
		return Outcome{Err: err}
	}
	if e.PriceID == "" {
		return Outcome{Email: email, Err: ErrMissingPrice}
	}

	tier := s.TierFor(ctx, e.PriceID)
	prior, err := s.store.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, entitlement.ErrNotFound) {
		return Outcome{Email: email, Err: err}
	}

	next := entitlement.Entitled(email, tier, timePtr(e.PeriodStart), timePtr(e.PeriodEnd))
	next.StripeCustomerID = e.CustomerID
	if err := s.store.Upsert(ctx, next); err != nil {
		return Outcome{Email: email, Tier: tier, Err: err}
	}
	log.InfoContext(ctx, "subscription entitlement applied",
		logger.Email(email), logger.Tier(string(tier)), logger.PriceID(e.PriceID))

	data := map[string]string{"tier": string(tier)}
	switch {
	case e.Created:
		s.notify(ctx, email, mailer.TemplatePaymentReceipt, data)
	case !prior.IsPaid || prior.Tier != tier:
		s.notify(ctx, email, mailer.TemplateAccessUpgraded, data)
	}
	return Outcome{Action: ActionEntitled, Email: email, Tier: tier}
}

func (s *Service) applySubscriptionDeleted(ctx context.Context, log *slog.Logger, e SubscriptionDeleted) Outcome {
	email, err := s.resolveEmail(ctx, e.Email, e.CustomerID)
	if err != nil {
		return Outcome{Err: err}
	}

	if err := s.store.Revoke(ctx, email); err != nil {
		if errors.Is(err, entitlement.ErrNotFound) {
			log.WarnContext(ctx, "subscription deleted for unknown user", logger.Email(email))
			return Outcome{Action: ActionIgnored, Email: email}
		}
		return Outcome{Email: email, Err: err}
	}
	log.InfoContext(ctx, "subscription entitlement revoked", logger.Email(email))

	s.notify(ctx, email, mailer.TemplateAccessExpired, nil)
	return Outcome{Action: ActionRevoked, Email: email, Tier: entitlement.TierFree}
}

func (s *Service) applyCheckoutCompleted(ctx context.Context, log *slog.Logger, e CheckoutCompleted) Outcome {
	if e.Mode != ModePayment || e.PaymentStatus != PaymentStatusPaid || e.CustomerEmail == "" {
		log.InfoContext(ctx, "checkout completed, nothing to apply",
			slog.String("mode", string(e.Mode)), slog.String("payment_status", e.PaymentStatus))
		return Outcome{Action: ActionIgnored, Email: e.CustomerEmail}
	}

	email := entitlement.NormalizeEmail(e.CustomerEmail)
	next := entitlement.Entitled(email, entitlement.TierAdvanced, nil, nil)
	next.StripeCustomerID = e.CustomerID
	if err := s.store.Upsert(ctx, next); err != nil {
		return Outcome{Email: email, Err: err}
	}
	log.InfoContext(ctx, "one-time payment entitlement applied",
		logger.Email(email), logger.Tier(string(entitlement.TierAdvanced)))

	s.notify(ctx, email, mailer.TemplatePaymentReceipt, map[string]string{"tier": string(entitlement.TierAdvanced)})
	return Outcome{Action: ActionEntitled, Email: email, Tier: entitlement.TierAdvanced}
}

// TierFor maps a subscription price to a tier. Unmapped prices grant basic
// and are surfaced as a warning and a metric.
func (s *Service) TierFor(ctx context.Context, priceID string) entitlement.Tier {
	tier, ok := s.catalog.TierFor(priceID)
	if !ok {
		s.log.WarnContext(ctx, "unmapped price, granting basic tier", logger.PriceID(priceID))
		if s.metrics != nil {
			s.metrics.UnmappedPrices.Inc()
		}
	}
	return tier
}

func (s *Service) resolveEmail(ctx context.Context, email, customerID string) (string, error) {
	if email != "" {
		return entitlement.NormalizeEmail(email), nil
	}
	if customerID == "" {
		return "", ErrEmailUnresolved
	}
	email, err := s.provider.CustomerEmail(ctx, customerID)
	if err != nil {
		return "", fmt.Errorf("billing: lookup customer %s: %w", customerID, err)
	}
	return entitlement.NormalizeEmail(email), nil
}

// notify sends a follow-up email. Delivery problems are already logged by
// the dispatcher and never affect the entitlement outcome.
func (s *Service) notify(ctx context.Context, to, templateID string, data map[string]string) {
	if s.mailer == nil {
		return
	}
	_ = s.mailer.Send(ctx, to, templateID, data)
}

func (s *Service) countEvent(eventType, outcome string) {
	if s.metrics != nil {
		s.metrics.WebhookEvents.WithLabelValues(eventType, outcome).Inc()
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
