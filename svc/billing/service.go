package billing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/pkg/metrics"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
	"github.com/yieldcanary/yieldcanary/svc/mailer"
)

// Service starts checkouts and reconciles provider events.
type Service struct {
	provider Provider
	store    entitlement.Store
	catalog  *Catalog
	mailer   mailer.Sender
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// WithMailer sets the dispatcher used for follow-up emails. Without one, no
// email is sent.
func WithMailer(m mailer.Sender) ServiceOption {
	return func(s *Service) { s.mailer = m }
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

func NewService(provider Provider, store entitlement.Store, catalog *Catalog, opts ...ServiceOption) *Service {
	s := &Service{
		provider: provider,
		store:    store,
		catalog:  catalog,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("billing"))
	return s
}

// CheckoutRequest is the client's request to buy a plan. PriceID accepts
// either a plan identifier or a raw provider price id.
type CheckoutRequest struct {
	PriceID    string `json:"priceId"`
	Email      string `json:"email"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

// Checkout creates a hosted checkout session for req.
//
// The user record is created before the provider is contacted, so the
// reconciler always finds a row to update. Provider failures come back as
// *ProviderError.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	req.PriceID = strings.TrimSpace(req.PriceID)
	req.Email = entitlement.NormalizeEmail(req.Email)
	if req.PriceID == "" || req.Email == "" || req.SuccessURL == "" || req.CancelURL == "" {
		return CheckoutSession{}, ErrMissingFields
	}

	price, known := s.catalog.Resolve(req.PriceID)
	if !known {
		s.log.WarnContext(ctx, "unknown plan identifier, using it as a price id",
			logger.PriceID(req.PriceID))
	}
	if price == "" {
		return CheckoutSession{}, fmt.Errorf("%w: %s", ErrInvalidPrice, req.PriceID)
	}
	mode := s.catalog.ModeFor(price)

	if _, err := s.store.EnsureExists(ctx, req.Email); err != nil {
		s.countCheckout(mode, metrics.OutcomeError)
		return CheckoutSession{}, fmt.Errorf("billing: ensure user: %w", err)
	}

	session, err := s.provider.CreateCheckoutSession(ctx, SessionParams{
		PriceID:    price,
		Mode:       mode,
		Email:      req.Email,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "failed to create checkout session",
			logger.Email(req.Email), logger.PriceID(price), logger.Error(err))
		s.countCheckout(mode, metrics.OutcomeError)
		return CheckoutSession{}, err
	}

	s.log.InfoContext(ctx, "checkout session created",
		logger.Email(req.Email), logger.PriceID(price),
		slog.String("mode", string(mode)), slog.String("session_id", session.SessionID))
	s.countCheckout(mode, metrics.OutcomeOK)
	return session, nil
}

func (s *Service) countCheckout(mode Mode, outcome string) {
	if s.metrics != nil {
		s.metrics.CheckoutSessions.WithLabelValues(string(mode), outcome).Inc()
	}
}
