// Package api is the HTTP surface of the service: checkout, the Stripe
// webhook, transactional email, the gated ETF dashboard and its exports.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/yieldcanary/yieldcanary/pkg/jwt"
	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/pkg/metrics"
	"github.com/yieldcanary/yieldcanary/svc/billing"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
	"github.com/yieldcanary/yieldcanary/svc/etf"
	"github.com/yieldcanary/yieldcanary/svc/mailer"
)

// Billing is the checkout and webhook side of svc/billing.
type Billing interface {
	Checkout(ctx context.Context, req billing.CheckoutRequest) (billing.CheckoutSession, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (billing.Outcome, error)
}

// EntitlementReader looks up the viewer's access record.
type EntitlementReader interface {
	GetByEmail(ctx context.Context, email string) (entitlement.Entitlement, error)
}

// Options wires the router's dependencies. Auth, Metrics and Health are
// optional; without Auth every request is anonymous.
type Options struct {
	Billing        Billing
	Entitlements   EntitlementReader
	ETFs           etf.Source
	Mailer         mailer.Sender
	Auth           *jwt.Service
	Metrics        *metrics.Metrics
	Health         func(context.Context) error
	Logger         *slog.Logger
	AllowedOrigins []string
	Now            func() time.Time
}

type handlers struct {
	billing      Billing
	entitlements EntitlementReader
	etfs         etf.Source
	mailer       mailer.Sender
	health       func(context.Context) error
	log          *slog.Logger
	now          func() time.Time
}

// Router builds the application router.
//
//	r := api.Router(api.Options{
//	    Billing:      billingSvc,
//	    Entitlements: store,
//	    ETFs:         etfStore,
//	    Mailer:       dispatcher,
//	    Auth:         jwtSvc,
//	})
//	srv.Run(ctx, r)
func Router(opts Options) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	h := &handlers{
		billing:      opts.Billing,
		entitlements: opts.Entitlements,
		etfs:         opts.ETFs,
		mailer:       opts.Mailer,
		health:       opts.Health,
		log:          log.With(logger.Component("api")),
		now:          opts.Now,
	}
	if h.now == nil {
		h.now = time.Now
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(log.Handler(), slog.LevelInfo),
			NoColor: true,
		}),
		middleware.Recoverer,
	)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Stripe-Signature"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", h.healthcheck)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/create-checkout-session", h.createCheckoutSession)
		r.Post("/webhooks/stripe", h.stripeWebhook)
		r.Post("/send-email", h.sendEmail)

		r.Group(func(r chi.Router) {
			if opts.Auth != nil {
				r.Use(jwt.Middleware(opts.Auth, unauthorized))
			}
			r.Get("/etfs", h.listETFs)

			r.Group(func(r chi.Router) {
				r.Use(jwt.RequireClaims(unauthorized))
				r.Get("/me/entitlement", h.myEntitlement)
				r.Get("/etfs/export.csv", h.exportCSV)
				r.Get("/etfs/export.xlsx", h.exportXLSX)
			})
		})
	})

	return r
}

func (h *handlers) healthcheck(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.log.WarnContext(r.Context(), "health check failed", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
