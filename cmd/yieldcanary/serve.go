package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yieldcanary/yieldcanary/db"
	"github.com/yieldcanary/yieldcanary/modules/api"
	"github.com/yieldcanary/yieldcanary/pkg/email"
	"github.com/yieldcanary/yieldcanary/pkg/httpserver"
	"github.com/yieldcanary/yieldcanary/pkg/jwt"
	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/pkg/metrics"
	"github.com/yieldcanary/yieldcanary/pkg/pg"
	"github.com/yieldcanary/yieldcanary/svc/billing"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
	"github.com/yieldcanary/yieldcanary/svc/etf"
	"github.com/yieldcanary/yieldcanary/svc/mailer"
)

func serveCmd(load configLoader) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API: checkout, the Stripe webhook, transactional email
and the ETF dashboard.

Examples:
  yieldcanary serve
  yieldcanary serve --migrate --env-file .env.local`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := load()
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			if err := cfg.Billing.Validate(); err != nil {
				return fmt.Errorf("billing config: %w", err)
			}

			pool, err := pg.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			if migrate {
				if err := pg.Migrate(ctx, pool, db.Migrations, db.MigrationsDir, cfg.DB, log); err != nil {
					return err
				}
			}

			var auth *jwt.Service
			if cfg.Auth.Secret != "" {
				if auth, err = jwt.New(cfg.Auth); err != nil {
					return fmt.Errorf("auth config: %w", err)
				}
			} else {
				log.WarnContext(ctx, "SUPABASE_JWT_SECRET not set, every dashboard request is anonymous")
			}

			sender, err := email.New(cfg.Email)
			if err != nil {
				return fmt.Errorf("email config: %w", err)
			}

			m := metrics.New()
			dispatcher := mailer.New(sender,
				mailer.WithLogger(log),
				mailer.WithMetrics(m),
			)
			store := entitlement.NewPGStore(pool)
			billingSvc := billing.NewService(
				billing.NewStripeProvider(cfg.Billing),
				store,
				billing.NewCatalog(cfg.Billing),
				billing.WithMailer(dispatcher),
				billing.WithLogger(log),
				billing.WithMetrics(m),
			)

			router := api.Router(api.Options{
				Billing:        billingSvc,
				Entitlements:   store,
				ETFs:           etf.NewPGStore(pool),
				Mailer:         dispatcher,
				Auth:           auth,
				Metrics:        m,
				Health:         pg.Healthcheck(pool),
				Logger:         log,
				AllowedOrigins: cfg.AllowedOrigins,
			})

			srv := httpserver.NewFromConfig(cfg.HTTP,
				httpserver.WithLogger(log.With(logger.Component("http"))),
			)
			return srv.Run(ctx, router)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}
