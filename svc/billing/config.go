package billing

// Config holds the Stripe credentials and the configured price ids.
type Config struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY"`
	PublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	WebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET"`

	BasicMonthlyPrice    string `env:"BASIC_MONTHLY_PRICE"`
	BasicYearlyPrice     string `env:"BASIC_YEARLY_PRICE"`
	AdvancedMonthlyPrice string `env:"ADVANCED_MONTHLY_PRICE"`
	AdvancedYearlyPrice  string `env:"ADVANCED_YEARLY_PRICE"`
	OneDollarPrice       string `env:"ONE_DOLLAR_PRICE"`
}

// Validate reports whether the keys required to talk to Stripe are present.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingAPIKey
	}
	if c.WebhookSecret == "" {
		return ErrMissingWebhookSecret
	}
	return nil
}
