package email

import (
	"fmt"
	"net/mail"
)

const (
	ProviderPostmark = "postmark"
	ProviderSendGrid = "sendgrid"
	ProviderDev      = "dev"
)

// Config holds email delivery configuration. Only the token of the selected
// provider is required.
type Config struct {
	Provider string `env:"EMAIL_PROVIDER" envDefault:"dev"`
	From     string `env:"EMAIL_FROM" envDefault:"YieldCanary HQ <hello@yieldcanary.com>"`
	ReplyTo  string `env:"EMAIL_REPLY_TO"`

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	PostmarkBaseURL      string `env:"POSTMARK_BASE_URL"`

	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	SendGridHost   string `env:"SENDGRID_HOST" envDefault:"https://api.sendgrid.com"`

	DevDir string `env:"EMAIL_DEV_DIR" envDefault:"tmp/emails"`
}

// sender parses From into display name and address.
func (c Config) sender() (*mail.Address, error) {
	if c.From == "" {
		return nil, fmt.Errorf("%w: From is required", ErrInvalidConfig)
	}
	addr, err := mail.ParseAddress(c.From)
	if err != nil {
		return nil, fmt.Errorf("%w: From must be a valid address: %v", ErrInvalidConfig, err)
	}
	return addr, nil
}
