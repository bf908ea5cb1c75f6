package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendGridEndpoint = "/v3/mail/send"

type sendGridClient struct {
	apiKey  string
	host    string
	from    *mail.Email
	replyTo *mail.Email
}

// NewSendGridClient creates a SendGrid-backed email sender.
func NewSendGridClient(cfg Config) (EmailSender, error) {
	if cfg.SendGridAPIKey == "" {
		return nil, fmt.Errorf("%w: SendGridAPIKey is required", ErrInvalidConfig)
	}
	from, err := cfg.sender()
	if err != nil {
		return nil, err
	}

	c := &sendGridClient{
		apiKey: cfg.SendGridAPIKey,
		host:   cfg.SendGridHost,
		from:   mail.NewEmail(from.Name, from.Address),
	}
	if c.host == "" {
		c.host = "https://api.sendgrid.com"
	}
	if cfg.ReplyTo != "" {
		c.replyTo = mail.NewEmail("", cfg.ReplyTo)
	}
	return c, nil
}

// SendEmail implements EmailSender using the SendGrid v3 mail send API.
func (c *sendGridClient) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	message := mail.NewV3Mail()
	message.SetFrom(c.from)
	message.Subject = params.Subject

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", params.SendTo))
	message.AddPersonalizations(p)

	// text/plain must precede text/html
	if params.BodyText != "" {
		message.AddContent(mail.NewContent("text/plain", params.BodyText))
	}
	if params.BodyHTML != "" {
		message.AddContent(mail.NewContent("text/html", params.BodyHTML))
	}
	if c.replyTo != nil {
		message.SetReplyTo(c.replyTo)
	}
	if params.Tag != "" {
		message.AddCategories(params.Tag)
	}

	req := sendgrid.GetRequest(c.apiKey, sendGridEndpoint, c.host)
	req.Method = rest.Post
	req.Body = mail.GetRequestBody(message)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Join(
			ErrFailedToSendEmail,
			fmt.Errorf("sendgrid error: %d - %s", resp.StatusCode, resp.Body),
		)
	}
	return nil
}
