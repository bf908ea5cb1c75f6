// Package mailer resolves transactional templates and hands the rendered
// message to an email.EmailSender.
//
// Send always reports what happened through its error, but callers on the
// payment path discard it: a failed receipt must never fail the purchase.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/yieldcanary/yieldcanary/pkg/email"
	"github.com/yieldcanary/yieldcanary/pkg/logger"
	"github.com/yieldcanary/yieldcanary/pkg/metrics"
)

// Sender is the dispatcher contract used by the billing reconciler and the
// email endpoint.
type Sender interface {
	Send(ctx context.Context, to, templateID string, data map[string]string) error
}

// Dispatcher renders catalog templates and delivers them.
type Dispatcher struct {
	sender  email.EmailSender
	log     *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func New(sender email.EmailSender, opts ...Option) *Dispatcher {
	d := &Dispatcher{sender: sender, log: logger.Discard()}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With(logger.Component("mailer"))
	return d
}

// Send renders templateID for to and delivers it.
//
// An unknown template is logged and reported as ErrTemplateNotFound without
// contacting the provider. Delivery failures are logged and wrapped with
// ErrDeliveryFailed.
func (d *Dispatcher) Send(ctx context.Context, to, templateID string, data map[string]string) error {
	to = strings.TrimSpace(to)
	log := d.log.With(logger.TemplateID(templateID), logger.Email(to))

	tpl, ok := Lookup(templateID)
	if !ok {
		log.WarnContext(ctx, "email template not found, skipping send")
		d.count(templateID, metrics.OutcomeSkipped)
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, templateID)
	}
	if _, err := mail.ParseAddress(to); err != nil || to == "" {
		log.WarnContext(ctx, "invalid email recipient, skipping send")
		d.count(templateID, metrics.OutcomeSkipped)
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, to)
	}

	params, err := Render(tpl, to, data)
	if err != nil {
		log.ErrorContext(ctx, "failed to render email", logger.Error(err))
		d.count(templateID, metrics.OutcomeError)
		return errors.Join(ErrDeliveryFailed, err)
	}

	if err := d.sender.SendEmail(ctx, params); err != nil {
		log.ErrorContext(ctx, "failed to send email", logger.Error(err))
		d.count(templateID, metrics.OutcomeError)
		return errors.Join(ErrDeliveryFailed, err)
	}

	log.InfoContext(ctx, "email sent")
	d.count(templateID, metrics.OutcomeOK)
	return nil
}

func (d *Dispatcher) count(templateID, outcome string) {
	if d.metrics == nil {
		return
	}
	if _, ok := Lookup(templateID); !ok {
		templateID = "unknown"
	}
	d.metrics.EmailsSent.WithLabelValues(templateID, outcome).Inc()
}
