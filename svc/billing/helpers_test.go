package billing_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/yieldcanary/yieldcanary/svc/billing"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
)

const testWebhookSecret = "whsec_test_secret"

func testConfig() billing.Config {
	return billing.Config{
		SecretKey:            "sk_test_123",
		WebhookSecret:        testWebhookSecret,
		BasicMonthlyPrice:    "price_basic_m",
		BasicYearlyPrice:     "price_basic_y",
		AdvancedMonthlyPrice: "price_adv_m",
		AdvancedYearlyPrice:  "price_adv_y",
		OneDollarPrice:       "price_one",
	}
}

// signedEvent wraps object into a Stripe event envelope and signs it with
// the test webhook secret.
func signedEvent(t *testing.T, id, eventType string, object any) ([]byte, string) {
	t.Helper()

	raw, err := json.Marshal(object)
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"created":     time.Now().Unix(),
		"data":        map[string]any{"object": json.RawMessage(raw)},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func subscriptionObject(customer, email, price string) map[string]any {
	obj := map[string]any{
		"id":                   "sub_1",
		"object":               "subscription",
		"customer":             customer,
		"current_period_start": time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC).Unix(),
		"current_period_end":   time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC).Unix(),
		"items": map[string]any{
			"object": "list",
			"data": []map[string]any{
				{"id": "si_1", "object": "subscription_item", "price": map[string]any{"id": price, "object": "price"}},
			},
		},
	}
	if email != "" {
		obj["metadata"] = map[string]string{"user_email": email}
	}
	return obj
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) CreateCheckoutSession(ctx context.Context, params billing.SessionParams) (billing.CheckoutSession, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(billing.CheckoutSession), args.Error(1)
}

func (m *mockProvider) ParseWebhook(payload []byte, signature string) (billing.Event, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(billing.Event), args.Error(1)
}

func (m *mockProvider) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	args := m.Called(ctx, customerID)
	return args.String(0), args.Error(1)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) EnsureExists(ctx context.Context, email string) (entitlement.Entitlement, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entitlement.Entitlement), args.Error(1)
}

func (m *mockStore) GetByEmail(ctx context.Context, email string) (entitlement.Entitlement, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entitlement.Entitlement), args.Error(1)
}

func (m *mockStore) Upsert(ctx context.Context, e entitlement.Entitlement) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockStore) Revoke(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

type sentEmail struct {
	To         string
	TemplateID string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (r *recordingMailer) Send(_ context.Context, to, templateID string, _ map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentEmail{To: to, TemplateID: templateID})
	return r.err
}

func (r *recordingMailer) Sent() []sentEmail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentEmail(nil), r.sent...)
}
