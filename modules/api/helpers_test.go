package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/yieldcanary/yieldcanary/modules/api"
	"github.com/yieldcanary/yieldcanary/pkg/email"
	"github.com/yieldcanary/yieldcanary/pkg/jwt"
	"github.com/yieldcanary/yieldcanary/pkg/metrics"
	"github.com/yieldcanary/yieldcanary/svc/billing"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
	"github.com/yieldcanary/yieldcanary/svc/etf"
	"github.com/yieldcanary/yieldcanary/svc/mailer"
)

const webhookSecret = "whsec_api_test"

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func billingConfig() billing.Config {
	return billing.Config{
		SecretKey:            "sk_test_api",
		WebhookSecret:        webhookSecret,
		BasicMonthlyPrice:    "price_basic_m",
		BasicYearlyPrice:     "price_basic_y",
		AdvancedMonthlyPrice: "price_adv_m",
		AdvancedYearlyPrice:  "price_adv_y",
		OneDollarPrice:       "price_one",
	}
}

// fakeProvider verifies webhooks with the real Stripe code and records
// checkout calls instead of calling the API.
type fakeProvider struct {
	*billing.StripeProvider

	mu       sync.Mutex
	sessions []billing.SessionParams
	err      error
}

func (p *fakeProvider) CreateCheckoutSession(_ context.Context, params billing.SessionParams) (billing.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = append(p.sessions, params)
	if p.err != nil {
		return billing.CheckoutSession{}, p.err
	}
	return billing.CheckoutSession{SessionID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []email.SendEmailParams
	err  error
}

func (s *fakeSender) SendEmail(_ context.Context, p email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, p)
	return nil
}

func (s *fakeSender) Sent() []email.SendEmailParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]email.SendEmailParams(nil), s.sent...)
}

type staticSource struct {
	rows []etf.ETF
	err  error
}

func (s staticSource) List(context.Context) ([]etf.ETF, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]etf.ETF(nil), s.rows...), nil
}

func sampleETFs() []etf.ETF {
	return []etf.ETF{
		{Ticker: "AAA", Name: "Alpha Income", CanaryHealth: etf.HealthHealthy, TrueIncomeYield: etf.Float(0.08), TakeHomeCashReturn1Y: etf.Float(0.09), AUM: etf.Float(1e9)},
		{Ticker: "QYLD", Name: "Nasdaq Covered Call", CanaryHealth: etf.HealthDying, TrueIncomeYield: etf.Float(0.02), TakeHomeCashReturn1Y: etf.Float(0.01)},
		{Ticker: "ZZZ", Name: "Zeta Yield", CanaryHealth: etf.HealthDead, TrueIncomeYield: etf.Float(-0.05), TakeHomeCashReturn1Y: etf.Float(-0.2)},
	}
}

type fixture struct {
	router   http.Handler
	store    *entitlement.MemoryStore
	provider *fakeProvider
	sender   *fakeSender
	auth     *jwt.Service
	metrics  *metrics.Metrics
}

type fixtureOption func(*api.Options)

func newFixture(t *testing.T, seed []entitlement.Entitlement, opts ...fixtureOption) *fixture {
	t.Helper()

	auth, err := jwt.New(jwt.Config{Secret: "api-test-secret", Audience: "authenticated"})
	require.NoError(t, err)

	f := &fixture{
		store:    entitlement.NewMemoryStore(seed...),
		provider: &fakeProvider{StripeProvider: billing.NewStripeProvider(billingConfig())},
		sender:   &fakeSender{},
		auth:     auth,
		metrics:  metrics.New(),
	}
	dispatcher := mailer.New(f.sender)
	svc := billing.NewService(f.provider, f.store, billing.NewCatalog(billingConfig()),
		billing.WithMailer(dispatcher))

	o := api.Options{
		Billing:      svc,
		Entitlements: f.store,
		ETFs:         staticSource{rows: sampleETFs()},
		Mailer:       dispatcher,
		Auth:         auth,
		Metrics:      f.metrics,
		Now:          func() time.Time { return fixedNow },
	}
	for _, opt := range opts {
		opt(&o)
	}
	f.router = api.Router(o)
	return f
}

func (f *fixture) token(t *testing.T, addr string) string {
	t.Helper()
	tok, err := f.auth.Issue("user-"+addr, addr, time.Hour)
	require.NoError(t, err)
	return tok
}

func (f *fixture) do(t *testing.T, method, target string, body io.Reader, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postJSON(t *testing.T, target string, v any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return f.do(t, http.MethodPost, target, strings.NewReader(string(b)), map[string]string{"Content-Type": "application/json"})
}

func (f *fixture) get(t *testing.T, target, token string) *httptest.ResponseRecorder {
	t.Helper()
	h := map[string]string{}
	if token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return f.do(t, http.MethodGet, target, nil, h)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func signedEvent(t *testing.T, eventType string, object any) ([]byte, string) {
	t.Helper()

	raw, err := json.Marshal(object)
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_api_1",
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"created":     time.Now().Unix(),
		"data":        map[string]any{"object": json.RawMessage(raw)},
	})
	require.NoError(t, err)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}
