package api_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yieldcanary/yieldcanary/modules/api"
	"github.com/yieldcanary/yieldcanary/svc/billing"
	"github.com/yieldcanary/yieldcanary/svc/entitlement"
)

func checkoutBody(plan string) map[string]string {
	return map[string]string{
		"priceId":    plan,
		"email":      "sam@example.com",
		"successUrl": "https://app.example.com/success",
		"cancelUrl":  "https://app.example.com/cancel",
	}
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	rec := f.postJSON(t, "/api/create-checkout-session", checkoutBody(billing.PlanAdvancedMonthly))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "cs_test_1", body["sessionId"])
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", body["url"])

	require.Len(t, f.provider.sessions, 1)
	assert.Equal(t, "price_adv_m", f.provider.sessions[0].PriceID)
	assert.Equal(t, billing.ModeSubscription, f.provider.sessions[0].Mode)

	rec2, err := f.store.GetByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, entitlement.TierFree, rec2.Tier)
}

func TestCreateCheckoutSession_Errors(t *testing.T) {
	t.Parallel()

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		rec := f.do(t, http.MethodPost, "/api/create-checkout-session", strings.NewReader("{"), nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON", decodeBody(t, rec)["error"])
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		body := checkoutBody(billing.PlanBasicMonthly)
		delete(body, "cancelUrl")
		rec := f.postJSON(t, "/api/create-checkout-session", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing required fields: priceId, email, successUrl, cancelUrl", decodeBody(t, rec)["error"])
		assert.Empty(t, f.provider.sessions)
	})

	t.Run("unconfigured plan", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil, func(o *api.Options) {
			cfg := billingConfig()
			cfg.BasicYearlyPrice = ""
			o.Billing = billing.NewService(&fakeProvider{StripeProvider: billing.NewStripeProvider(cfg)},
				entitlement.NewMemoryStore(), billing.NewCatalog(cfg))
		})
		rec := f.postJSON(t, "/api/create-checkout-session", checkoutBody(billing.PlanBasicYearly))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid price ID or plan: basic_yearly", decodeBody(t, rec)["error"])
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.provider.err = &billing.ProviderError{Status: http.StatusPaymentRequired, Message: "Your card was declined.", Code: "card_declined"}
		rec := f.postJSON(t, "/api/create-checkout-session", checkoutBody(billing.PlanBasicMonthly))
		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Your card was declined.", body["error"])
		assert.Equal(t, "card_declined", body["code"])
	})

	t.Run("unexpected error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.provider.err = errors.New("connection reset")
		rec := f.postJSON(t, "/api/create-checkout-session", checkoutBody(billing.PlanBasicMonthly))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
	})
}

func TestStripeWebhook(t *testing.T) {
	t.Parallel()

	f := newFixture(t, []entitlement.Entitlement{entitlement.Free("sam@example.com")})
	payload, sig := signedEvent(t, billing.EventSubscriptionCreated, map[string]any{
		"id":                   "sub_1",
		"object":               "subscription",
		"customer":             "cus_1",
		"current_period_start": 1735689600,
		"current_period_end":   1738368000,
		"metadata":             map[string]string{"user_email": "sam@example.com"},
		"items": map[string]any{
			"object": "list",
			"data":   []map[string]any{{"id": "si_1", "object": "subscription_item", "price": map[string]any{"id": "price_adv_y", "object": "price"}}},
		},
	})

	rec := f.do(t, http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(payload), map[string]string{"Stripe-Signature": sig})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeBody(t, rec)["received"])

	e, err := f.store.GetByEmail(context.Background(), "sam@example.com")
	require.NoError(t, err)
	assert.True(t, e.IsPaid)
	assert.Equal(t, entitlement.TierAdvanced, e.Tier)

	sent := f.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "sam@example.com", sent[0].SendTo)
}

func TestStripeWebhook_MissingSignature(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	rec := f.do(t, http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{"id":"evt_1"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing stripe-signature header", decodeBody(t, rec)["error"])
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

func TestStripeWebhook_UntrustedPayloadMutatesNothing(t *testing.T) {
	t.Parallel()

	payload, sig := signedEvent(t, billing.EventSubscriptionDeleted, map[string]any{
		"id": "sub_1", "object": "subscription", "customer": "cus_1",
		"metadata": map[string]string{"user_email": "sam@example.com"},
	})

	cases := map[string]struct {
		payload []byte
		sig     string
	}{
		"forged signature":  {payload, "t=1700000000,v1=0123456789abcdef"},
		"tampered body":     {bytes.Replace(payload, []byte("sam@"), []byte("eve@"), 1), sig},
		"garbage signature": {payload, "not-a-signature"},
		"malformed body":    {[]byte("{{{"), sig},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store := &mockStore{}
			svc := billing.NewService(billing.NewStripeProvider(billingConfig()), store, billing.NewCatalog(billingConfig()))
			router := api.Router(api.Options{Billing: svc, Entitlements: store})

			f := &fixture{router: router}
			rec := f.do(t, http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(tc.payload), map[string]string{"Stripe-Signature": tc.sig})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Webhook error", decodeBody(t, rec)["error"])
			assert.Empty(t, store.Calls, "no store method may run for an untrusted payload")
		})
	}
}
