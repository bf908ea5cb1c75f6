package entitlement_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldcanary/yieldcanary/svc/entitlement"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		e    entitlement.Entitlement
		err  error
	}{
		{name: "free", e: entitlement.Free("sam@example.com")},
		{name: "basic", e: entitlement.Entitled("sam@example.com", entitlement.TierBasic, nil, nil)},
		{name: "advanced", e: entitlement.Entitled("sam@example.com", entitlement.TierAdvanced, nil, nil)},
		{
			name: "paid with free tier",
			e:    entitlement.Entitlement{Email: "sam@example.com", IsPaid: true, Tier: entitlement.TierFree},
			err:  entitlement.ErrInconsistentEntitlement,
		},
		{
			name: "unpaid with paid tier",
			e:    entitlement.Entitlement{Email: "sam@example.com", Tier: entitlement.TierBasic},
			err:  entitlement.ErrInconsistentEntitlement,
		},
		{
			name: "unknown tier",
			e:    entitlement.Entitlement{Email: "sam@example.com", IsPaid: true, Tier: "gold"},
			err:  entitlement.ErrInvalidTier,
		},
		{name: "empty email", e: entitlement.Free(""), err: entitlement.ErrInvalidEmail},
		{name: "display name form", e: entitlement.Free("Sam <sam@example.com>"), err: entitlement.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.e.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEntitled_DatesAndNormalization(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	e := entitlement.Entitled("  Jane.Doe@Example.COM ", entitlement.TierBasic, &start, &end)

	assert.Equal(t, "jane.doe@example.com", e.Email)
	assert.Equal(t, "jane.doe", e.Name)
	assert.True(t, e.Active())
	require.NotNil(t, e.SubscriptionStart)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *e.SubscriptionStart)
	assert.Equal(t, time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC), *e.SubscriptionEnd)

	oneTime := entitlement.Entitled("sam@example.com", entitlement.TierAdvanced, nil, nil)
	assert.Nil(t, oneTime.SubscriptionStart)
	assert.Nil(t, oneTime.SubscriptionEnd)
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	tier, err := entitlement.ParseTier(" Advanced ")
	require.NoError(t, err)
	assert.Equal(t, entitlement.TierAdvanced, tier)

	_, err = entitlement.ParseTier("platinum")
	assert.ErrorIs(t, err, entitlement.ErrInvalidTier)
}
