package entitlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldcanary/yieldcanary/svc/entitlement"
)

func TestMemoryStore_EnsureExists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := entitlement.NewMemoryStore()

	first, err := s.EnsureExists(ctx, "Sam@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", first.Email)
	assert.False(t, first.IsPaid)
	assert.Equal(t, entitlement.TierFree, first.Tier)

	second, err := s.EnsureExists(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = s.EnsureExists(ctx, "not-an-email")
	assert.ErrorIs(t, err, entitlement.ErrInvalidEmail)
}

func TestMemoryStore_UpsertIsOverwrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := entitlement.NewMemoryStore()

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	e := entitlement.Entitled("sam@example.com", entitlement.TierAdvanced, &start, &end)
	e.StripeCustomerID = "cus_1"

	require.NoError(t, s.Upsert(ctx, e))
	once, err := s.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)

	require.NoError(t, s.Upsert(ctx, e))
	twice, err := s.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)

	assert.Equal(t, once.ID, twice.ID)
	assert.Equal(t, once.IsPaid, twice.IsPaid)
	assert.Equal(t, once.Tier, twice.Tier)
	assert.Equal(t, once.SubscriptionStart, twice.SubscriptionStart)
	assert.Equal(t, once.SubscriptionEnd, twice.SubscriptionEnd)
	assert.Equal(t, "cus_1", twice.StripeCustomerID)

	// an empty customer id keeps the stored one
	e.StripeCustomerID = ""
	require.NoError(t, s.Upsert(ctx, e))
	kept, err := s.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_1", kept.StripeCustomerID)
}

func TestMemoryStore_UpsertRejectsInconsistent(t *testing.T) {
	t.Parallel()
	s := entitlement.NewMemoryStore()

	err := s.Upsert(context.Background(), entitlement.Entitlement{
		Email:  "sam@example.com",
		IsPaid: true,
		Tier:   entitlement.TierFree,
	})
	assert.ErrorIs(t, err, entitlement.ErrInconsistentEntitlement)

	_, err = s.GetByEmail(context.Background(), "sam@example.com")
	assert.ErrorIs(t, err, entitlement.ErrNotFound)
}

func TestMemoryStore_Revoke(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := entitlement.NewMemoryStore(entitlement.Entitled("sam@example.com", entitlement.TierBasic, nil, nil))

	require.NoError(t, s.Revoke(ctx, "sam@example.com"))
	e, err := s.GetByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.False(t, e.IsPaid)
	assert.Equal(t, entitlement.TierFree, e.Tier)

	assert.ErrorIs(t, s.Revoke(ctx, "ghost@example.com"), entitlement.ErrNotFound)
}
