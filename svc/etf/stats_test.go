package etf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yieldcanary/yieldcanary/svc/etf"
)

func TestComputeStats(t *testing.T) {
	t.Parallel()

	s := etf.ComputeStats([]etf.ETF{
		{Ticker: "A", CanaryHealth: etf.HealthHealthy, TrueIncomeYield: etf.Float(0.1), TakeHomeCashReturn1Y: etf.Float(0.2)},
		{Ticker: "B", CanaryHealth: etf.HealthHealthy, TrueIncomeYield: etf.Float(0.3)},
		{Ticker: "C", CanaryHealth: etf.HealthDying, TakeHomeCashReturn1Y: etf.Float(-0.1)},
		{Ticker: "D", CanaryHealth: etf.HealthDead},
		{Ticker: "E"},
	})

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Healthy)
	assert.Equal(t, 1, s.Dying)
	assert.Equal(t, 1, s.Dead)
	require.NotNil(t, s.AvgTrueIncomeYield)
	assert.InDelta(t, 0.2, *s.AvgTrueIncomeYield, 1e-9)
	require.NotNil(t, s.AvgTakeHomeCashReturn)
	assert.InDelta(t, 0.05, *s.AvgTakeHomeCashReturn, 1e-9)
}

func TestComputeStats_Empty(t *testing.T) {
	t.Parallel()

	s := etf.ComputeStats(nil)
	assert.Zero(t, s.Total)
	assert.Nil(t, s.AvgTrueIncomeYield)
	assert.Nil(t, s.AvgTakeHomeCashReturn)
}
