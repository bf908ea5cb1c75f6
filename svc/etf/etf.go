package etf

import (
	"strings"
	"time"
)

// Health is the canary status label of a fund.
type Health string

const (
	HealthHealthy Health = "Healthy"
	HealthDying   Health = "Dying"
	HealthDead    Health = "Dead"
)

// ParseHealth normalizes a status label. ok is false for anything that is
// not one of the three known labels.
func ParseHealth(s string) (Health, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "healthy":
		return HealthHealthy, true
	case "dying":
		return HealthDying, true
	case "dead":
		return HealthDead, true
	}
	return "", false
}

// ETF is one row of the etfs table. Every metric is optional.
type ETF struct {
	Ticker        string     `json:"ticker"`
	Name          string     `json:"name"`
	InceptionDate *time.Time `json:"inceptionDate"`
	CanaryHealth  Health     `json:"canaryStatus"`
	LatestDate    *time.Time `json:"latestDate"`
	RocDate       *time.Time `json:"rocDate"`

	AUM              *float64 `json:"aum"`
	ExpenseRatio     *float64 `json:"expenseRatio"`
	LatestAdjClose   *float64 `json:"latestAdjClose"`
	HeadlineYieldTTM *float64 `json:"headlineYieldTTM"`

	RocLatest       *float64 `json:"rocPercent"`
	TrueIncomeYield *float64 `json:"trueIncomeYield"`
	DeathClockYears *float64 `json:"deathClockYears"`

	Dividends1Y        *float64 `json:"dividends1Y"`
	DividendsYTD       *float64 `json:"dividendsYTD"`
	DividendsInception *float64 `json:"dividendsSinceInception"`
	Price1YAgo         *float64 `json:"price1YAgo"`
	PriceYTDStart      *float64 `json:"priceYTDStart"`
	PriceInception     *float64 `json:"priceAtInception"`

	TotalReturn1Y        *float64 `json:"totalReturn1Y"`
	TotalReturnYTD       *float64 `json:"totalReturnYTD"`
	TotalReturnInception *float64 `json:"totalReturnSinceInception"`

	SpentDividendsReturn1Y        *float64 `json:"spentDividendsReturn1Y"`
	SpentDividendsReturnYTD       *float64 `json:"spentDividendsReturnYTD"`
	SpentDividendsReturnInception *float64 `json:"spentDividendsReturnSinceInception"`

	TakeHomeReturn1Y        *float64 `json:"takeHomeReturn1Y"`
	TakeHomeReturnYTD       *float64 `json:"takeHomeReturnYTD"`
	TakeHomeReturnInception *float64 `json:"takeHomeReturnSinceInception"`

	TakeHomeCashReturn1Y        *float64 `json:"takeHomeCashReturn1Y"`
	TakeHomeCashReturnYTD       *float64 `json:"takeHomeCashReturnYTD"`
	TakeHomeCashReturnInception *float64 `json:"takeHomeCashReturnSinceInception"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Float returns a pointer to v, for building rows in code and tests.
func Float(v float64) *float64 { return &v }
