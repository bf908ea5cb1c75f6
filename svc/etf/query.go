package etf

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort keys accepted by Query.SortKey. They match the column names.
const (
	SortTicker          = "ticker"
	SortName            = "name"
	SortCanaryHealth    = "canary_health"
	SortDeathClock      = "death_clock_years"
	SortTrueIncomeYield = "true_income_yield"
	SortTotalReturn1Y   = "total_return_1y"
	SortTakeHomeCash1Y  = "take_home_cash_return_1y"
	SortLatestAdjClose  = "latest_adj_close"
	SortHeadlineYield   = "headline_yield_ttm"
	SortRocLatest       = "roc_latest"
	SortAUM             = "aum"
	SortExpenseRatio    = "expense_ratio"
)

// DefaultSortKey is used when a query names no column.
const DefaultSortKey = SortTakeHomeCash1Y

type sortColumn struct {
	num func(ETF) *float64
	str func(ETF) string
}

var sortColumns = map[string]sortColumn{
	SortTicker:          {str: func(e ETF) string { return e.Ticker }},
	SortName:            {str: func(e ETF) string { return e.Name }},
	SortCanaryHealth:    {str: func(e ETF) string { return string(e.CanaryHealth) }},
	SortDeathClock:      {num: func(e ETF) *float64 { return e.DeathClockYears }},
	SortTrueIncomeYield: {num: func(e ETF) *float64 { return e.TrueIncomeYield }},
	SortTotalReturn1Y:   {num: func(e ETF) *float64 { return e.TotalReturn1Y }},
	SortTakeHomeCash1Y:  {num: func(e ETF) *float64 { return e.TakeHomeCashReturn1Y }},
	SortLatestAdjClose:  {num: func(e ETF) *float64 { return e.LatestAdjClose }},
	SortHeadlineYield:   {num: func(e ETF) *float64 { return e.HeadlineYieldTTM }},
	SortRocLatest:       {num: func(e ETF) *float64 { return e.RocLatest }},
	SortAUM:             {num: func(e ETF) *float64 { return e.AUM }},
	SortExpenseRatio:    {num: func(e ETF) *float64 { return e.ExpenseRatio }},
}

// SortKeys lists the accepted sort keys.
func SortKeys() []string {
	keys := make([]string, 0, len(sortColumns))
	for k := range sortColumns {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Query selects and orders dashboard rows.
type Query struct {
	Status  string // canary status label; empty or "all" disables the filter
	Search  string // case-insensitive substring of ticker or name
	SortKey string
	Desc    bool
}

// DefaultQuery is the dashboard's initial view.
func DefaultQuery() Query {
	return Query{SortKey: DefaultSortKey, Desc: true}
}

// Validate rejects unknown sort keys and status labels.
func (q Query) Validate() error {
	if q.SortKey != "" {
		if _, ok := sortColumns[q.SortKey]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownSortKey, q.SortKey)
		}
	}
	if s := strings.TrimSpace(q.Status); s != "" && !strings.EqualFold(s, "all") {
		if _, ok := ParseHealth(s); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownStatus, q.Status)
		}
	}
	return nil
}

// Apply filters rows and returns them in a new slice sorted by q.
//
// Free-sample rows always come first. Within each group rows are ordered by
// the selected column; missing values sort last in both directions. The sort
// is stable, so equal rows keep their stored order.
func Apply(rows []ETF, q Query) []ETF {
	out := filter(rows, q)

	col, ok := sortColumns[q.SortKey]
	if !ok {
		col = sortColumns[DefaultSortKey]
	}
	var coll *collate.Collator
	if col.str != nil {
		coll = collate.New(language.English, collate.IgnoreCase)
	}

	slices.SortStableFunc(out, func(a, b ETF) int {
		af, bf := IsFreeSample(a.Ticker), IsFreeSample(b.Ticker)
		if af != bf {
			if af {
				return -1
			}
			return 1
		}
		if col.num != nil {
			return compareNum(col.num(a), col.num(b), q.Desc)
		}
		return compareStr(coll, col.str(a), col.str(b), q.Desc)
	})
	return out
}

func filter(rows []ETF, q Query) []ETF {
	status, hasStatus := ParseHealth(q.Status)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]ETF, 0, len(rows))
	for _, r := range rows {
		if hasStatus && r.CanaryHealth != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.Ticker), search) &&
			!strings.Contains(strings.ToLower(r.Name), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func compareNum(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := 0
	switch {
	case *a < *b:
		c = -1
	case *a > *b:
		c = 1
	}
	if desc {
		return -c
	}
	return c
}

func compareStr(coll *collate.Collator, a, b string, desc bool) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	c := coll.CompareString(a, b)
	if desc {
		return -c
	}
	return c
}
