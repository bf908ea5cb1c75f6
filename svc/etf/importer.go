package etf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Upstream spreadsheet column names.
const (
	colTicker        = "Ticker"
	colName          = "Name"
	colInception     = "Inception Date"
	colAUM           = "AUM"
	colExpenseRatio  = "Expense Ratio"
	colRocLatest     = "ROC % (latest)"
	colRocDate       = "ROC Date"
	colCanaryHealth  = "Canary Health"
	colCanaryStatus  = "Canary Status"
	colLatestDate    = "Latest Date"
	colLatestClose   = "Latest Adj Close"
	colDiv1Y         = "Dividends Last 12Mo"
	colDivYTD        = "Dividends YTD"
	colDivInception  = "Dividends Since Inception"
	colPrice1YAgo    = "Price 1Y Ago"
	colPriceYTDStart = "Price YTD Start"
	colPriceIncep    = "Price at Inception"
	colHeadline      = "Headline Yield (TTM)"
	colTrueIncome    = "True Income Yield"
	colDeathClock    = "Death Clock (years left)"
)

var dateLayouts = []string{
	time.DateOnly,
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// ParseCSV reads the upstream spreadsheet export. Percent columns become
// fractions, AUM is given in millions, dates are normalized to UTC days and
// unknown health labels are dropped. Rows without a ticker and repeated
// tickers are skipped.
func ParseCSV(r io.Reader) ([]ETF, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyImport
		}
		return nil, fmt.Errorf("etf: read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	if _, ok := idx[colTicker]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, colTicker)
	}

	var out []ETF
	seen := make(map[string]struct{})
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("etf: read line %d: %w", line, err)
		}
		row := csvRow{rec: rec, idx: idx}
		e, ok := row.etf()
		if !ok {
			continue
		}
		if _, dup := seen[e.Ticker]; dup {
			continue
		}
		seen[e.Ticker] = struct{}{}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, ErrEmptyImport
	}
	return out, nil
}

type csvRow struct {
	rec []string
	idx map[string]int
}

func (r csvRow) get(col string) string {
	i, ok := r.idx[col]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r csvRow) etf() (ETF, bool) {
	ticker := strings.ToUpper(r.get(colTicker))
	if ticker == "" {
		return ETF{}, false
	}

	health := r.get(colCanaryHealth)
	if health == "" {
		health = r.get(colCanaryStatus)
	}
	h, _ := ParseHealth(health)

	return ETF{
		Ticker:        ticker,
		Name:          r.get(colName),
		InceptionDate: parseDate(r.get(colInception)),
		CanaryHealth:  h,
		LatestDate:    parseDate(r.get(colLatestDate)),
		RocDate:       parseDate(r.get(colRocDate)),

		AUM:              parseAUM(r.get(colAUM)),
		ExpenseRatio:     parsePercent(r.get(colExpenseRatio)),
		LatestAdjClose:   parseNumber(r.get(colLatestClose)),
		HeadlineYieldTTM: parsePercent(r.get(colHeadline)),

		RocLatest:       parsePercent(r.get(colRocLatest)),
		TrueIncomeYield: parsePercent(r.get(colTrueIncome)),
		DeathClockYears: parseNumber(r.get(colDeathClock)),

		Dividends1Y:        parseNumber(r.get(colDiv1Y)),
		DividendsYTD:       parseNumber(r.get(colDivYTD)),
		DividendsInception: parseNumber(r.get(colDivInception)),
		Price1YAgo:         parseNumber(r.get(colPrice1YAgo)),
		PriceYTDStart:      parseNumber(r.get(colPriceYTDStart)),
		PriceInception:     parseNumber(r.get(colPriceIncep)),

		TotalReturn1Y:        parsePercent(r.get("Total Return 1Y")),
		TotalReturnYTD:       parsePercent(r.get("Total Return YTD")),
		TotalReturnInception: parsePercent(r.get("Total Return Since Inception")),

		SpentDividendsReturn1Y:        parsePercent(r.get("Spent-the-Dividends Return 1Y")),
		SpentDividendsReturnYTD:       parsePercent(r.get("Spent-the-Dividends Return YTD")),
		SpentDividendsReturnInception: parsePercent(r.get("Spent-the-Dividends Return Inception")),

		TakeHomeReturn1Y:        parsePercent(r.get("Take-Home Return 1Y")),
		TakeHomeReturnYTD:       parsePercent(r.get("Take-Home Return YTD")),
		TakeHomeReturnInception: parsePercent(r.get("Take-Home Return Inception")),

		TakeHomeCashReturn1Y:        parsePercent(r.get("Take-Home Cash Return 1Y")),
		TakeHomeCashReturnYTD:       parsePercent(r.get("Take-Home Cash Return YTD")),
		TakeHomeCashReturnInception: parsePercent(r.get("Take-Home Cash Return Inception")),
	}, true
}

// parsePercent reads "12.5%" or "12.5" as 0.125.
func parsePercent(s string) *float64 {
	v := parseNumber(strings.TrimSuffix(s, "%"))
	if v == nil {
		return nil
	}
	f := *v / 100
	return &f
}

// parseAUM reads a figure in millions, tolerating "$" and thousands separators.
func parseAUM(s string) *float64 {
	var b strings.Builder
	for _, c := range s {
		if (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	v := parseNumber(b.String())
	if v == nil {
		return nil
	}
	f := *v * 1e6
	return &f
}

func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}
