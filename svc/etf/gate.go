package etf

import "strings"

// FreeSampleAllowList holds the tickers every visitor sees in full.
var FreeSampleAllowList = map[string]struct{}{
	"TSLY": {},
	"QYLD": {},
	"XYLD": {},
	"MSTY": {},
}

// IsFreeSample reports whether ticker is on the allow-list.
func IsFreeSample(ticker string) bool {
	_, ok := FreeSampleAllowList[strings.ToUpper(strings.TrimSpace(ticker))]
	return ok
}

// IsUnlocked reports whether the gated metrics of ticker are visible.
func IsUnlocked(isPaid bool, ticker string) bool {
	return isPaid || IsFreeSample(ticker)
}

// Row is an ETF as served to a client. Locked rows carry no gated metrics.
type Row struct {
	ETF
	Locked bool `json:"locked"`
}

// Gate converts rows for a viewer, redacting the gated metrics of every row
// the viewer may not see. Identity, status, price, headline yield, AUM and
// expense ratio are never redacted.
func Gate(rows []ETF, isPaid bool) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		if IsUnlocked(isPaid, r.Ticker) {
			out[i] = Row{ETF: r}
			continue
		}
		out[i] = Row{ETF: redact(r), Locked: true}
	}
	return out
}

func redact(e ETF) ETF {
	e.RocLatest = nil
	e.RocDate = nil
	e.TrueIncomeYield = nil
	e.DeathClockYears = nil

	e.Dividends1Y = nil
	e.DividendsYTD = nil
	e.DividendsInception = nil
	e.Price1YAgo = nil
	e.PriceYTDStart = nil
	e.PriceInception = nil

	e.TotalReturn1Y = nil
	e.TotalReturnYTD = nil
	e.TotalReturnInception = nil
	e.SpentDividendsReturn1Y = nil
	e.SpentDividendsReturnYTD = nil
	e.SpentDividendsReturnInception = nil
	e.TakeHomeReturn1Y = nil
	e.TakeHomeReturnYTD = nil
	e.TakeHomeReturnInception = nil
	e.TakeHomeCashReturn1Y = nil
	e.TakeHomeCashReturnYTD = nil
	e.TakeHomeCashReturnInception = nil
	return e
}
