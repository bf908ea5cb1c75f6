package etf

// Stats is the summary strip shown above the table.
type Stats struct {
	Total                 int      `json:"total"`
	Healthy               int      `json:"healthy"`
	Dying                 int      `json:"dying"`
	Dead                  int      `json:"dead"`
	AvgTrueIncomeYield    *float64 `json:"avgTrueIncomeYield"`
	AvgTakeHomeCashReturn *float64 `json:"avgTakeHomeCashReturn1Y"`
}

// ComputeStats counts rows per status and averages the true income yield
// and the 1Y take-home cash return over the rows that report them.
func ComputeStats(rows []ETF) Stats {
	s := Stats{Total: len(rows)}
	var yield, cash mean
	for _, r := range rows {
		switch r.CanaryHealth {
		case HealthHealthy:
			s.Healthy++
		case HealthDying:
			s.Dying++
		case HealthDead:
			s.Dead++
		}
		yield.add(r.TrueIncomeYield)
		cash.add(r.TakeHomeCashReturn1Y)
	}
	s.AvgTrueIncomeYield = yield.value()
	s.AvgTakeHomeCashReturn = cash.value()
	return s
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m mean) value() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}
