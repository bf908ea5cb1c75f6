package etf_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yieldcanary/yieldcanary/svc/etf"
)

func TestQuoteField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"a,b", `"a,b"`},
		{`say "hi"`, `"say ""hi"""`},
		{"line\nbreak", "\"line\nbreak\""},
		{"cr\rhere", "\"cr\rhere\""},
		{"a,\"b\"\nc", "\"a,\"\"b\"\"\nc\""},
		{" leading space", " leading space"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, etf.QuoteField(tt.in), "%q", tt.in)
	}
}

func TestQuoteField_RoundTripsThroughEncodingCSV(t *testing.T) {
	t.Parallel()

	fields := []string{"a,\"b\"\nc", "plain", `"quoted"`, "x\r\ny", ""}
	var line []string
	for _, f := range fields {
		line = append(line, etf.QuoteField(f))
	}

	r := csv.NewReader(strings.NewReader(strings.Join(line, ",") + "\r\n"))
	got, err := r.Read()
	require.NoError(t, err)
	require.Len(t, got, len(fields))
	assert.Equal(t, fields[0], got[0])
	assert.Equal(t, fields[1], got[1])
	assert.Equal(t, fields[2], got[2])
	// encoding/csv folds CRLF inside quoted fields to LF.
	assert.Equal(t, "x\ny", got[3])
	assert.Equal(t, fields[4], got[4])
}

func exportRows() []etf.ETF {
	return []etf.ETF{
		{
			Ticker:               "QYLD",
			Name:                 `Global X "Nasdaq", Covered Call`,
			CanaryHealth:         etf.HealthDying,
			DeathClockYears:      etf.Float(4.5),
			TrueIncomeYield:      etf.Float(0.0412),
			TotalReturn1Y:        etf.Float(0.083),
			TakeHomeCashReturn1Y: etf.Float(0.02),
			LatestAdjClose:       etf.Float(17.35),
			HeadlineYieldTTM:     etf.Float(0.121),
			RocLatest:            etf.Float(0.95),
			AUM:                  etf.Float(8.2e9),
			ExpenseRatio:         etf.Float(0.006),
		},
		{Ticker: "NEW", Name: "New Fund"},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, etf.WriteCSV(&buf, exportRows()))

	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Ticker,Name,Canary Status,Death Clock (years),True Income Yield,Total Return 1Y,Take-Home Cash 1Y,Latest Price,Headline Yield,ROC %,AUM,Expense Ratio", lines[0])
	assert.Equal(t, `QYLD,"Global X ""Nasdaq"", Covered Call",Dying,4.5,0.0412,0.083,0.02,17.35,0.121,0.95,8200000000,0.006`, lines[1])
	assert.Equal(t, "NEW,New Fund,,,,,,,,,,", lines[2])

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, etf.ExportHeader, records[0])
	assert.Equal(t, `Global X "Nasdaq", Covered Call`, records[1][1])
}

func TestWriteCSV_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, etf.WriteCSV(&buf, nil))
	assert.Equal(t, strings.Join(etf.ExportHeader, ",")+"\r\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, etf.WriteXLSX(&buf, exportRows()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{etf.ExportSheet}, f.GetSheetList())

	rows, err := f.GetRows(etf.ExportSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, etf.ExportHeader, rows[0])
	assert.Equal(t, "QYLD", rows[1][0])
	assert.Equal(t, `Global X "Nasdaq", Covered Call`, rows[1][1])
	assert.Equal(t, "Dying", rows[1][2])
	assert.Equal(t, "0.0412", rows[1][4])
	assert.Equal(t, "17.35", rows[1][7])
	assert.Equal(t, []string{"NEW", "New Fund"}, rows[2][:2])
}

func TestExportFilename(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "yield-canary-etfs-2025-03-04.csv", etf.ExportFilename(ts, "csv"))
	assert.Equal(t, "yield-canary-etfs-2025-03-04.xlsx", etf.ExportFilename(ts, "xlsx"))
}
