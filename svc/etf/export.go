package etf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportHeader is the column header of every export format.
var ExportHeader = []string{
	"Ticker",
	"Name",
	"Canary Status",
	"Death Clock (years)",
	"True Income Yield",
	"Total Return 1Y",
	"Take-Home Cash 1Y",
	"Latest Price",
	"Headline Yield",
	"ROC %",
	"AUM",
	"Expense Ratio",
}

// percentColumns are the zero-based export columns holding fractions.
var percentColumns = []int{4, 5, 6, 8, 9, 11}

func exportValues(e ETF) []any {
	return []any{
		e.Ticker,
		e.Name,
		string(e.CanaryHealth),
		e.DeathClockYears,
		e.TrueIncomeYield,
		e.TotalReturn1Y,
		e.TakeHomeCashReturn1Y,
		e.LatestAdjClose,
		e.HeadlineYieldTTM,
		e.RocLatest,
		e.AUM,
		e.ExpenseRatio,
	}
}

// ExportFilename returns the attachment name for an export made at t.
func ExportFilename(t time.Time, ext string) string {
	return fmt.Sprintf("yield-canary-etfs-%s.%s", t.UTC().Format(time.DateOnly), ext)
}

// QuoteField renders one CSV field. Fields containing a comma, a double
// quote, CR or LF are quoted with internal quotes doubled; everything else
// is written verbatim.
func QuoteField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteCSV writes the header and one record per row, each terminated by
// CRLF. Missing values are written as empty fields.
func WriteCSV(w io.Writer, rows []ETF) error {
	bw := bufio.NewWriter(w)
	if err := writeCSVRecord(bw, ExportHeader); err != nil {
		return err
	}
	rec := make([]string, len(ExportHeader))
	for _, r := range rows {
		for i, v := range exportValues(r) {
			rec[i] = formatCSVValue(v)
		}
		if err := writeCSVRecord(bw, rec); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeCSVRecord(w *bufio.Writer, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(QuoteField(f)); err != nil {
			return err
		}
	}
	_, err := w.WriteString("\r\n")
	return err
}

func formatCSVValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *float64:
		if x == nil {
			return ""
		}
		return strconv.FormatFloat(*x, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// ExportSheet is the worksheet name of the xlsx export.
const ExportSheet = "ETFs"

// WriteXLSX writes the export as a single-sheet workbook with a frozen,
// bold header row and percentage formatting on fractional columns.
func WriteXLSX(w io.Writer, rows []ETF) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), ExportSheet); err != nil {
		return fmt.Errorf("etf: rename sheet: %w", err)
	}

	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &header); err != nil {
		return fmt.Errorf("etf: write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("etf: cell name: %w", err)
		}
		vals := exportValues(r)
		for j, v := range vals {
			if p, ok := v.(*float64); ok {
				if p == nil {
					vals[j] = nil
				} else {
					vals[j] = *p
				}
			}
		}
		if err := f.SetSheetRow(ExportSheet, cell, &vals); err != nil {
			return fmt.Errorf("etf: write row %d: %w", i+2, err)
		}
	}

	if err := styleSheet(f, len(rows)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("etf: write workbook: %w", err)
	}
	return nil
}

func styleSheet(f *excelize.File, n int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("etf: header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(ExportHeader), 1)
	if err := f.SetCellStyle(ExportSheet, "A1", last, bold); err != nil {
		return fmt.Errorf("etf: header style: %w", err)
	}

	if n > 0 {
		pct, err := f.NewStyle(&excelize.Style{NumFmt: 10})
		if err != nil {
			return fmt.Errorf("etf: percent style: %w", err)
		}
		for _, c := range percentColumns {
			top, _ := excelize.CoordinatesToCellName(c+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(c+1, n+1)
			if err := f.SetCellStyle(ExportSheet, top, bottom, pct); err != nil {
				return fmt.Errorf("etf: percent style: %w", err)
			}
		}
	}

	return f.SetPanes(ExportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
