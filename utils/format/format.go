// Package format renders command output as terminal tables, JSON or CSV.
package format

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

const (
	Table = "table"
	JSON  = "json"
	CSV   = "csv"
)

var (
	paperBanner = color.New(color.FgYellow, color.Bold).Sprint("[PAPER]")
	liveBanner  = color.New(color.FgRed, color.Bold).Sprint("[LIVE]")
	green       = color.New(color.FgGreen)
	red         = color.New(color.FgRed)
)

// ModeBanner returns the paper/live indicator prepended to table titles.
func ModeBanner(paper bool) string {
	if paper {
		return paperBanner
	}
	return liveBanner
}

// Data is a generic, column-ordered result set.
type Data struct {
	Title   string
	Columns []string
	Rows    [][]string
}

func (d *Data) Append(cells ...string) {
	d.Rows = append(d.Rows, cells)
}

// Output writes d to stdout in the requested format. When exportPath is
// non-empty the JSON/CSV payload is written to that file instead.
func Output(d Data, outputFormat, exportPath string) error {
	switch strings.ToLower(outputFormat) {
	case JSON:
		return writeOrExport(exportPath, d.renderJSON)
	case CSV:
		return writeOrExport(exportPath, d.renderCSV)
	default:
		d.renderTable(os.Stdout)
		return nil
	}
}

func writeOrExport(exportPath string, render func(io.Writer) error) error {
	if exportPath == "" {
		return render(os.Stdout)
	}
	f, err := os.Create(exportPath)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	if err := render(f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Exported to %s\n", exportPath)
	return nil
}

func (d Data) renderJSON(w io.Writer) error {
	records := make([]map[string]string, 0, len(d.Rows))
	for _, row := range d.Rows {
		rec := make(map[string]string, len(d.Columns))
		for i, col := range d.Columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func (d Data) renderCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return err
	}
	for _, row := range d.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (d Data) renderTable(w io.Writer) {
	if d.Title != "" {
		fmt.Fprintln(w, d.Title)
	}
	t := tablewriter.NewWriter(w)
	t.SetHeader(d.Columns)
	t.SetAutoFormatHeaders(false)
	t.SetAutoWrapText(false)
	t.SetBorder(true)
	t.AppendBulk(d.Rows)
	t.Render()
}

// PrintTable renders a titled table to stdout.
func PrintTable(title string, columns []string, rows [][]string) {
	Data{Title: title, Columns: columns, Rows: rows}.renderTable(os.Stdout)
}

// ExportCSV marshals a slice of row structs to the given file using their
// csv struct tags.
func ExportCSV(path string, rows interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()
	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Exported to %s\n", path)
	return nil
}

// Currency formats a decimal as USD, e.g. $1,234.56.
func Currency(v decimal.Decimal) string {
	neg := v.IsNegative()
	s := v.Abs().StringFixed(2)

	parts := strings.SplitN(s, ".", 2)
	whole := parts[0]
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := "$" + b.String() + "." + parts[1]
	if neg {
		out = "-" + out
	}
	return out
}

// CurrencyFloat formats a float as USD.
func CurrencyFloat(v float64) string {
	return Currency(decimal.NewFromFloat(v))
}

// ProfitLoss renders a signed value-and-percent pair colored by sign.
func ProfitLoss(value decimal.Decimal, pct decimal.Decimal) string {
	s := fmt.Sprintf("%s (%s%%)", Currency(value), pct.StringFixed(2))
	if value.IsNegative() {
		return red.Sprint(s)
	}
	return green.Sprint(s)
}

// Signed colors any string by the sign of value.
func Signed(s string, negative bool) string {
	if negative {
		return red.Sprint(s)
	}
	return green.Sprint(s)
}

// Dash substitutes "-" for empty strings.
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
