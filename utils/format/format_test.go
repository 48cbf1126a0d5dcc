package format

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want string
	}{
		"OK/zero":             {in: "0", want: "$0.00"},
		"OK/small":            {in: "12.3", want: "$12.30"},
		"OK/thousands":        {in: "1234.56", want: "$1,234.56"},
		"OK/millions":         {in: "1234567.891", want: "$1,234,567.89"},
		"OK/negative":         {in: "-1234.56", want: "-$1,234.56"},
		"OK/exactly thousand": {in: "1000", want: "$1,000.00"},
		"OK/under a thousand": {in: "999.99", want: "$999.99"},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			v, err := decimal.NewFromString(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, Currency(v))
		})
	}
}

func TestDash(t *testing.T) {
	t.Parallel()

	require.Equal(t, "-", Dash(""))
	require.Equal(t, "AAPL", Dash("AAPL"))
}

func TestData_RenderJSON(t *testing.T) {
	t.Parallel()

	d := Data{
		Columns: []string{"Symbol", "Qty"},
		Rows: [][]string{
			{"AAPL", "10"},
			{"MSFT", "5"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, d.renderJSON(&buf))

	var records []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	require.Equal(t, "AAPL", records[0]["Symbol"])
	require.Equal(t, "5", records[1]["Qty"])
}

func TestData_RenderJSON_EmptyRows(t *testing.T) {
	t.Parallel()

	d := Data{Columns: []string{"Symbol"}}
	var buf bytes.Buffer
	require.NoError(t, d.renderJSON(&buf))
	require.JSONEq(t, `[]`, buf.String())
}

func TestData_RenderCSV(t *testing.T) {
	t.Parallel()

	d := Data{
		Columns: []string{"Symbol", "Qty"},
		Rows:    [][]string{{"AAPL", "10"}},
	}

	var buf bytes.Buffer
	require.NoError(t, d.renderCSV(&buf))
	require.Equal(t, "Symbol,Qty\nAAPL,10\n", buf.String())
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	type row struct {
		Symbol string  `csv:"symbol"`
		Close  float64 `csv:"close"`
	}
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, ExportCSV(path, []row{{Symbol: "AAPL", Close: 189.5}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "symbol,close\nAAPL,189.5\n", string(data))
}

func TestFlags_OutputRecords_CSVExportUsesTags(t *testing.T) {
	t.Parallel()

	type row struct {
		Symbol string `csv:"symbol"`
		Qty    string `csv:"qty"`
	}
	path := filepath.Join(t.TempDir(), "orders.csv")
	f := Flags{Format: CSV, Export: path}
	d := Data{Columns: []string{"Symbol", "Qty"}, Rows: [][]string{{"AAPL", "10"}}}

	require.NoError(t, f.OutputRecords(d, []row{{Symbol: "AAPL", Qty: "10"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "symbol,qty\nAAPL,10\n", string(data))
}

func TestModeBanner(t *testing.T) {
	t.Parallel()

	require.Contains(t, ModeBanner(true), "PAPER")
	require.Contains(t, ModeBanner(false), "LIVE")
}
