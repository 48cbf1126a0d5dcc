// Package stock implements the stock market-data subcommands.
package stock

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "stock"
	short   = "Fetches stock market data"
	long    = "This command fetches historical bars, latest quotes and trades, snapshots and live streams for stocks"
	example = "alpaca-cli data stock history AAPL --timeframe 1D --limit 30"

	// free data plans lag real time by 15 minutes on sip; half an hour
	// keeps the default end inside the allowed window
	historyEndDelay = 30 * time.Minute
)

// Cmd is the stock command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(historyCmd)
	Cmd.AddCommand(NewLatestCmd())
	Cmd.AddCommand(snapshotCmd)
	Cmd.AddCommand(streamCmd)
}

var (
	historyCmd = &cobra.Command{
		Use:     "history SYMBOL",
		Short:   "Show historical bars",
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    executeHistory,
	}

	flagTimeframe  string
	flagStart      string
	flagEnd        string
	flagLimit      int
	flagAdjustment string
	flagFeed       string
	flagSort       string
	historyOut     format.Flags
)

func init() {
	historyCmd.Flags().StringVar(&flagTimeframe, "timeframe", "1D", "bar size, e.g. 1Min, 15Min, 1H, 1D, 1W")
	historyCmd.Flags().StringVar(&flagStart, "start", "", "window start, RFC3339 or YYYY-MM-DD")
	historyCmd.Flags().StringVar(&flagEnd, "end", "", "window end, RFC3339 or YYYY-MM-DD")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 100, "maximum number of bars")
	historyCmd.Flags().StringVar(&flagAdjustment, "adjustment", "raw", "price adjustment: raw, split, dividend or all")
	historyCmd.Flags().StringVar(&flagFeed, "feed", "", "data feed: iex or sip")
	historyCmd.Flags().StringVar(&flagSort, "sort", "asc", "bar order: asc or desc")
	historyOut.Register(historyCmd.Flags())
}

func executeHistory(cmd *cobra.Command, args []string) error {
	symbol, err := session.Symbol(args[0])
	if err != nil {
		return err
	}
	start, end, err := session.BarWindow(flagStart, flagEnd, flagTimeframe, flagLimit, historyEndDelay)
	if err != nil {
		return err
	}
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	bars, err := client.GetStockBars(api.BarsParams{
		Symbols:    []string{symbol},
		Timeframe:  flagTimeframe,
		Start:      start,
		End:        end,
		Limit:      flagLimit,
		Adjustment: flagAdjustment,
		Feed:       flagFeed,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}
	return historyOut.OutputRecords(BarsData(symbol, bars[symbol], flagSort), barRecords(bars[symbol]))
}

// barRecord is the machine-readable shape of an exported bar.
type barRecord struct {
	Time   string  `csv:"time"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
	VWAP   float64 `csv:"vwap"`
}

func barRecords(bars []api.Bar) []barRecord {
	records := make([]barRecord, 0, len(bars))
	for _, b := range bars {
		records = append(records, barRecord{
			Time:   b.Timestamp.UTC().Format(time.RFC3339),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
			VWAP:   b.VWAP,
		})
	}
	return records
}

// BarsData renders a bar series as a column-ordered result set. The
// crypto and options commands reuse it for their bar listings.
func BarsData(title string, bars []api.Bar, order string) format.Data {
	if order == "desc" {
		sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.After(bars[j].Timestamp) })
	} else {
		sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	}
	d := format.Data{
		Title:   "Bars " + title,
		Columns: []string{"Time", "Open", "High", "Low", "Close", "Volume", "VWAP"},
	}
	for _, b := range bars {
		d.Append(
			session.Timestamp(b.Timestamp),
			format.CurrencyFloat(b.Open),
			format.CurrencyFloat(b.High),
			format.CurrencyFloat(b.Low),
			format.CurrencyFloat(b.Close),
			fmt.Sprintf("%.0f", b.Volume),
			format.CurrencyFloat(b.VWAP),
		)
	}
	return d
}

// NewLatestCmd builds the stock latest command. The top-level quote
// alias is a second instance of the same command.
func NewLatestCmd() *cobra.Command {
	var feed string
	c := &cobra.Command{
		Use:     "latest SYMBOLS",
		Short:   "Show the latest quote and trade per symbol",
		Example: "alpaca-cli data stock latest AAPL,MSFT",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeLatest(cmd, args, feed)
		},
	}
	c.Flags().StringVar(&feed, "feed", "", "data feed: iex or sip")
	return c
}

func executeLatest(cmd *cobra.Command, args []string, feed string) error {
	symbols := session.SplitSymbols(args[0])
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	quotes, err := client.GetLatestQuotes(symbols, feed)
	if err != nil {
		return fmt.Errorf("failed to fetch quotes: %w", err)
	}
	trades, err := client.GetLatestTrades(symbols, feed)
	if err != nil {
		return fmt.Errorf("failed to fetch trades: %w", err)
	}

	rows := make([][]string, 0, len(symbols))
	for _, sym := range symbols {
		q, hasQuote := quotes[sym]
		t, hasTrade := trades[sym]
		if !hasQuote && !hasTrade {
			rows = append(rows, []string{sym, "-", "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			sym,
			format.CurrencyFloat(t.Price),
			fmt.Sprintf("%s x %.0f", format.CurrencyFloat(q.BidPrice), q.BidSize),
			fmt.Sprintf("%s x %.0f", format.CurrencyFloat(q.AskPrice), q.AskSize),
			session.Timestamp(t.Timestamp),
			session.Timestamp(q.Timestamp),
		})
	}
	format.PrintTable("Latest", []string{"Symbol", "Last", "Bid", "Ask", "Trade Time", "Quote Time"}, rows)
	return nil
}

var snapshotCmd = &cobra.Command{
	Use:     "snapshot SYMBOLS",
	Short:   "Show a full snapshot per symbol",
	Example: "alpaca-cli data stock snapshot AAPL,MSFT",
	Args:    cobra.ExactArgs(1),
	RunE:    executeSnapshot,
}

func executeSnapshot(cmd *cobra.Command, args []string) error {
	symbols := session.SplitSymbols(args[0])
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	snapshots, err := client.GetSnapshots(symbols, "")
	if err != nil {
		return fmt.Errorf("failed to fetch snapshots: %w", err)
	}
	printSnapshots(symbols, func(sym string) (api.Snapshot, bool) {
		s, ok := snapshots[sym]
		return s, ok
	})
	return nil
}

func printSnapshots(symbols []string, lookup func(string) (api.Snapshot, bool)) {
	rows := make([][]string, 0, len(symbols))
	for _, sym := range symbols {
		s, ok := lookup(sym)
		if !ok || s.DailyBar == nil {
			rows = append(rows, []string{sym, "-", "-", "-", "-", "-"})
			continue
		}
		last := "-"
		if s.LatestTrade != nil {
			last = format.CurrencyFloat(s.LatestTrade.Price)
		}
		change := "-"
		if s.PrevDailyBar != nil && s.PrevDailyBar.Close != 0 && s.LatestTrade != nil {
			pct := (s.LatestTrade.Price - s.PrevDailyBar.Close) / s.PrevDailyBar.Close * 100
			change = format.Signed(fmt.Sprintf("%+.2f%%", pct), pct < 0)
		}
		rows = append(rows, []string{
			sym,
			last,
			change,
			format.CurrencyFloat(s.DailyBar.Open),
			format.CurrencyFloat(s.DailyBar.High),
			format.CurrencyFloat(s.DailyBar.Low),
		})
	}
	format.PrintTable("Snapshot", []string{"Symbol", "Last", "Change", "Open", "High", "Low"}, rows)
}
