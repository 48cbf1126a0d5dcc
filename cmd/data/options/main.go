// Package options implements the options market-data subcommands.
package options

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/data/stock"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "options"
	short   = "Fetches options market data"
	long    = "This command fetches historical bars and trades, latest quotes and trades, snapshots and full option chains"
	example = "alpaca-cli data options chain AAPL --type call"
)

// Cmd is the options command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(barsCmd)
	Cmd.AddCommand(tradesCmd)
	Cmd.AddCommand(latestCmd)
	Cmd.AddCommand(snapshotCmd)
	Cmd.AddCommand(chainCmd)
	Cmd.AddCommand(exchangesCmd)
}

var (
	barsCmd = &cobra.Command{
		Use:     "bars SYMBOLS",
		Short:   "Show historical bars per contract",
		Example: "alpaca-cli data options bars AAPL240621C00190000 --timeframe 1H",
		Args:    cobra.ExactArgs(1),
		RunE:    executeBars,
	}

	flagTimeframe string
	flagStart     string
	flagEnd       string
	flagLimit     int
	flagSort      string
	barsOut       format.Flags
)

func init() {
	barsCmd.Flags().StringVar(&flagTimeframe, "timeframe", "1D", "bar size, e.g. 1Min, 1H, 1D")
	barsCmd.Flags().StringVar(&flagStart, "start", "", "window start, RFC3339 or YYYY-MM-DD")
	barsCmd.Flags().StringVar(&flagEnd, "end", "", "window end, RFC3339 or YYYY-MM-DD")
	barsCmd.Flags().IntVar(&flagLimit, "limit", 100, "maximum number of bars")
	barsCmd.Flags().StringVar(&flagSort, "sort", "asc", "bar order: asc or desc")
	barsOut.Register(barsCmd.Flags())
}

func executeBars(cmd *cobra.Command, args []string) error {
	symbols := session.SplitSymbols(args[0])
	start, end, err := session.BarWindow(flagStart, flagEnd, flagTimeframe, flagLimit, 0)
	if err != nil {
		return err
	}
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	bars, err := client.GetOptionBars(api.BarsParams{
		Symbols:   symbols,
		Timeframe: flagTimeframe,
		Start:     start,
		End:       end,
		Limit:     flagLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch option bars: %w", err)
	}
	for _, sym := range symbols {
		if err := barsOut.Output(stock.BarsData(sym, bars[sym], flagSort)); err != nil {
			return err
		}
	}
	return nil
}

var (
	tradesCmd = &cobra.Command{
		Use:     "trades SYMBOLS",
		Short:   "Show historical trades per contract",
		Example: "alpaca-cli data options trades AAPL240621C00190000 --limit 20",
		Args:    cobra.ExactArgs(1),
		RunE:    executeTrades,
	}

	flagTradesStart string
	flagTradesEnd   string
	flagTradesLimit int
)

func init() {
	tradesCmd.Flags().StringVar(&flagTradesStart, "start", "", "window start, RFC3339 or YYYY-MM-DD")
	tradesCmd.Flags().StringVar(&flagTradesEnd, "end", "", "window end, RFC3339 or YYYY-MM-DD")
	tradesCmd.Flags().IntVar(&flagTradesLimit, "limit", 100, "maximum number of trades")
}

func executeTrades(cmd *cobra.Command, args []string) error {
	symbols := session.SplitSymbols(args[0])
	params := api.OptionTradesParams{Symbols: symbols, Limit: flagTradesLimit}
	var err error
	if flagTradesStart != "" {
		start, err := session.ParseTime(flagTradesStart)
		if err != nil {
			return err
		}
		params.Start = &start
	}
	if flagTradesEnd != "" {
		end, err := session.ParseTime(flagTradesEnd)
		if err != nil {
			return err
		}
		params.End = &end
	}

	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	trades, err := client.GetOptionTrades(params)
	if err != nil {
		return fmt.Errorf("failed to fetch option trades: %w", err)
	}
	for _, sym := range symbols {
		rows := make([][]string, 0, len(trades[sym]))
		for _, t := range trades[sym] {
			rows = append(rows, []string{
				session.Timestamp(t.Timestamp),
				format.CurrencyFloat(t.Price),
				fmt.Sprintf("%.0f", t.Size),
				t.Exchange,
			})
		}
		format.PrintTable("Trades "+sym, []string{"Time", "Price", "Size", "Exchange"}, rows)
	}
	return nil
}

var (
	latestCmd = &cobra.Command{
		Use:     "latest SYMBOLS",
		Short:   "Show the latest quote and/or trade per contract",
		Example: "alpaca-cli data options latest AAPL240621C00190000 --type both",
		Args:    cobra.ExactArgs(1),
		RunE:    executeLatest,
	}

	flagLatestType string
)

func init() {
	latestCmd.Flags().StringVar(&flagLatestType, "type", "both", "what to show: quote, trade or both")
}

func executeLatest(cmd *cobra.Command, args []string) error {
	switch flagLatestType {
	case "quote", "trade", "both":
	default:
		return fmt.Errorf("invalid --type %q, want quote, trade or both", flagLatestType)
	}
	symbols := session.SplitSymbols(args[0])
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	quotes := map[string]api.Quote{}
	trades := map[string]api.Trade{}
	if flagLatestType != "trade" {
		if quotes, err = client.GetLatestOptionQuotes(symbols); err != nil {
			return fmt.Errorf("failed to fetch quotes: %w", err)
		}
	}
	if flagLatestType != "quote" {
		if trades, err = client.GetLatestOptionTrades(symbols); err != nil {
			return fmt.Errorf("failed to fetch trades: %w", err)
		}
	}

	rows := make([][]string, 0, len(symbols))
	for _, sym := range symbols {
		q, hasQuote := quotes[sym]
		t, hasTrade := trades[sym]
		last, bid, ask := "-", "-", "-"
		if hasTrade {
			last = format.CurrencyFloat(t.Price)
		}
		if hasQuote {
			bid = fmt.Sprintf("%s x %.0f", format.CurrencyFloat(q.BidPrice), q.BidSize)
			ask = fmt.Sprintf("%s x %.0f", format.CurrencyFloat(q.AskPrice), q.AskSize)
		}
		rows = append(rows, []string{sym, last, bid, ask})
	}
	format.PrintTable("Latest Options", []string{"Contract", "Last", "Bid", "Ask"}, rows)
	return nil
}

var snapshotCmd = &cobra.Command{
	Use:     "snapshot SYMBOLS",
	Short:   "Show a snapshot with greeks per contract",
	Example: "alpaca-cli data options snapshot AAPL240621C00190000",
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

	snapshots, err := client.GetOptionSnapshots(symbols)
	if err != nil {
		return fmt.Errorf("failed to fetch option snapshots: %w", err)
	}

	rows := make([][]string, 0, len(symbols))
	for _, sym := range symbols {
		s, ok := snapshots[sym]
		if !ok {
			rows = append(rows, []string{sym, "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, snapshotRow(sym, s))
	}
	format.PrintTable("Option Snapshot", []string{"Contract", "Last", "Bid/Ask", "IV", "Delta"}, rows)
	return nil
}

func snapshotRow(sym string, s api.OptionSnapshot) []string {
	last, bidAsk, iv, delta := "-", "-", "-", "-"
	if s.LatestTrade != nil {
		last = format.CurrencyFloat(s.LatestTrade.Price)
	}
	if s.LatestQuote != nil {
		bidAsk = fmt.Sprintf("%s / %s",
			format.CurrencyFloat(s.LatestQuote.BidPrice),
			format.CurrencyFloat(s.LatestQuote.AskPrice))
	}
	if s.ImpliedVolatility != 0 {
		iv = fmt.Sprintf("%.2f%%", s.ImpliedVolatility*100)
	}
	if s.Greeks != nil {
		delta = fmt.Sprintf("%.4f", s.Greeks.Delta)
	}
	return []string{sym, last, bidAsk, iv, delta}
}

var (
	chainCmd = &cobra.Command{
		Use:     "chain UNDERLYING",
		Short:   "Show the option chain of an underlying",
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    executeChain,
	}

	flagChainType       string
	flagChainExpiry     string
	flagChainFrom       string
	flagChainTo         string
	flagChainStrikeFrom string
	flagChainStrikeTo   string
)

func init() {
	chainCmd.Flags().StringVar(&flagChainType, "type", "", "contract type: call or put")
	chainCmd.Flags().StringVar(&flagChainExpiry, "expiry", "", "exact expiration date, YYYY-MM-DD")
	chainCmd.Flags().StringVar(&flagChainFrom, "expiry-from", "", "earliest expiration date")
	chainCmd.Flags().StringVar(&flagChainTo, "expiry-to", "", "latest expiration date")
	chainCmd.Flags().StringVar(&flagChainStrikeFrom, "strike-from", "", "lowest strike price")
	chainCmd.Flags().StringVar(&flagChainStrikeTo, "strike-to", "", "highest strike price")
}

func executeChain(cmd *cobra.Command, args []string) error {
	underlying, err := session.Symbol(args[0])
	if err != nil {
		return err
	}

	params := api.OptionChainParams{
		Type:              flagChainType,
		ExpirationDate:    flagChainExpiry,
		ExpirationDateGte: flagChainFrom,
		ExpirationDateLte: flagChainTo,
	}
	if params.StrikePriceGte, err = parseStrike("strike-from", flagChainStrikeFrom); err != nil {
		return err
	}
	if params.StrikePriceLte, err = parseStrike("strike-to", flagChainStrikeTo); err != nil {
		return err
	}

	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	snapshots, err := client.GetOptionChain(underlying, params)
	if err != nil {
		return fmt.Errorf("failed to fetch option chain for %s: %w", underlying, err)
	}

	contracts := make([]string, 0, len(snapshots))
	for sym := range snapshots {
		contracts = append(contracts, sym)
	}
	sort.Strings(contracts)

	rows := make([][]string, 0, len(contracts))
	for _, sym := range contracts {
		rows = append(rows, snapshotRow(sym, snapshots[sym]))
	}
	format.PrintTable("Option Chain "+underlying, []string{"Contract", "Last", "Bid/Ask", "IV", "Delta"}, rows)
	return nil
}

var exchangesCmd = &cobra.Command{
	Use:     "exchanges",
	Short:   "Show the option exchange codes",
	Example: "alpaca-cli data options exchanges",
	RunE:    executeExchanges,
}

func executeExchanges(cmd *cobra.Command, _ []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	exchanges, err := client.GetOptionExchanges()
	if err != nil {
		return fmt.Errorf("failed to fetch option exchanges: %w", err)
	}

	codes := make([]string, 0, len(exchanges))
	for code := range exchanges {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rows := make([][]string, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, []string{code, exchanges[code]})
	}
	format.PrintTable("Option Exchanges", []string{"Code", "Exchange"}, rows)
	return nil
}

func parseStrike(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return &d, nil
}
