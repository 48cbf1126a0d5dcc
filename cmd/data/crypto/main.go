// Package crypto implements the crypto market-data subcommands.
package crypto

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/data/stock"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "crypto"
	short   = "Fetches crypto market data"
	long    = "This command fetches historical bars, latest quotes and trades, snapshots, orderbooks and live streams for crypto pairs"
	example = "alpaca-cli data crypto history BTC/USD --timeframe 1H"
)

// Cmd is the crypto command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(historyCmd)
	Cmd.AddCommand(latestCmd)
	Cmd.AddCommand(snapshotCmd)
	Cmd.AddCommand(orderbookCmd)
	Cmd.AddCommand(streamCmd)
}

var (
	historyCmd = &cobra.Command{
		Use:     "history SYMBOL",
		Short:   "Show historical bars for a crypto pair",
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    executeHistory,
	}

	flagTimeframe string
	flagStart     string
	flagEnd       string
	flagLimit     int
	flagSort      string
	historyOut    format.Flags
)

func init() {
	historyCmd.Flags().StringVar(&flagTimeframe, "timeframe", "1D", "bar size, e.g. 1Min, 15Min, 1H, 1D")
	historyCmd.Flags().StringVar(&flagStart, "start", "", "window start, RFC3339 or YYYY-MM-DD")
	historyCmd.Flags().StringVar(&flagEnd, "end", "", "window end, RFC3339 or YYYY-MM-DD")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 100, "maximum number of bars")
	historyCmd.Flags().StringVar(&flagSort, "sort", "asc", "bar order: asc or desc")
	historyOut.Register(historyCmd.Flags())
}

func executeHistory(cmd *cobra.Command, args []string) error {
	symbol, err := session.Symbol(args[0])
	if err != nil {
		return err
	}
	// crypto trades around the clock, no end delay needed
	start, end, err := session.BarWindow(flagStart, flagEnd, flagTimeframe, flagLimit, 0)
	if err != nil {
		return err
	}
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	bars, err := client.GetCryptoBars(api.BarsParams{
		Symbols:   []string{symbol},
		Timeframe: flagTimeframe,
		Start:     start,
		End:       end,
		Limit:     flagLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}
	return historyOut.Output(stock.BarsData(symbol, bars[symbol], flagSort))
}

var latestCmd = &cobra.Command{
	Use:     "latest SYMBOLS",
	Short:   "Show the latest quote and trade per pair",
	Example: "alpaca-cli data crypto latest BTC/USD,ETH/USD",
	Args:    cobra.ExactArgs(1),
	RunE:    executeLatest,
}

func executeLatest(cmd *cobra.Command, args []string) error {
	symbols := session.SplitSymbols(args[0])
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	quotes, err := client.GetLatestCryptoQuotes(symbols)
	if err != nil {
		return fmt.Errorf("failed to fetch quotes: %w", err)
	}
	trades, err := client.GetLatestCryptoTrades(symbols)
	if err != nil {
		return fmt.Errorf("failed to fetch trades: %w", err)
	}

	rows := make([][]string, 0, len(symbols))
	for _, sym := range symbols {
		q, hasQuote := quotes[sym]
		t, hasTrade := trades[sym]
		if !hasQuote && !hasTrade {
			rows = append(rows, []string{sym, "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			sym,
			format.CurrencyFloat(t.Price),
			format.CurrencyFloat(q.BidPrice),
			format.CurrencyFloat(q.AskPrice),
		})
	}
	format.PrintTable("Latest Crypto", []string{"Symbol", "Last", "Bid", "Ask"}, rows)
	return nil
}

var snapshotCmd = &cobra.Command{
	Use:     "snapshot SYMBOLS",
	Short:   "Show a full snapshot per pair",
	Example: "alpaca-cli data crypto snapshot BTC/USD",
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

	snapshots, err := client.GetCryptoSnapshots(symbols)
	if err != nil {
		return fmt.Errorf("failed to fetch snapshots: %w", err)
	}

	rows := make([][]string, 0, len(symbols))
	for _, sym := range symbols {
		s, ok := snapshots[sym]
		if !ok || s.DailyBar == nil {
			rows = append(rows, []string{sym, "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, []string{
			sym,
			format.CurrencyFloat(s.DailyBar.Close),
			format.CurrencyFloat(s.DailyBar.Open),
			format.CurrencyFloat(s.DailyBar.High),
			format.CurrencyFloat(s.DailyBar.Low),
		})
	}
	format.PrintTable("Crypto Snapshot", []string{"Symbol", "Close", "Open", "High", "Low"}, rows)
	return nil
}

var (
	orderbookCmd = &cobra.Command{
		Use:     "orderbook SYMBOLS",
		Short:   "Show the latest orderbook per pair",
		Example: "alpaca-cli data crypto orderbook BTC/USD --depth 5",
		Args:    cobra.ExactArgs(1),
		RunE:    executeOrderbook,
	}

	flagDepth int
)

func init() {
	orderbookCmd.Flags().IntVar(&flagDepth, "depth", 10, "price levels per side")
}

func executeOrderbook(cmd *cobra.Command, args []string) error {
	symbols := session.SplitSymbols(args[0])
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	books, err := client.GetCryptoOrderbooks(symbols)
	if err != nil {
		return fmt.Errorf("failed to fetch orderbooks: %w", err)
	}

	for _, sym := range symbols {
		book, ok := books[sym]
		if !ok {
			fmt.Printf("No orderbook for %s\n", sym)
			continue
		}
		depth := flagDepth
		if depth > len(book.Bids) {
			depth = len(book.Bids)
		}
		if depth > len(book.Asks) {
			depth = len(book.Asks)
		}
		rows := make([][]string, 0, depth)
		for i := 0; i < depth; i++ {
			rows = append(rows, []string{
				fmt.Sprintf("%.4f", book.Bids[i].Size),
				format.CurrencyFloat(book.Bids[i].Price),
				format.CurrencyFloat(book.Asks[i].Price),
				fmt.Sprintf("%.4f", book.Asks[i].Size),
			})
		}
		format.PrintTable("Orderbook "+sym, []string{"Bid Size", "Bid", "Ask", "Ask Size"}, rows)
	}
	return nil
}

var streamCmd = &cobra.Command{
	Use:     "stream SYMBOLS",
	Short:   "Stream live crypto trades and quotes",
	Example: "alpaca-cli data crypto stream BTC/USD",
	Args:    cobra.ExactArgs(1),
	RunE:    executeStream,
}

func executeStream(cmd *cobra.Command, args []string) error {
	symbols := session.SplitSymbols(args[0])
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	s, err := client.OpenDataStream(api.DataStreamOptions{
		URL:    api.DefaultCryptoStreamURL,
		Trades: symbols,
		Quotes: symbols,
	})
	if err != nil {
		return fmt.Errorf("failed to open data stream: %w", err)
	}
	defer s.Close()
	fmt.Println("Streaming, Ctrl-C to stop")
	return stock.RunStream(s)
}
