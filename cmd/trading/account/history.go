package account

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

var (
	historyCmd = &cobra.Command{
		Use:     "history",
		Short:   "Show the account equity history",
		Example: "alpaca-cli trading account history --period 1M --timeframe 1D",
		RunE:    executeHistory,
	}

	flagPeriod    string
	flagTimeframe string
	flagDateEnd   string
	flagExtended  bool
	flagStart     string
	historyOut    format.Flags
)

func init() {
	historyCmd.Flags().StringVar(&flagPeriod, "period", "1M", "history window, e.g. 1D, 1W, 1M, 1A")
	historyCmd.Flags().StringVar(&flagTimeframe, "timeframe", "1D", "resolution: 1Min, 5Min, 15Min, 1H or 1D")
	historyCmd.Flags().StringVar(&flagDateEnd, "date-end", "", "last day of the window, YYYY-MM-DD")
	historyCmd.Flags().BoolVar(&flagExtended, "extended", false, "include extended hours")
	historyCmd.Flags().StringVar(&flagStart, "start", "", "first day of the window, overrides --period")
	historyOut.Register(historyCmd.Flags())
}

func executeHistory(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}

	params := api.PortfolioHistoryParams{
		Period:        flagPeriod,
		Timeframe:     flagTimeframe,
		DateEnd:       flagDateEnd,
		ExtendedHours: flagExtended,
	}
	if flagStart != "" {
		start, err := session.ParseTime(flagStart)
		if err != nil {
			return err
		}
		params.Start = &start
		params.Period = ""
	}
	cmd.SilenceUsage = true

	history, err := client.GetPortfolioHistory(params)
	if err != nil {
		return fmt.Errorf("failed to fetch portfolio history: %w", err)
	}

	d := format.Data{
		Title:   format.ModeBanner(cfg.Paper()) + " Portfolio History",
		Columns: []string{"Time", "Equity", "P/L", "P/L %"},
	}
	for i, ts := range history.Timestamp {
		if i >= len(history.Equity) || history.Equity[i] == nil {
			continue
		}
		var pl, plpct float64
		if i < len(history.ProfitLoss) && history.ProfitLoss[i] != nil {
			pl = *history.ProfitLoss[i]
		}
		if i < len(history.ProfitLossPct) && history.ProfitLossPct[i] != nil {
			plpct = *history.ProfitLossPct[i] * 100
		}
		d.Append(
			session.Timestamp(time.Unix(ts, 0)),
			format.CurrencyFloat(*history.Equity[i]),
			format.Signed(format.CurrencyFloat(pl), pl < 0),
			format.Signed(fmt.Sprintf("%.2f%%", plpct), plpct < 0),
		)
	}
	return historyOut.Output(d)
}
