// Package screeners implements the market screener subcommands.
package screeners

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "screeners"
	short   = "Runs market screeners"
	long    = "This command lists the day's top movers and the most actively traded stocks"
	example = "alpaca-cli data screeners movers --top 5"
)

// Cmd is the screeners command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(moversCmd)
	Cmd.AddCommand(mostActivesCmd)
}

var (
	moversCmd = &cobra.Command{
		Use:     "movers",
		Short:   "Show the day's top gainers and losers",
		Example: example,
		RunE:    executeMovers,
	}

	flagMoversMarket string
	flagMoversTop    int
)

func init() {
	moversCmd.Flags().StringVar(&flagMoversMarket, "market", "stocks", "market type: stocks or crypto")
	moversCmd.Flags().IntVar(&flagMoversTop, "top", 10, "entries per side")
}

func executeMovers(cmd *cobra.Command, _ []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	movers, err := client.GetMovers(flagMoversMarket, flagMoversTop)
	if err != nil {
		return fmt.Errorf("failed to fetch movers: %w", err)
	}

	rows := make([][]string, 0, len(movers.Gainers))
	for _, m := range movers.Gainers {
		rows = append(rows, []string{
			m.Symbol,
			format.CurrencyFloat(m.Price),
			format.Signed(fmt.Sprintf("%+.2f%%", m.PercentChange), false),
		})
	}
	format.PrintTable("Top Gainers", []string{"Symbol", "Price", "Change"}, rows)

	rows = rows[:0]
	for _, m := range movers.Losers {
		rows = append(rows, []string{
			m.Symbol,
			format.CurrencyFloat(m.Price),
			format.Signed(fmt.Sprintf("%+.2f%%", m.PercentChange), true),
		})
	}
	format.PrintTable("Top Losers", []string{"Symbol", "Price", "Change"}, rows)
	return nil
}

var (
	mostActivesCmd = &cobra.Command{
		Use:     "most-actives",
		Short:   "Show the most actively traded stocks",
		Example: "alpaca-cli data screeners most-actives --by trades --top 10",
		RunE:    executeMostActives,
	}

	flagActivesBy  string
	flagActivesTop int
)

func init() {
	mostActivesCmd.Flags().StringVar(&flagActivesBy, "by", "volume", "ranking metric: volume or trades")
	mostActivesCmd.Flags().IntVar(&flagActivesTop, "top", 10, "number of entries")
}

func executeMostActives(cmd *cobra.Command, _ []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	actives, err := client.GetMostActives(flagActivesBy, flagActivesTop)
	if err != nil {
		return fmt.Errorf("failed to fetch most actives: %w", err)
	}

	rows := make([][]string, 0, len(actives))
	for _, a := range actives {
		rows = append(rows, []string{
			a.Symbol,
			fmt.Sprintf("%.0f", a.Volume),
			fmt.Sprintf("%.0f", a.TradeCount),
		})
	}
	format.PrintTable("Most Actives", []string{"Symbol", "Volume", "Trades"}, rows)
	return nil
}
