// Package positions implements the open-position subcommands.
package positions

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "positions"
	short   = "Lists and manages open positions"
	long    = "This command lists open positions and closes or exercises them"
	example = "alpaca-cli trading positions list"
)

var hundred = decimal.NewFromInt(100)

// Cmd is the positions command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(NewListCmd())
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(closeCmd)
	Cmd.AddCommand(closeAllCmd)
	Cmd.AddCommand(exerciseCmd)
}

// NewListCmd builds the positions list command. The top-level pos alias
// is a second instance of the same command.
func NewListCmd() *cobra.Command {
	var out format.Flags
	c := &cobra.Command{
		Use:     "list",
		Short:   "List all open positions",
		Example: "alpaca-cli trading positions list --format json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeList(cmd, out)
		},
	}
	out.Register(c.Flags())
	return c
}

func executeList(cmd *cobra.Command, out format.Flags) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	positions, err := client.ListPositions()
	if err != nil {
		return fmt.Errorf("failed to fetch positions: %w", err)
	}

	d := format.Data{
		Title:   format.ModeBanner(cfg.Paper()) + " Positions",
		Columns: []string{"Symbol", "Side", "Qty", "Avg Entry", "Current", "Market Value", "Unrealized P/L"},
	}
	total := decimal.Zero
	for _, p := range positions {
		total = total.Add(p.UnrealizedPL)
		d.Append(
			p.Symbol,
			strings.ToUpper(p.Side),
			p.Qty.String(),
			format.Currency(p.AvgEntryPrice),
			format.Currency(p.CurrentPrice),
			format.Currency(p.MarketValue),
			format.ProfitLoss(p.UnrealizedPL, p.UnrealizedPLPC.Mul(hundred)),
		)
	}
	if len(positions) == 0 {
		fmt.Println("No open positions")
		return nil
	}
	if err := out.Output(d); err != nil {
		return err
	}
	if out.Format == format.Table {
		fmt.Printf("Total unrealized P/L: %s\n", format.Signed(format.Currency(total), total.IsNegative()))
	}
	return nil
}

var getCmd = &cobra.Command{
	Use:     "get SYMBOL",
	Short:   "Show the position for one symbol",
	Example: "alpaca-cli trading positions get AAPL",
	Args:    cobra.ExactArgs(1),
	RunE:    executeGet,
}

func executeGet(cmd *cobra.Command, args []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	symbol := strings.ToUpper(args[0])
	p, err := client.GetPosition(symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch position for %s: %w", symbol, err)
	}

	rows := [][]string{
		{"Symbol", p.Symbol},
		{"Asset Class", p.AssetClass},
		{"Exchange", p.Exchange},
		{"Side", strings.ToUpper(p.Side)},
		{"Qty", p.Qty.String()},
		{"Qty Available", p.QtyAvailable.String()},
		{"Avg Entry Price", format.Currency(p.AvgEntryPrice)},
		{"Current Price", format.Currency(p.CurrentPrice)},
		{"Market Value", format.Currency(p.MarketValue)},
		{"Cost Basis", format.Currency(p.CostBasis)},
		{"Unrealized P/L", format.ProfitLoss(p.UnrealizedPL, p.UnrealizedPLPC.Mul(hundred))},
		{"Change Today", format.Signed(p.ChangeToday.Mul(hundred).StringFixed(2)+"%", p.ChangeToday.IsNegative())},
	}
	format.PrintTable(format.ModeBanner(cfg.Paper())+" Position "+p.Symbol, []string{"Field", "Value"}, rows)
	return nil
}

var (
	closeCmd = &cobra.Command{
		Use:     "close SYMBOL",
		Short:   "Liquidate a position, fully or partially",
		Example: "alpaca-cli trading positions close AAPL --percent 50",
		Args:    cobra.ExactArgs(1),
		RunE:    executeClose,
	}

	flagCloseQty     string
	flagClosePercent string
)

func init() {
	closeCmd.Flags().StringVar(&flagCloseQty, "qty", "", "number of shares to liquidate")
	closeCmd.Flags().StringVar(&flagClosePercent, "percent", "", "percentage of the position to liquidate")
}

func executeClose(cmd *cobra.Command, args []string) error {
	if flagCloseQty != "" && flagClosePercent != "" {
		return fmt.Errorf("--qty and --percent are mutually exclusive")
	}
	client, _, err := session.Open()
	if err != nil {
		return err
	}

	params := api.ClosePositionParams{}
	if flagCloseQty != "" {
		qty, err := decimal.NewFromString(flagCloseQty)
		if err != nil {
			return fmt.Errorf("invalid --qty value %q", flagCloseQty)
		}
		params.Qty = &qty
	}
	if flagClosePercent != "" {
		pct, err := decimal.NewFromString(flagClosePercent)
		if err != nil {
			return fmt.Errorf("invalid --percent value %q", flagClosePercent)
		}
		params.Percentage = &pct
	}
	cmd.SilenceUsage = true

	symbol := strings.ToUpper(args[0])
	order, err := client.ClosePosition(symbol, params)
	if err != nil {
		return fmt.Errorf("failed to close position for %s: %w", symbol, err)
	}
	fmt.Printf("Submitted %s order %s to close %s\n", order.Type, order.ID, symbol)
	return nil
}

var (
	closeAllCmd = &cobra.Command{
		Use:     "close-all",
		Short:   "Liquidate every open position",
		Example: "alpaca-cli trading positions close-all --cancel-orders",
		RunE:    executeCloseAll,
	}

	flagCancelOrders bool
	flagCloseAllYes  bool
)

func init() {
	closeAllCmd.Flags().BoolVar(&flagCancelOrders, "cancel-orders", false, "cancel open orders before liquidating")
	closeAllCmd.Flags().BoolVarP(&flagCloseAllYes, "yes", "y", false, "skip the confirmation prompt")
}

func executeCloseAll(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	if !flagCloseAllYes && !session.Confirm(
		fmt.Sprintf("Close ALL positions on the %s account?", modeName(cfg.Paper()))) {
		fmt.Println("Aborted")
		return nil
	}
	if err := client.CloseAllPositions(flagCancelOrders); err != nil {
		return fmt.Errorf("failed to close positions: %w", err)
	}
	fmt.Println("Submitted orders to close all positions")
	return nil
}

func modeName(paper bool) string {
	if paper {
		return "paper"
	}
	return "live"
}

var exerciseCmd = &cobra.Command{
	Use:     "exercise CONTRACT",
	Short:   "Exercise a held option contract",
	Example: "alpaca-cli trading positions exercise AAPL240621C00190000",
	Args:    cobra.ExactArgs(1),
	RunE:    executeExercise,
}

func executeExercise(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	contract := strings.ToUpper(args[0])
	if err := client.ExercisePosition(contract); err != nil {
		return fmt.Errorf("failed to exercise %s: %w", contract, err)
	}
	fmt.Printf("Submitted exercise request for %s\n", contract)
	return nil
}
