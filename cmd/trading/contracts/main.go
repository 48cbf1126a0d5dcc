// Package contracts implements option contract lookup subcommands.
package contracts

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
	usage   = "contracts"
	short   = "Looks up listed option contracts"
	long    = "This command lists and inspects the option contracts tradable on an underlying symbol"
	example = "alpaca-cli trading contracts list AAPL --type call --expiry-to 2024-12-31"
)

// Cmd is the contracts command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

var (
	listCmd = &cobra.Command{
		Use:     "list UNDERLYING",
		Short:   "List contracts on an underlying",
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE:    executeList,
	}

	flagExpiry     string
	flagExpiryFrom string
	flagExpiryTo   string
	flagType       string
	flagStrikeFrom string
	flagStrikeTo   string
	flagLimit      int
	listOut        format.Flags
)

func init() {
	listCmd.Flags().StringVar(&flagExpiry, "expiry", "", "exact expiration date, YYYY-MM-DD")
	listCmd.Flags().StringVar(&flagExpiryFrom, "expiry-from", "", "earliest expiration date")
	listCmd.Flags().StringVar(&flagExpiryTo, "expiry-to", "", "latest expiration date")
	listCmd.Flags().StringVar(&flagType, "type", "", "contract type: call or put")
	listCmd.Flags().StringVar(&flagStrikeFrom, "strike-from", "", "lowest strike price")
	listCmd.Flags().StringVar(&flagStrikeTo, "strike-to", "", "highest strike price")
	listCmd.Flags().IntVar(&flagLimit, "limit", 100, "maximum number of contracts")
	listOut.Register(listCmd.Flags())

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
}

func executeList(cmd *cobra.Command, args []string) error {
	params := api.ListOptionContractsParams{
		UnderlyingSymbols: strings.ToUpper(args[0]),
		ExpirationDate:    flagExpiry,
		ExpirationDateGte: flagExpiryFrom,
		ExpirationDateLte: flagExpiryTo,
		Type:              flagType,
		Limit:             flagLimit,
	}
	var err error
	if params.StrikePriceGte, err = parseDecimal("strike-from", flagStrikeFrom); err != nil {
		return err
	}
	if params.StrikePriceLte, err = parseDecimal("strike-to", flagStrikeTo); err != nil {
		return err
	}

	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	contracts, err := client.ListOptionContracts(params)
	if err != nil {
		return fmt.Errorf("failed to fetch contracts for %s: %w", args[0], err)
	}

	d := format.Data{
		Title:   "Option Contracts " + strings.ToUpper(args[0]),
		Columns: []string{"Symbol", "Type", "Strike", "Expiry", "Style", "Close", "Open Interest"},
	}
	for _, c := range contracts {
		closePrice, openInterest := "-", "-"
		if c.ClosePrice != nil {
			closePrice = format.Currency(*c.ClosePrice)
		}
		if c.OpenInterest != nil {
			openInterest = c.OpenInterest.String()
		}
		d.Append(c.Symbol, c.Type, format.Currency(c.StrikePrice), c.ExpirationDate,
			c.Style, closePrice, openInterest)
	}
	return listOut.Output(d)
}

var getCmd = &cobra.Command{
	Use:     "get CONTRACT",
	Short:   "Show one contract by OCC symbol or ID",
	Example: "alpaca-cli trading contracts get AAPL240621C00190000",
	Args:    cobra.ExactArgs(1),
	RunE:    executeGet,
}

func executeGet(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	c, err := client.GetOptionContract(strings.ToUpper(args[0]))
	if err != nil {
		return fmt.Errorf("failed to fetch contract %s: %w", args[0], err)
	}

	rows := [][]string{
		{"Symbol", c.Symbol},
		{"Name", c.Name},
		{"Underlying", c.UnderlyingSymbol},
		{"Type", c.Type},
		{"Style", c.Style},
		{"Strike", format.Currency(c.StrikePrice)},
		{"Expiry", c.ExpirationDate},
		{"Size", c.Size.String()},
		{"Status", c.Status},
	}
	if c.OpenInterest != nil {
		rows = append(rows, []string{"Open Interest", c.OpenInterest.String()})
	}
	if c.ClosePrice != nil {
		rows = append(rows, []string{"Close Price", format.Currency(*c.ClosePrice) + " (" + c.ClosePriceDate + ")"})
	}
	format.PrintTable("Contract "+c.Symbol, []string{"Field", "Value"}, rows)
	return nil
}

func parseDecimal(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q", name, value)
	}
	return &d, nil
}
