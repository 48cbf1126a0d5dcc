// Package assets implements asset lookup subcommands.
package assets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "assets"
	short   = "Looks up tradable assets"
	long    = "This command lists and inspects the assets available for trading"
	example = `alpaca-cli trading assets list --class us_equity --match "AAP*"`
)

// Cmd is the assets command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

var (
	listCmd = &cobra.Command{
		Use:     "list",
		Short:   "List assets, optionally filtered by a symbol glob",
		Example: example,
		RunE:    executeList,
	}

	flagStatus   string
	flagClass    string
	flagExchange string
	flagMatch    string
	listOut      format.Flags
)

func init() {
	listCmd.Flags().StringVar(&flagStatus, "status", "active", "asset status: active or inactive")
	listCmd.Flags().StringVar(&flagClass, "class", "", "asset class: us_equity, us_option or crypto")
	listCmd.Flags().StringVar(&flagExchange, "exchange", "", "filter by exchange")
	listCmd.Flags().StringVar(&flagMatch, "match", "", "glob pattern matched against symbols, e.g. 'AAP*'")
	listOut.Register(listCmd.Flags())

	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
}

func executeList(cmd *cobra.Command, _ []string) error {
	var matcher glob.Glob
	if flagMatch != "" {
		var err error
		matcher, err = glob.Compile(strings.ToUpper(flagMatch))
		if err != nil {
			return fmt.Errorf("invalid --match pattern %q: %w", flagMatch, err)
		}
	}
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	assets, err := client.ListAssets(api.ListAssetsParams{
		Status:     flagStatus,
		AssetClass: flagClass,
		Exchange:   flagExchange,
	})
	if err != nil {
		return fmt.Errorf("failed to fetch assets: %w", err)
	}

	d := format.Data{
		Title:   "Assets",
		Columns: []string{"Symbol", "Name", "Class", "Exchange", "Status", "Tradable", "Fractionable"},
	}
	for _, a := range assets {
		if matcher != nil && !matcher.Match(a.Symbol) {
			continue
		}
		d.Append(a.Symbol, a.Name, a.Class, a.Exchange, a.Status,
			strconv.FormatBool(a.Tradable), strconv.FormatBool(a.Fractionable))
	}
	return listOut.Output(d)
}

var getCmd = &cobra.Command{
	Use:     "get SYMBOL",
	Short:   "Show one asset",
	Example: "alpaca-cli trading assets get AAPL",
	Args:    cobra.ExactArgs(1),
	RunE:    executeGet,
}

func executeGet(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	symbol := strings.ToUpper(args[0])
	a, err := client.GetAsset(symbol)
	if err != nil {
		return fmt.Errorf("failed to fetch asset %s: %w", symbol, err)
	}

	rows := [][]string{
		{"ID", a.ID},
		{"Symbol", a.Symbol},
		{"Name", a.Name},
		{"Class", a.Class},
		{"Exchange", a.Exchange},
		{"Status", a.Status},
		{"Tradable", strconv.FormatBool(a.Tradable)},
		{"Marginable", strconv.FormatBool(a.Marginable)},
		{"Shortable", strconv.FormatBool(a.Shortable)},
		{"Easy To Borrow", strconv.FormatBool(a.EasyToBorrow)},
		{"Fractionable", strconv.FormatBool(a.Fractionable)},
	}
	format.PrintTable("Asset "+a.Symbol, []string{"Field", "Value"}, rows)
	return nil
}
