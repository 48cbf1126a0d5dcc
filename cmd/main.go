// Package cmd builds the CLI command tree.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/configure"
	"github.com/alpacahq/alpaca-cli/cmd/dashboard"
	"github.com/alpacahq/alpaca-cli/cmd/data"
	"github.com/alpacahq/alpaca-cli/cmd/data/stock"
	"github.com/alpacahq/alpaca-cli/cmd/shell"
	"github.com/alpacahq/alpaca-cli/cmd/trading"
	"github.com/alpacahq/alpaca-cli/cmd/trading/account"
	"github.com/alpacahq/alpaca-cli/cmd/trading/market"
	"github.com/alpacahq/alpaca-cli/cmd/trading/orders"
	"github.com/alpacahq/alpaca-cli/cmd/trading/positions"
	"github.com/alpacahq/alpaca-cli/utils"
	"github.com/alpacahq/alpaca-cli/utils/log"
)

// flagPrintVersion set flag to show the current alpaca-cli version.
var flagPrintVersion bool

// flagDebug enables debug logging.
var flagDebug bool

// newRootCmd assembles the full command tree, including the top-level
// aliases which are second instances of the canonical commands.
func newRootCmd() *cobra.Command {
	c := &cobra.Command{
		Use: "alpaca-cli",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flagDebug {
				log.SetLevel(log.DEBUG)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print version if specified.
			if flagPrintVersion {
				log.Info("version: %+v", utils.Tag)
				log.Info("commit hash: %+v", utils.GitHash)
				log.Info("utc build time: %+v", utils.BuildStamp)
				return nil
			}
			// Print information regarding usage.
			return cmd.Usage()
		},
	}

	c.AddCommand(trading.Cmd)
	c.AddCommand(data.Cmd)
	c.AddCommand(configure.Cmd)
	c.AddCommand(dashboard.Cmd)
	c.AddCommand(shell.NewCmd(newRootCmd))

	// aliases
	c.AddCommand(orders.NewBuyCmd())
	c.AddCommand(orders.NewSellCmd())
	c.AddCommand(rename(positions.NewListCmd(), "pos"))
	c.AddCommand(rename(account.NewStatusCmd(), "status"))
	c.AddCommand(rename(stock.NewLatestCmd(), "quote SYMBOLS"))
	c.AddCommand(market.NewClockCmd())

	c.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	c.Flags().BoolVarP(&flagPrintVersion, "version", "v", false, "show the version info and exit")
	return c
}

// rename rebrands an alias instance without touching its handler.
func rename(c *cobra.Command, use string) *cobra.Command {
	c.Use = use
	return c
}

// Execute builds the command tree and executes commands.
func Execute() error {
	return newRootCmd().Execute()
}
