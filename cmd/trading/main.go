// Package trading groups the brokerage subcommands.
package trading

import (
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/trading/account"
	"github.com/alpacahq/alpaca-cli/cmd/trading/assets"
	"github.com/alpacahq/alpaca-cli/cmd/trading/contracts"
	"github.com/alpacahq/alpaca-cli/cmd/trading/market"
	"github.com/alpacahq/alpaca-cli/cmd/trading/orders"
	"github.com/alpacahq/alpaca-cli/cmd/trading/positions"
	"github.com/alpacahq/alpaca-cli/cmd/trading/stream"
	"github.com/alpacahq/alpaca-cli/cmd/trading/watchlists"
)

const (
	usage   = "trading"
	short   = "Executes trading subcommands"
	long    = "This command manages the brokerage account: orders, positions, assets, watchlists, option contracts and the market clock"
	example = "alpaca-cli trading positions list"
)

// Cmd is the trading command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(account.Cmd)
	Cmd.AddCommand(orders.Cmd)
	Cmd.AddCommand(positions.Cmd)
	Cmd.AddCommand(assets.Cmd)
	Cmd.AddCommand(watchlists.Cmd)
	Cmd.AddCommand(contracts.Cmd)
	Cmd.AddCommand(market.NewClockCmd())
	Cmd.AddCommand(market.CalendarCmd())
	Cmd.AddCommand(stream.Cmd)
}
