// Package orders implements order listing, placement, modification and
// the portfolio rebalance helper.
package orders

import (
	"github.com/spf13/cobra"
)

const (
	usage   = "orders"
	short   = "Lists, places, modifies and cancels orders"
	long    = "This command manages orders: listing, lookup, placement (market, limit, stop, trailing), modification, cancellation and portfolio rebalancing"
	example = "alpaca-cli trading orders buy market AAPL 10"
)

// Cmd is the orders command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(getCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(modifyCmd)
	Cmd.AddCommand(NewBuyCmd())
	Cmd.AddCommand(NewSellCmd())
	Cmd.AddCommand(rebalanceCmd)
}
