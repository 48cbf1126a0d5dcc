// Package data groups the market-data subcommands.
package data

import (
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/data/crypto"
	"github.com/alpacahq/alpaca-cli/cmd/data/news"
	"github.com/alpacahq/alpaca-cli/cmd/data/options"
	"github.com/alpacahq/alpaca-cli/cmd/data/screeners"
	"github.com/alpacahq/alpaca-cli/cmd/data/stock"
)

const (
	usage   = "data"
	short   = "Executes market-data subcommands"
	long    = "This command fetches historical and real-time stock, crypto and options data, news and screener results"
	example = "alpaca-cli data stock history AAPL"
)

// Cmd is the data command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(stock.Cmd)
	Cmd.AddCommand(crypto.Cmd)
	Cmd.AddCommand(options.Cmd)
	Cmd.AddCommand(news.Cmd)
	Cmd.AddCommand(screeners.Cmd)
}
