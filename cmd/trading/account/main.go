// Package account implements the trading account subcommands.
package account

import (
	"github.com/spf13/cobra"
)

const (
	usage   = "account"
	short   = "Shows and manages the trading account"
	long    = "This command shows the trading account state, configuration, portfolio history and activities"
	example = "alpaca-cli trading account status"
)

// Cmd is the account command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(NewStatusCmd())
	Cmd.AddCommand(configCmd)
	Cmd.AddCommand(historyCmd)
	Cmd.AddCommand(activitiesCmd)
}
