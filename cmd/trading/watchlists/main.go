// Package watchlists implements watchlist management subcommands.
// Watchlists can be addressed by UUID or, more conveniently, by name.
package watchlists

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

const (
	usage   = "watchlists"
	short   = "Manages watchlists"
	long    = "This command creates, shows, updates and deletes watchlists. Arguments accept either the watchlist UUID or its name."
	example = "alpaca-cli trading watchlists create tech AAPL,MSFT,NVDA"
)

// Cmd is the watchlists command.
var Cmd = &cobra.Command{
	Use:     usage,
	Short:   short,
	Long:    long,
	Example: example,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(removeCmd)
	Cmd.AddCommand(deleteCmd)
}

// resolve maps a name to a watchlist ID. UUID-shaped arguments pass
// through untouched.
func resolve(client *api.Client, nameOrID string) (string, error) {
	if looksLikeUUID(nameOrID) {
		return nameOrID, nil
	}
	lists, err := client.ListWatchlists()
	if err != nil {
		return "", fmt.Errorf("failed to fetch watchlists: %w", err)
	}
	for _, wl := range lists {
		if strings.EqualFold(wl.Name, nameOrID) {
			return wl.ID, nil
		}
	}
	return "", fmt.Errorf("no watchlist named %q", nameOrID)
}

func looksLikeUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i, r := range s {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			switch {
			case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
			default:
				return false
			}
		}
	}
	return true
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all watchlists",
	Example: "alpaca-cli trading watchlists list",
	RunE:    executeList,
}

func executeList(cmd *cobra.Command, _ []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	lists, err := client.ListWatchlists()
	if err != nil {
		return fmt.Errorf("failed to fetch watchlists: %w", err)
	}
	rows := make([][]string, 0, len(lists))
	for _, wl := range lists {
		rows = append(rows, []string{wl.Name, wl.ID, session.Timestamp(wl.UpdatedAt)})
	}
	format.PrintTable("Watchlists", []string{"Name", "ID", "Updated"}, rows)
	return nil
}

var showCmd = &cobra.Command{
	Use:     "show NAME_OR_ID",
	Short:   "Show the assets on a watchlist",
	Example: "alpaca-cli trading watchlists show tech",
	Args:    cobra.ExactArgs(1),
	RunE:    executeShow,
}

func executeShow(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	id, err := resolve(client, args[0])
	if err != nil {
		return err
	}
	wl, err := client.GetWatchlist(id)
	if err != nil {
		return fmt.Errorf("failed to fetch watchlist %s: %w", args[0], err)
	}
	rows := make([][]string, 0, len(wl.Assets))
	for _, a := range wl.Assets {
		rows = append(rows, []string{a.Symbol, a.Name, a.Exchange})
	}
	format.PrintTable("Watchlist "+wl.Name, []string{"Symbol", "Name", "Exchange"}, rows)
	return nil
}

var createCmd = &cobra.Command{
	Use:     "create NAME [SYMBOLS]",
	Short:   "Create a watchlist",
	Example: "alpaca-cli trading watchlists create tech AAPL,MSFT",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    executeCreate,
}

func executeCreate(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	req := api.CreateWatchlistRequest{Name: args[0], Symbols: []string{}}
	if len(args) == 2 {
		req.Symbols = session.SplitSymbols(args[1])
	}
	wl, err := client.CreateWatchlist(req)
	if err != nil {
		return fmt.Errorf("failed to create watchlist %s: %w", args[0], err)
	}
	fmt.Printf("Created watchlist %s (%s)\n", wl.Name, wl.ID)
	return nil
}

var (
	updateCmd = &cobra.Command{
		Use:     "update NAME_OR_ID",
		Short:   "Rename a watchlist or replace its symbols",
		Example: "alpaca-cli trading watchlists update tech --symbols AAPL,GOOG",
		Args:    cobra.ExactArgs(1),
		RunE:    executeUpdate,
	}

	flagUpdateName    string
	flagUpdateSymbols string
)

func init() {
	updateCmd.Flags().StringVar(&flagUpdateName, "name", "", "new watchlist name")
	updateCmd.Flags().StringVar(&flagUpdateSymbols, "symbols", "", "comma separated symbols replacing the current list")
}

func executeUpdate(cmd *cobra.Command, args []string) error {
	if flagUpdateName == "" && flagUpdateSymbols == "" {
		return fmt.Errorf("nothing to update, set --name or --symbols")
	}
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	id, err := resolve(client, args[0])
	if err != nil {
		return err
	}
	req := api.UpdateWatchlistRequest{Name: flagUpdateName}
	if flagUpdateSymbols != "" {
		req.Symbols = session.SplitSymbols(flagUpdateSymbols)
	}
	wl, err := client.UpdateWatchlist(id, req)
	if err != nil {
		return fmt.Errorf("failed to update watchlist %s: %w", args[0], err)
	}
	fmt.Printf("Updated watchlist %s\n", wl.Name)
	return nil
}

var addCmd = &cobra.Command{
	Use:     "add NAME_OR_ID SYMBOL",
	Short:   "Add a symbol to a watchlist",
	Example: "alpaca-cli trading watchlists add tech NVDA",
	Args:    cobra.ExactArgs(2),
	RunE:    executeAdd,
}

func executeAdd(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	id, err := resolve(client, args[0])
	if err != nil {
		return err
	}
	symbol := strings.ToUpper(args[1])
	wl, err := client.AddToWatchlist(id, symbol)
	if err != nil {
		return fmt.Errorf("failed to add %s to watchlist %s: %w", symbol, args[0], err)
	}
	fmt.Printf("Added %s to %s\n", symbol, wl.Name)
	return nil
}

var removeCmd = &cobra.Command{
	Use:     "remove NAME_OR_ID SYMBOL",
	Short:   "Remove a symbol from a watchlist",
	Example: "alpaca-cli trading watchlists remove tech NVDA",
	Args:    cobra.ExactArgs(2),
	RunE:    executeRemove,
}

func executeRemove(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	id, err := resolve(client, args[0])
	if err != nil {
		return err
	}
	symbol := strings.ToUpper(args[1])
	if err := client.RemoveFromWatchlist(id, symbol); err != nil {
		return fmt.Errorf("failed to remove %s from watchlist %s: %w", symbol, args[0], err)
	}
	fmt.Printf("Removed %s from %s\n", symbol, args[0])
	return nil
}

var deleteCmd = &cobra.Command{
	Use:     "delete NAME_OR_ID",
	Short:   "Delete a watchlist",
	Example: "alpaca-cli trading watchlists delete tech",
	Args:    cobra.ExactArgs(1),
	RunE:    executeDelete,
}

func executeDelete(cmd *cobra.Command, args []string) error {
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	id, err := resolve(client, args[0])
	if err != nil {
		return err
	}
	if err := client.DeleteWatchlist(id); err != nil {
		return fmt.Errorf("failed to delete watchlist %s: %w", args[0], err)
	}
	fmt.Printf("Deleted watchlist %s\n", args[0])
	return nil
}
