package orders

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/cmd/session"
)

var (
	cancelCmd = &cobra.Command{
		Use:     "cancel [ORDER_ID]",
		Short:   "Cancel one open order, or all of them",
		Example: "alpaca-cli trading orders cancel --all",
		Args:    cobra.MaximumNArgs(1),
		RunE:    executeCancel,
	}

	flagCancelAll bool
)

func init() {
	cancelCmd.Flags().BoolVar(&flagCancelAll, "all", false, "cancel every open order")
}

func executeCancel(cmd *cobra.Command, args []string) error {
	if flagCancelAll == (len(args) == 1) {
		return fmt.Errorf("provide either an order ID or --all")
	}
	client, _, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	if flagCancelAll {
		if err := client.CancelAllOrders(); err != nil {
			return fmt.Errorf("failed to cancel orders: %w", err)
		}
		fmt.Println("Cancelled all open orders")
		return nil
	}
	if err := client.CancelOrder(args[0]); err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", args[0], err)
	}
	fmt.Printf("Cancelled order %s\n", args[0])
	return nil
}
