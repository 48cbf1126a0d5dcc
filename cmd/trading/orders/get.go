package orders

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

var (
	getCmd = &cobra.Command{
		Use:     "get ORDER_ID",
		Short:   "Show one order by ID or client order ID",
		Example: "alpaca-cli trading orders get 61e6-... ",
		Args:    cobra.ExactArgs(1),
		RunE:    executeGet,
	}

	flagByClientOrderID bool
)

func init() {
	getCmd.Flags().BoolVar(&flagByClientOrderID, "client-order-id", false, "treat the argument as a client order ID")
}

func executeGet(cmd *cobra.Command, args []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	var order *api.Order
	if flagByClientOrderID {
		order, err = client.GetOrderByClientOrderID(args[0])
	} else {
		order, err = client.GetOrder(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to fetch order %s: %w", args[0], err)
	}

	printOrderDetails(cfg.Paper(), order)
	return nil
}

func printOrderDetails(paper bool, o *api.Order) {
	rows := [][]string{
		{"ID", o.ID},
		{"Client Order ID", o.ClientOrderID},
		{"Symbol", o.Symbol},
		{"Asset Class", o.AssetClass},
		{"Side", strings.ToUpper(o.Side)},
		{"Type", o.Type},
		{"Time In Force", o.TimeInForce},
		{"Status", o.Status},
		{"Filled Qty", o.FilledQty.String()},
	}
	if o.Qty != nil {
		rows = append(rows, []string{"Qty", o.Qty.String()})
	}
	if o.Notional != nil {
		rows = append(rows, []string{"Notional", format.Currency(*o.Notional)})
	}
	if o.LimitPrice != nil {
		rows = append(rows, []string{"Limit Price", format.Currency(*o.LimitPrice)})
	}
	if o.StopPrice != nil {
		rows = append(rows, []string{"Stop Price", format.Currency(*o.StopPrice)})
	}
	if o.TrailPrice != nil {
		rows = append(rows, []string{"Trail Price", format.Currency(*o.TrailPrice)})
	}
	if o.TrailPercent != nil {
		rows = append(rows, []string{"Trail Percent", o.TrailPercent.String() + "%"})
	}
	if o.FilledAvgPrice != nil {
		rows = append(rows, []string{"Filled Avg Price", format.Currency(*o.FilledAvgPrice)})
	}
	if o.SubmittedAt != nil {
		rows = append(rows, []string{"Submitted At", session.Timestamp(*o.SubmittedAt)})
	}
	if o.FilledAt != nil {
		rows = append(rows, []string{"Filled At", session.Timestamp(*o.FilledAt)})
	}
	if o.OrderClass != "" {
		rows = append(rows, []string{"Order Class", o.OrderClass})
	}
	for _, leg := range o.Legs {
		rows = append(rows, []string{"Leg", fmt.Sprintf("%s %s (%s)", leg.Type, leg.ID, leg.Status)})
	}
	format.PrintTable(format.ModeBanner(paper)+" Order", []string{"Field", "Value"}, rows)
}
