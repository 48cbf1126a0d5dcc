package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
)

var (
	modifyCmd = &cobra.Command{
		Use:     "modify ORDER_ID",
		Short:   "Replace an open order with changed parameters",
		Example: "alpaca-cli trading orders modify 61e6-... --limit 182.50",
		Args:    cobra.ExactArgs(1),
		RunE:    executeModify,
	}

	flagModifyQty           string
	flagModifyLimit         string
	flagModifyStop          string
	flagModifyTrail         string
	flagModifyTIF           string
	flagModifyClientOrderID string
)

func init() {
	modifyCmd.Flags().StringVar(&flagModifyQty, "qty", "", "new quantity")
	modifyCmd.Flags().StringVar(&flagModifyLimit, "limit", "", "new limit price")
	modifyCmd.Flags().StringVar(&flagModifyStop, "stop", "", "new stop price")
	modifyCmd.Flags().StringVar(&flagModifyTrail, "trail", "", "new trail price or percent")
	modifyCmd.Flags().StringVar(&flagModifyTIF, "tif", "", "new time in force")
	modifyCmd.Flags().StringVar(&flagModifyClientOrderID, "client-order-id", "", "client order ID for the replacement")
}

func parseDecimalFlag(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s value %q", name, value)
	}
	return &d, nil
}

func executeModify(cmd *cobra.Command, args []string) error {
	req := api.ReplaceOrderRequest{
		TimeInForce:   flagModifyTIF,
		ClientOrderID: flagModifyClientOrderID,
	}
	var err error
	if req.Qty, err = parseDecimalFlag("qty", flagModifyQty); err != nil {
		return err
	}
	if req.LimitPrice, err = parseDecimalFlag("limit", flagModifyLimit); err != nil {
		return err
	}
	if req.StopPrice, err = parseDecimalFlag("stop", flagModifyStop); err != nil {
		return err
	}
	if req.Trail, err = parseDecimalFlag("trail", flagModifyTrail); err != nil {
		return err
	}
	if req.Qty == nil && req.LimitPrice == nil && req.StopPrice == nil &&
		req.Trail == nil && req.TimeInForce == "" && req.ClientOrderID == "" {
		return fmt.Errorf("nothing to modify, set at least one flag")
	}

	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	order, err := client.ReplaceOrder(args[0], req)
	if err != nil {
		return fmt.Errorf("failed to replace order %s: %w", args[0], err)
	}
	printOrderDetails(cfg.Paper(), order)
	return nil
}
