package orders

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
)

// placeFlags are the options shared by every order placement command.
type placeFlags struct {
	tif           string
	clientOrderID string
	extendedHours bool
	takeProfit    string
	stopLoss      string
	stopLossLimit string
}

func (f *placeFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.tif, "tif", "day", "time in force: day, gtc, opg, cls, ioc or fok")
	c.Flags().StringVar(&f.clientOrderID, "client-order-id", "", "user-defined order identifier")
	c.Flags().BoolVar(&f.extendedHours, "extended-hours", false, "allow execution outside regular hours (limit day orders only)")
	c.Flags().StringVar(&f.takeProfit, "take-profit", "", "attach a take-profit leg at this limit price")
	c.Flags().StringVar(&f.stopLoss, "stop-loss", "", "attach a stop-loss leg at this stop price")
	c.Flags().StringVar(&f.stopLossLimit, "stop-loss-limit", "", "limit price for the stop-loss leg")
}

// apply fills the common request fields and the bracket legs.
func (f *placeFlags) apply(req *api.PlaceOrderRequest) error {
	req.TimeInForce = f.tif
	req.ClientOrderID = f.clientOrderID
	req.ExtendedHours = f.extendedHours

	takeProfit, err := parseDecimalFlag("take-profit", f.takeProfit)
	if err != nil {
		return err
	}
	stopLoss, err := parseDecimalFlag("stop-loss", f.stopLoss)
	if err != nil {
		return err
	}
	stopLossLimit, err := parseDecimalFlag("stop-loss-limit", f.stopLossLimit)
	if err != nil {
		return err
	}
	if stopLossLimit != nil && stopLoss == nil {
		return fmt.Errorf("--stop-loss-limit requires --stop-loss")
	}
	if takeProfit == nil && stopLoss == nil {
		return nil
	}

	req.OrderClass = "bracket"
	if takeProfit != nil && stopLoss == nil {
		req.OrderClass = "oto"
	}
	if takeProfit != nil {
		req.TakeProfit = &api.TakeProfit{LimitPrice: takeProfit}
	}
	if stopLoss != nil {
		req.StopLoss = &api.StopLoss{StopPrice: stopLoss, LimitPrice: stopLossLimit}
	}
	return nil
}

// NewBuyCmd builds the buy order group. The top-level buy alias is a
// second instance of the same command.
func NewBuyCmd() *cobra.Command {
	return newSideCmd("buy")
}

// NewSellCmd builds the sell order group. The top-level sell alias is a
// second instance of the same command.
func NewSellCmd() *cobra.Command {
	return newSideCmd("sell")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newSideCmd(side string) *cobra.Command {
	c := &cobra.Command{
		Use:     side,
		Short:   fmt.Sprintf("Place a %s order", side),
		Example: fmt.Sprintf("alpaca-cli trading orders %s market AAPL 10", side),
	}
	c.AddCommand(newMarketCmd(side))
	c.AddCommand(newLimitCmd(side))
	c.AddCommand(newStopCmd(side))
	c.AddCommand(newTrailingCmd(side))
	return c
}

func newMarketCmd(side string) *cobra.Command {
	var (
		flags    placeFlags
		notional string
	)
	c := &cobra.Command{
		Use:     "market SYMBOL [QTY]",
		Short:   fmt.Sprintf("%s at market price", capitalize(side)),
		Example: fmt.Sprintf("alpaca-cli trading orders %s market AAPL --notional 500", side),
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := api.PlaceOrderRequest{
				Symbol: strings.ToUpper(args[0]),
				Side:   side,
				Type:   "market",
			}
			switch {
			case len(args) == 2 && notional != "":
				return fmt.Errorf("provide either a quantity or --notional, not both")
			case len(args) == 2:
				qty, err := decimal.NewFromString(args[1])
				if err != nil {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
				req.Qty = &qty
			case notional != "":
				n, err := decimal.NewFromString(notional)
				if err != nil {
					return fmt.Errorf("invalid --notional value %q", notional)
				}
				req.Notional = &n
			default:
				return fmt.Errorf("provide a quantity or --notional")
			}
			if err := flags.apply(&req); err != nil {
				return err
			}
			return submit(cmd, req)
		},
	}
	flags.register(c)
	c.Flags().StringVar(&notional, "notional", "", "dollar amount to trade instead of a share quantity")
	return c
}

func newLimitCmd(side string) *cobra.Command {
	var flags placeFlags
	c := &cobra.Command{
		Use:     "limit SYMBOL QTY LIMIT",
		Short:   fmt.Sprintf("%s with a limit price", capitalize(side)),
		Example: fmt.Sprintf("alpaca-cli trading orders %s limit AAPL 10 180.00", side),
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			limit, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid limit price %q", args[2])
			}
			req := api.PlaceOrderRequest{
				Symbol:     strings.ToUpper(args[0]),
				Side:       side,
				Type:       "limit",
				Qty:        &qty,
				LimitPrice: &limit,
			}
			if err := flags.apply(&req); err != nil {
				return err
			}
			return submit(cmd, req)
		},
	}
	flags.register(c)
	return c
}

func newStopCmd(side string) *cobra.Command {
	var (
		flags      placeFlags
		limitPrice string
	)
	c := &cobra.Command{
		Use:     "stop SYMBOL QTY STOP",
		Short:   fmt.Sprintf("%s once a stop price trades", capitalize(side)),
		Example: fmt.Sprintf("alpaca-cli trading orders %s stop AAPL 10 170.00 --limit 169.50", side),
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			stop, err := decimal.NewFromString(args[2])
			if err != nil {
				return fmt.Errorf("invalid stop price %q", args[2])
			}
			req := api.PlaceOrderRequest{
				Symbol:    strings.ToUpper(args[0]),
				Side:      side,
				Type:      "stop",
				Qty:       &qty,
				StopPrice: &stop,
			}
			if limitPrice != "" {
				limit, err := decimal.NewFromString(limitPrice)
				if err != nil {
					return fmt.Errorf("invalid --limit value %q", limitPrice)
				}
				req.Type = "stop_limit"
				req.LimitPrice = &limit
			}
			if err := flags.apply(&req); err != nil {
				return err
			}
			return submit(cmd, req)
		},
	}
	flags.register(c)
	c.Flags().StringVar(&limitPrice, "limit", "", "limit price, turning the order into a stop-limit")
	return c
}

func newTrailingCmd(side string) *cobra.Command {
	var (
		flags        placeFlags
		trailPrice   string
		trailPercent string
	)
	c := &cobra.Command{
		Use:     "trailing SYMBOL QTY",
		Short:   fmt.Sprintf("%s with a trailing stop", capitalize(side)),
		Example: fmt.Sprintf("alpaca-cli trading orders %s trailing AAPL 10 --trail-percent 2", side),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (trailPrice == "") == (trailPercent == "") {
				return fmt.Errorf("provide exactly one of --trail-price and --trail-percent")
			}
			qty, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}
			req := api.PlaceOrderRequest{
				Symbol: strings.ToUpper(args[0]),
				Side:   side,
				Type:   "trailing_stop",
				Qty:    &qty,
			}
			if req.TrailPrice, err = parseDecimalFlag("trail-price", trailPrice); err != nil {
				return err
			}
			if req.TrailPercent, err = parseDecimalFlag("trail-percent", trailPercent); err != nil {
				return err
			}
			if err := flags.apply(&req); err != nil {
				return err
			}
			return submit(cmd, req)
		},
	}
	flags.register(c)
	c.Flags().StringVar(&trailPrice, "trail-price", "", "trail amount in dollars")
	c.Flags().StringVar(&trailPercent, "trail-percent", "", "trail amount in percent")
	return c
}

func submit(cmd *cobra.Command, req api.PlaceOrderRequest) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	order, err := client.PlaceOrder(req)
	if err != nil {
		return fmt.Errorf("failed to place %s %s order for %s: %w", req.Side, req.Type, req.Symbol, err)
	}
	printOrderDetails(cfg.Paper(), order)
	return nil
}
