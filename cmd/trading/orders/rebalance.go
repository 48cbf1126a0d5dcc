package orders

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/rebalance"
	"github.com/alpacahq/alpaca-cli/utils/format"
	"github.com/alpacahq/alpaca-cli/utils/log"
)

var (
	rebalanceCmd = &cobra.Command{
		Use:     "rebalance WEIGHTS_FILE",
		Short:   "Rebalance the portfolio onto target weights",
		Long:    "This command computes and optionally submits the orders needed to move the portfolio onto the target weights given in a JSON file mapping symbols to fractions. A CASH entry is derived when absent. Without --execute only the plan is printed.",
		Example: `alpaca-cli trading orders rebalance weights.json --execute`,
		Args:    cobra.ExactArgs(1),
		RunE:    executeRebalance,
	}

	flagRebalanceShort     bool
	flagRebalanceExecute   bool
	flagRebalanceForce     bool
	flagRebalanceOrderType string
	flagRebalanceTIF       string
	flagRebalanceYes       bool
)

func init() {
	rebalanceCmd.Flags().BoolVar(&flagRebalanceShort, "allow-short", false, "allow target weights that result in short positions")
	rebalanceCmd.Flags().BoolVar(&flagRebalanceExecute, "execute", false, "submit the orders instead of only printing the plan")
	rebalanceCmd.Flags().BoolVar(&flagRebalanceForce, "force", false, "proceed even when the market is closed or open orders exist")
	rebalanceCmd.Flags().StringVar(&flagRebalanceOrderType, "order-type", "market", "order type: market, or limit at the calculation price")
	rebalanceCmd.Flags().StringVar(&flagRebalanceTIF, "tif", "day", "time in force for the submitted orders")
	rebalanceCmd.Flags().BoolVarP(&flagRebalanceYes, "yes", "y", false, "skip the confirmation prompt")
}

func readWeights(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file: %w", err)
	}
	raw := map[string]float64{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse weights file: %w", err)
	}
	weights := make(map[string]float64, len(raw))
	for sym, w := range raw {
		weights[strings.ToUpper(sym)] = w
	}
	return weights, nil
}

// missingPriceSymbols returns the target symbols without a known price,
// split by venue: pairs with a slash are crypto and live on a different
// endpoint than stocks.
func missingPriceSymbols(weights, prices map[string]float64) (stocks, crypto []string) {
	for sym := range weights {
		if sym == rebalance.CashSymbol {
			continue
		}
		if _, ok := prices[sym]; ok {
			continue
		}
		if strings.Contains(sym, "/") {
			crypto = append(crypto, sym)
		} else {
			stocks = append(stocks, sym)
		}
	}
	return stocks, crypto
}

func executeRebalance(cmd *cobra.Command, args []string) error {
	switch flagRebalanceOrderType {
	case "market", "limit":
	default:
		return fmt.Errorf("invalid --order-type %q, want market or limit", flagRebalanceOrderType)
	}
	weights, err := readWeights(args[0])
	if err != nil {
		return err
	}
	weights, err = rebalance.NormalizeWeights(weights)
	if err != nil {
		return err
	}

	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	if !flagRebalanceForce {
		clock, err := client.GetClock()
		if err != nil {
			return fmt.Errorf("failed to fetch market clock: %w", err)
		}
		if !clock.IsOpen {
			return fmt.Errorf("market is closed, pass --force to queue the orders anyway")
		}
		open, err := client.ListOrders(api.ListOrdersParams{Status: "open", Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to check open orders: %w", err)
		}
		if len(open) > 0 {
			return fmt.Errorf("open orders exist, cancel them first or pass --force")
		}
	}

	account, err := client.GetAccount()
	if err != nil {
		return fmt.Errorf("failed to fetch account: %w", err)
	}
	positionList, err := client.ListPositions()
	if err != nil {
		return fmt.Errorf("failed to fetch positions: %w", err)
	}

	positions := make(map[string]float64, len(positionList))
	prices := make(map[string]float64, len(positionList))
	for _, p := range positionList {
		positions[p.Symbol] = p.Qty.InexactFloat64()
		prices[p.Symbol] = p.CurrentPrice.InexactFloat64()
	}

	missingStocks, missingCrypto := missingPriceSymbols(weights, prices)
	if len(missingStocks) > 0 {
		trades, err := client.GetLatestTrades(missingStocks, "")
		if err != nil {
			return fmt.Errorf("failed to fetch prices: %w", err)
		}
		for sym, trade := range trades {
			prices[sym] = trade.Price
		}
	}
	if len(missingCrypto) > 0 {
		trades, err := client.GetLatestCryptoTrades(missingCrypto)
		if err != nil {
			return fmt.Errorf("failed to fetch crypto prices: %w", err)
		}
		for sym, trade := range trades {
			prices[sym] = trade.Price
		}
	}

	equity := account.Equity.InexactFloat64()
	orders, err := rebalance.Calculate(equity, positions, weights, prices, flagRebalanceShort)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("Portfolio already matches the target weights")
		return nil
	}

	d := format.Data{
		Title:   format.ModeBanner(cfg.Paper()) + " Rebalance Plan",
		Columns: []string{"Symbol", "Side", "Qty", "Est. Value"},
	}
	for _, o := range orders {
		price := decimal.NewFromFloat(prices[o.Symbol])
		d.Append(o.Symbol, strings.ToUpper(o.Side), o.Qty.String(),
			format.Currency(o.Qty.Mul(price)))
	}
	format.PrintTable(d.Title, d.Columns, d.Rows)

	if !flagRebalanceExecute {
		fmt.Println("Dry run, pass --execute to submit these orders")
		return nil
	}
	if !flagRebalanceYes && !session.Confirm(fmt.Sprintf("Submit %d orders?", len(orders))) {
		fmt.Println("Aborted")
		return nil
	}

	// sells first so the cash is free before the buys execute
	for _, o := range orders {
		qty := o.Qty
		req := api.PlaceOrderRequest{
			Symbol:      o.Symbol,
			Side:        o.Side,
			Type:        flagRebalanceOrderType,
			TimeInForce: flagRebalanceTIF,
			Qty:         &qty,
		}
		if flagRebalanceOrderType == "limit" {
			limit := decimal.NewFromFloat(prices[o.Symbol])
			req.LimitPrice = &limit
		}
		placed, err := client.PlaceOrder(req)
		if err != nil {
			return fmt.Errorf("failed to place %s order for %s: %w", o.Side, o.Symbol, err)
		}
		log.Debug("placed rebalance order %s", placed.ID)
		fmt.Printf("Placed %s %s %s (order %s)\n", o.Side, qty, o.Symbol, placed.ID)
	}
	return nil
}
