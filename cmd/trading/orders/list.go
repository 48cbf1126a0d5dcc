package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alpacahq/alpaca-cli/api"
	"github.com/alpacahq/alpaca-cli/cmd/session"
	"github.com/alpacahq/alpaca-cli/utils/format"
)

var (
	listCmd = &cobra.Command{
		Use:     "list",
		Short:   "List orders",
		Example: "alpaca-cli trading orders list --status open",
		RunE:    executeList,
	}

	flagListStatus    string
	flagListLimit     int
	flagListDays      int
	flagListDirection string
	flagListSide      string
	flagListSymbols   string
	flagListNested    bool
	listOut           format.Flags
)

func init() {
	listCmd.Flags().StringVar(&flagListStatus, "status", "open", "order status: open, closed or all")
	listCmd.Flags().IntVar(&flagListLimit, "limit", 50, "maximum number of orders")
	listCmd.Flags().IntVar(&flagListDays, "days", 0, "only orders submitted within the last N days")
	listCmd.Flags().StringVar(&flagListDirection, "direction", "", "sort direction: asc or desc")
	listCmd.Flags().StringVar(&flagListSide, "side", "", "filter by side: buy or sell")
	listCmd.Flags().StringVar(&flagListSymbols, "symbols", "", "comma separated symbol filter")
	listCmd.Flags().BoolVar(&flagListNested, "nested", false, "roll bracket legs up under their parent orders")
	listOut.Register(listCmd.Flags())
}

func executeList(cmd *cobra.Command, _ []string) error {
	client, cfg, err := session.Open()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	params := api.ListOrdersParams{
		Status:    flagListStatus,
		Limit:     flagListLimit,
		Direction: flagListDirection,
		Side:      flagListSide,
		Symbols:   strings.ToUpper(flagListSymbols),
		Nested:    flagListNested,
	}
	if flagListDays > 0 {
		// midnight N days back, local time
		now := time.Now()
		after := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local).
			AddDate(0, 0, -flagListDays)
		params.After = &after
	}

	orders, err := client.ListOrders(params)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	d := format.Data{
		Title:   format.ModeBanner(cfg.Paper()) + " Orders",
		Columns: []string{"ID", "Symbol", "Side", "Type", "Qty", "Filled", "Price", "Status", "Submitted"},
	}
	for _, o := range orders {
		d.Append(orderRow(o)...)
	}
	if len(orders) == 0 && listOut.Format == format.Table {
		fmt.Println("No orders")
		return nil
	}
	return listOut.OutputRecords(d, orderRecords(orders))
}

// orderRecord is the machine-readable shape of an exported order.
type orderRecord struct {
	ID            string `csv:"id"`
	ClientOrderID string `csv:"client_order_id"`
	Symbol        string `csv:"symbol"`
	Side          string `csv:"side"`
	Type          string `csv:"type"`
	Qty           string `csv:"qty"`
	Notional      string `csv:"notional"`
	FilledQty     string `csv:"filled_qty"`
	FilledPrice   string `csv:"filled_avg_price"`
	LimitPrice    string `csv:"limit_price"`
	StopPrice     string `csv:"stop_price"`
	Status        string `csv:"status"`
	SubmittedAt   string `csv:"submitted_at"`
}

func orderRecords(orders []api.Order) []orderRecord {
	str := func(d *decimal.Decimal) string {
		if d == nil {
			return ""
		}
		return d.String()
	}
	records := make([]orderRecord, 0, len(orders))
	for _, o := range orders {
		submitted := ""
		if o.SubmittedAt != nil {
			submitted = o.SubmittedAt.UTC().Format(time.RFC3339)
		}
		records = append(records, orderRecord{
			ID:            o.ID,
			ClientOrderID: o.ClientOrderID,
			Symbol:        o.Symbol,
			Side:          o.Side,
			Type:          o.Type,
			Qty:           str(o.Qty),
			Notional:      str(o.Notional),
			FilledQty:     o.FilledQty.String(),
			FilledPrice:   str(o.FilledAvgPrice),
			LimitPrice:    str(o.LimitPrice),
			StopPrice:     str(o.StopPrice),
			Status:        o.Status,
			SubmittedAt:   submitted,
		})
	}
	return records
}

func orderRow(o api.Order) []string {
	qty := "-"
	if o.Qty != nil {
		qty = o.Qty.String()
	} else if o.Notional != nil {
		qty = format.Currency(*o.Notional)
	}
	price := "-"
	switch {
	case o.FilledAvgPrice != nil:
		price = format.Currency(*o.FilledAvgPrice)
	case o.LimitPrice != nil:
		price = format.Currency(*o.LimitPrice)
	case o.StopPrice != nil:
		price = format.Currency(*o.StopPrice)
	}
	submitted := "-"
	if o.SubmittedAt != nil {
		submitted = session.Timestamp(*o.SubmittedAt)
	}
	return []string{
		o.ID,
		o.Symbol,
		strings.ToUpper(o.Side),
		o.Type,
		qty,
		o.FilledQty.String(),
		price,
		o.Status,
		submitted,
	}
}
