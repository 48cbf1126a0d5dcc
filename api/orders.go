package api

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TakeProfit is the take-profit leg of a bracket order.
type TakeProfit struct {
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
}

// StopLoss is the stop-loss leg of a bracket order.
type StopLoss struct {
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice  *decimal.Decimal `json:"stop_price,omitempty"`
}

// PlaceOrderRequest is the body for POST /v2/orders.
type PlaceOrderRequest struct {
	Symbol         string           `json:"symbol"`
	Qty            *decimal.Decimal `json:"qty,omitempty"`
	Notional       *decimal.Decimal `json:"notional,omitempty"`
	Side           string           `json:"side"`
	Type           string           `json:"type"`
	TimeInForce    string           `json:"time_in_force"`
	LimitPrice     *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice      *decimal.Decimal `json:"stop_price,omitempty"`
	TrailPrice     *decimal.Decimal `json:"trail_price,omitempty"`
	TrailPercent   *decimal.Decimal `json:"trail_percent,omitempty"`
	ExtendedHours  bool             `json:"extended_hours,omitempty"`
	ClientOrderID  string           `json:"client_order_id,omitempty"`
	OrderClass     string           `json:"order_class,omitempty"`
	TakeProfit     *TakeProfit      `json:"take_profit,omitempty"`
	StopLoss       *StopLoss        `json:"stop_loss,omitempty"`
	PositionIntent string           `json:"position_intent,omitempty"`
}

// PlaceOrder submits an order and returns the created order.
func (c *Client) PlaceOrder(req PlaceOrderRequest) (*Order, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/orders", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.post(u, req)
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err = unmarshal(resp, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrdersParams filters GET /v2/orders.
type ListOrdersParams struct {
	Status    string
	Limit     int
	After     *time.Time
	Until     *time.Time
	Direction string
	Nested    bool
	Side      string
	Symbols   string
}

// ListOrders returns the account's orders, most recent first.
func (c *Client) ListOrders(params ListOrdersParams) ([]Order, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/orders", c.base))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.Limit != 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.After != nil {
		q.Set("after", params.After.Format(time.RFC3339))
	}
	if params.Until != nil {
		q.Set("until", params.Until.Format(time.RFC3339))
	}
	if params.Direction != "" {
		q.Set("direction", params.Direction)
	}
	if params.Nested {
		q.Set("nested", "true")
	}
	if params.Side != "" {
		q.Set("side", params.Side)
	}
	if params.Symbols != "" {
		q.Set("symbols", params.Symbols)
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	orders := []Order{}
	if err = unmarshal(resp, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder returns a single order by its ID.
func (c *Client) GetOrder(orderID string) (*Order, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/orders/%s", c.base, orderID))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err = unmarshal(resp, order); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderByClientOrderID returns a single order by its client order ID.
func (c *Client) GetOrderByClientOrderID(clientOrderID string) (*Order, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/orders:by_client_order_id", c.base))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("client_order_id", clientOrderID)
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err = unmarshal(resp, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceOrderRequest is the body for PATCH /v2/orders/{id}. Nil fields
// keep the existing order's values.
type ReplaceOrderRequest struct {
	Qty           *decimal.Decimal `json:"qty,omitempty"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice     *decimal.Decimal `json:"stop_price,omitempty"`
	Trail         *decimal.Decimal `json:"trail,omitempty"`
	TimeInForce   string           `json:"time_in_force,omitempty"`
	ClientOrderID string           `json:"client_order_id,omitempty"`
}

// ReplaceOrder atomically cancels the order and resubmits it with the
// changed fields, returning the replacement order.
func (c *Client) ReplaceOrder(orderID string, req ReplaceOrderRequest) (*Order, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/orders/%s", c.base, orderID))
	if err != nil {
		return nil, err
	}
	resp, err := c.patch(u, req)
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err = unmarshal(resp, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels an open order.
func (c *Client) CancelOrder(orderID string) error {
	u, err := url.Parse(fmt.Sprintf("%s/v2/orders/%s", c.base, orderID))
	if err != nil {
		return err
	}
	resp, err := c.delete(u)
	if err != nil {
		return err
	}
	closeResp(resp)
	return nil
}

// CancelAllOrders cancels every open order on the account.
func (c *Client) CancelAllOrders() error {
	u, err := url.Parse(fmt.Sprintf("%s/v2/orders", c.base))
	if err != nil {
		return err
	}
	resp, err := c.delete(u)
	if err != nil {
		return err
	}
	closeResp(resp)
	return nil
}
