package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// GetAccount returns the user's account information.
func (c *Client) GetAccount() (*Account, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/account", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	account := &Account{}
	if err = unmarshal(resp, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccountConfigurations returns the current account configuration.
func (c *Client) GetAccountConfigurations() (*AccountConfigurations, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/account/configurations", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	configs := &AccountConfigurations{}
	if err = unmarshal(resp, configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// UpdateAccountConfigurationsRequest carries the fields to change; nil
// pointers are left untouched server-side.
type UpdateAccountConfigurationsRequest struct {
	DtbpCheck           *string `json:"dtbp_check,omitempty"`
	TradeConfirmEmail   *string `json:"trade_confirm_email,omitempty"`
	SuspendTrade        *bool   `json:"suspend_trade,omitempty"`
	NoShorting          *bool   `json:"no_shorting,omitempty"`
	FractionalTrading   *bool   `json:"fractional_trading,omitempty"`
	MaxMarginMultiplier *string `json:"max_margin_multiplier,omitempty"`
	PdtCheck            *string `json:"pdt_check,omitempty"`
}

// UpdateAccountConfigurations patches the account configuration.
func (c *Client) UpdateAccountConfigurations(req UpdateAccountConfigurationsRequest) (*AccountConfigurations, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/account/configurations", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.patch(u, req)
	if err != nil {
		return nil, err
	}
	configs := &AccountConfigurations{}
	if err = unmarshal(resp, configs); err != nil {
		return nil, err
	}
	return configs, nil
}

// AccountActivitiesParams filters /v2/account/activities.
type AccountActivitiesParams struct {
	ActivityTypes []string
	Date          string
	After         *time.Time
	Until         *time.Time
	PageSize      int
}

// GetAccountActivities returns account activity entries.
func (c *Client) GetAccountActivities(params AccountActivitiesParams) ([]AccountActivity, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/account/activities", c.base))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if len(params.ActivityTypes) > 0 {
		q.Set("activity_types", strings.Join(params.ActivityTypes, ","))
	}
	if params.Date != "" {
		q.Set("date", params.Date)
	}
	if params.After != nil {
		q.Set("after", params.After.Format(time.RFC3339))
	}
	if params.Until != nil {
		q.Set("until", params.Until.Format(time.RFC3339))
	}
	if params.PageSize != 0 {
		q.Set("page_size", strconv.Itoa(params.PageSize))
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var activities []AccountActivity
	if err = unmarshal(resp, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// PortfolioHistoryParams filters /v2/account/portfolio/history.
type PortfolioHistoryParams struct {
	Period            string
	Timeframe         string
	DateEnd           string
	ExtendedHours     bool
	Start             *time.Time
	IntradayReporting string
	PnlReset          string
}

// GetPortfolioHistory returns the account's equity time series.
func (c *Client) GetPortfolioHistory(params PortfolioHistoryParams) (*PortfolioHistory, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/account/portfolio/history", c.base))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if params.Period != "" {
		q.Set("period", params.Period)
	}
	if params.Timeframe != "" {
		q.Set("timeframe", params.Timeframe)
	}
	if params.DateEnd != "" {
		q.Set("date_end", params.DateEnd)
	}
	if params.ExtendedHours {
		q.Set("extended_hours", "true")
	}
	if params.Start != nil {
		q.Set("start", params.Start.Format(time.RFC3339))
	}
	if params.IntradayReporting != "" {
		q.Set("intraday_reporting", params.IntradayReporting)
	}
	if params.PnlReset != "" {
		q.Set("pnl_reset", params.PnlReset)
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	history := &PortfolioHistory{}
	if err = unmarshal(resp, history); err != nil {
		return nil, err
	}
	return history, nil
}

// ListPositions lists the account's open positions.
func (c *Client) ListPositions() ([]Position, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/positions", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	positions := []Position{}
	if err = unmarshal(resp, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

// GetPosition returns the account's position for the provided symbol.
func (c *Client) GetPosition(symbol string) (*Position, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/positions/%s", c.base, symbol))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	position := &Position{}
	if err = unmarshal(resp, position); err != nil {
		return nil, err
	}
	return position, nil
}

// ClosePositionParams selects how much of a position to liquidate.
// At most one of Qty and Percentage may be set.
type ClosePositionParams struct {
	Qty        *decimal.Decimal
	Percentage *decimal.Decimal
}

// ClosePosition liquidates the position for the given symbol and returns
// the closing order.
func (c *Client) ClosePosition(symbol string, params ClosePositionParams) (*Order, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/positions/%s", c.base, symbol))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if params.Qty != nil {
		q.Set("qty", params.Qty.String())
	}
	if params.Percentage != nil {
		q.Set("percentage", params.Percentage.String())
	}
	u.RawQuery = q.Encode()

	resp, err := c.delete(u)
	if err != nil {
		return nil, err
	}
	order := &Order{}
	if err = unmarshal(resp, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CloseAllPositions liquidates all open positions at market price. When
// cancelOrders is set, open orders are cancelled first.
func (c *Client) CloseAllPositions(cancelOrders bool) error {
	u, err := url.Parse(fmt.Sprintf("%s/v2/positions", c.base))
	if err != nil {
		return err
	}
	if cancelOrders {
		q := u.Query()
		q.Set("cancel_orders", "true")
		u.RawQuery = q.Encode()
	}
	resp, err := c.delete(u)
	if err != nil {
		return err
	}
	closeResp(resp)
	return nil
}

// ExercisePosition exercises the held option contract.
func (c *Client) ExercisePosition(contractSymbol string) error {
	u, err := url.Parse(fmt.Sprintf("%s/v2/positions/%s/exercise", c.base, contractSymbol))
	if err != nil {
		return err
	}
	resp, err := c.post(u, nil)
	if err != nil {
		return err
	}
	closeResp(resp)
	return nil
}

// ListAssetsParams filters /v2/assets.
type ListAssetsParams struct {
	Status     string
	AssetClass string
	Exchange   string
}

// ListAssets returns the list of assets, filtered by the input parameters.
func (c *Client) ListAssets(params ListAssetsParams) ([]Asset, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/assets", c.base))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if params.Status != "" {
		q.Set("status", params.Status)
	}
	if params.AssetClass != "" {
		q.Set("asset_class", params.AssetClass)
	}
	if params.Exchange != "" {
		q.Set("exchange", params.Exchange)
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	assets := []Asset{}
	if err = unmarshal(resp, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}

// GetAsset returns an asset by symbol or asset ID.
func (c *Client) GetAsset(symbol string) (*Asset, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/assets/%s", c.base, symbol))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	asset := &Asset{}
	if err = unmarshal(resp, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// ListWatchlists returns all of the account's watchlists.
func (c *Client) ListWatchlists() ([]Watchlist, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/watchlists", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	watchlists := []Watchlist{}
	if err = unmarshal(resp, &watchlists); err != nil {
		return nil, err
	}
	return watchlists, nil
}

// GetWatchlist returns a watchlist by ID, including its assets.
func (c *Client) GetWatchlist(id string) (*Watchlist, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/watchlists/%s", c.base, id))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	watchlist := &Watchlist{}
	if err = unmarshal(resp, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

// CreateWatchlistRequest names a new watchlist and its initial symbols.
type CreateWatchlistRequest struct {
	Name    string   `json:"name"`
	Symbols []string `json:"symbols"`
}

// CreateWatchlist creates a new watchlist.
func (c *Client) CreateWatchlist(req CreateWatchlistRequest) (*Watchlist, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/watchlists", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.post(u, req)
	if err != nil {
		return nil, err
	}
	watchlist := &Watchlist{}
	if err = unmarshal(resp, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

// UpdateWatchlistRequest renames a watchlist and/or replaces its symbols.
type UpdateWatchlistRequest struct {
	Name    string   `json:"name,omitempty"`
	Symbols []string `json:"symbols,omitempty"`
}

// UpdateWatchlist updates the watchlist with the given ID.
func (c *Client) UpdateWatchlist(id string, req UpdateWatchlistRequest) (*Watchlist, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/watchlists/%s", c.base, id))
	if err != nil {
		return nil, err
	}
	resp, err := c.put(u, req)
	if err != nil {
		return nil, err
	}
	watchlist := &Watchlist{}
	if err = unmarshal(resp, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

// AddToWatchlist appends a symbol to the watchlist.
func (c *Client) AddToWatchlist(id, symbol string) (*Watchlist, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/watchlists/%s", c.base, id))
	if err != nil {
		return nil, err
	}
	resp, err := c.post(u, map[string]string{"symbol": symbol})
	if err != nil {
		return nil, err
	}
	watchlist := &Watchlist{}
	if err = unmarshal(resp, watchlist); err != nil {
		return nil, err
	}
	return watchlist, nil
}

// RemoveFromWatchlist removes a symbol from the watchlist.
func (c *Client) RemoveFromWatchlist(id, symbol string) error {
	u, err := url.Parse(fmt.Sprintf("%s/v2/watchlists/%s/%s", c.base, id, symbol))
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

// DeleteWatchlist removes the watchlist entirely.
func (c *Client) DeleteWatchlist(id string) error {
	u, err := url.Parse(fmt.Sprintf("%s/v2/watchlists/%s", c.base, id))
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

// ListOptionContractsParams filters /v2/options/contracts.
type ListOptionContractsParams struct {
	UnderlyingSymbols string
	ExpirationDate    string
	ExpirationDateGte string
	ExpirationDateLte string
	Type              string
	StrikePriceGte    *decimal.Decimal
	StrikePriceLte    *decimal.Decimal
	Limit             int
}

// ListOptionContracts returns option contracts for an underlying.
func (c *Client) ListOptionContracts(params ListOptionContractsParams) ([]OptionContract, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/options/contracts", c.base))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if params.UnderlyingSymbols != "" {
		q.Set("underlying_symbols", params.UnderlyingSymbols)
	}
	if params.ExpirationDate != "" {
		q.Set("expiration_date", params.ExpirationDate)
	}
	if params.ExpirationDateGte != "" {
		q.Set("expiration_date_gte", params.ExpirationDateGte)
	}
	if params.ExpirationDateLte != "" {
		q.Set("expiration_date_lte", params.ExpirationDateLte)
	}
	if params.Type != "" {
		q.Set("type", params.Type)
	}
	if params.StrikePriceGte != nil {
		q.Set("strike_price_gte", params.StrikePriceGte.String())
	}
	if params.StrikePriceLte != nil {
		q.Set("strike_price_lte", params.StrikePriceLte.String())
	}
	if params.Limit != 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		OptionContracts []OptionContract `json:"option_contracts"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.OptionContracts, nil
}

// GetOptionContract returns a single contract by its OCC symbol or ID.
func (c *Client) GetOptionContract(symbolOrID string) (*OptionContract, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/options/contracts/%s", c.base, symbolOrID))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	contract := &OptionContract{}
	if err = unmarshal(resp, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// GetClock returns the market clock.
func (c *Client) GetClock() (*Clock, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/clock", c.base))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	clock := &Clock{}
	if err = unmarshal(resp, clock); err != nil {
		return nil, err
	}
	return clock, nil
}

// GetCalendar returns the market calendar, optionally bounded by
// YYYY-MM-DD start/end dates.
func (c *Client) GetCalendar(start, end string) ([]CalendarDay, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/calendar", c.base))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	days := []CalendarDay{}
	if err = unmarshal(resp, &days); err != nil {
		return nil, err
	}
	return days, nil
}
