package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const cryptoLoc = "us"

// BarsParams selects the window and granularity of a historical bars
// request. Symbols is required; zero Limit means the server default.
type BarsParams struct {
	Symbols    []string
	Timeframe  string
	Start      *time.Time
	End        *time.Time
	Limit      int
	Adjustment string
	Feed       string
}

func (p BarsParams) apply(q url.Values) {
	q.Set("symbols", strings.Join(p.Symbols, ","))
	if p.Timeframe != "" {
		q.Set("timeframe", p.Timeframe)
	}
	if p.Start != nil {
		q.Set("start", p.Start.Format(time.RFC3339))
	}
	if p.End != nil {
		q.Set("end", p.End.Format(time.RFC3339))
	}
	if p.Adjustment != "" {
		q.Set("adjustment", p.Adjustment)
	}
	if p.Feed != "" {
		q.Set("feed", p.Feed)
	}
}

// setQueryLimit caps the per-page limit so the last page only requests
// what remains of the caller's total.
func setQueryLimit(q url.Values, totalLimit, received int) {
	limit := 0
	if totalLimit != 0 {
		remaining := totalLimit - received
		if remaining <= 0 {
			return
		}
		limit = remaining
	}
	if limit > v2MaxLimit || limit == 0 {
		limit = v2MaxLimit
	}
	q.Set("limit", strconv.Itoa(limit))
}

// paginate fetches every page of a multi-symbol endpoint, calling parse
// for each page body, until the server stops returning next_page_token
// or the caller's limit is reached.
func (c *Client) paginate(u *url.URL, totalLimit int, parse func(resp []byte) (pageToken string, received int, err error)) error {
	q := u.Query()
	received := 0
	for {
		setQueryLimit(q, totalLimit, received)
		u.RawQuery = q.Encode()

		resp, err := c.get(u)
		if err != nil {
			return err
		}
		body, err := readBody(resp)
		if err != nil {
			return err
		}
		token, n, err := parse(body)
		if err != nil {
			return err
		}
		received += n
		if token == "" || (totalLimit != 0 && received >= totalLimit) {
			return nil
		}
		q.Set("page_token", token)
	}
}

type multiBarsResponse struct {
	NextPageToken *string          `json:"next_page_token"`
	Bars          map[string][]Bar `json:"bars"`
}

func (c *Client) getBars(endpoint string, params BarsParams) (map[string][]Bar, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	params.apply(q)
	u.RawQuery = q.Encode()

	bars := map[string][]Bar{}
	err = c.paginate(u, params.Limit, func(body []byte) (string, int, error) {
		var page multiBarsResponse
		if err := decode(body, &page); err != nil {
			return "", 0, err
		}
		n := 0
		for symbol, symbolBars := range page.Bars {
			bars[symbol] = append(bars[symbol], symbolBars...)
			n += len(symbolBars)
		}
		if page.NextPageToken == nil {
			return "", n, nil
		}
		return *page.NextPageToken, n, nil
	})
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// GetStockBars returns historical bars for one or more stock symbols,
// following pagination until the requested limit is reached.
func (c *Client) GetStockBars(params BarsParams) (map[string][]Bar, error) {
	return c.getBars(fmt.Sprintf("%s/v2/stocks/bars", c.dataBase), params)
}

// GetCryptoBars returns historical bars for one or more crypto pairs.
func (c *Client) GetCryptoBars(params BarsParams) (map[string][]Bar, error) {
	return c.getBars(fmt.Sprintf("%s/v1beta3/crypto/%s/bars", c.dataBase, cryptoLoc), params)
}

// GetLatestQuotes returns the latest quote per stock symbol.
func (c *Client) GetLatestQuotes(symbols []string, feed string) (map[string]Quote, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/stocks/quotes/latest", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	if feed != "" {
		q.Set("feed", feed)
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Quotes map[string]Quote `json:"quotes"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Quotes, nil
}

// GetLatestTrades returns the latest trade per stock symbol.
func (c *Client) GetLatestTrades(symbols []string, feed string) (map[string]Trade, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/stocks/trades/latest", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	if feed != "" {
		q.Set("feed", feed)
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Trades map[string]Trade `json:"trades"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Trades, nil
}

// GetSnapshots returns a full snapshot per stock symbol.
func (c *Client) GetSnapshots(symbols []string, feed string) (map[string]Snapshot, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v2/stocks/snapshots", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	if feed != "" {
		q.Set("feed", feed)
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	snapshots := map[string]Snapshot{}
	if err = unmarshal(resp, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetLatestCryptoQuotes returns the latest quote per crypto pair.
func (c *Client) GetLatestCryptoQuotes(symbols []string) (map[string]Quote, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta3/crypto/%s/latest/quotes", c.dataBase, cryptoLoc))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Quotes map[string]Quote `json:"quotes"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Quotes, nil
}

// GetLatestCryptoTrades returns the latest trade per crypto pair.
func (c *Client) GetLatestCryptoTrades(symbols []string) (map[string]Trade, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta3/crypto/%s/latest/trades", c.dataBase, cryptoLoc))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Trades map[string]Trade `json:"trades"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Trades, nil
}

// GetCryptoSnapshots returns a full snapshot per crypto pair.
func (c *Client) GetCryptoSnapshots(symbols []string) (map[string]Snapshot, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta3/crypto/%s/snapshots", c.dataBase, cryptoLoc))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Snapshots map[string]Snapshot `json:"snapshots"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Snapshots, nil
}

// GetCryptoOrderbooks returns the latest orderbook per crypto pair.
func (c *Client) GetCryptoOrderbooks(symbols []string) (map[string]Orderbook, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta3/crypto/%s/latest/orderbooks", c.dataBase, cryptoLoc))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Orderbooks map[string]Orderbook `json:"orderbooks"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Orderbooks, nil
}

// GetOptionBars returns historical bars per option contract symbol.
func (c *Client) GetOptionBars(params BarsParams) (map[string][]Bar, error) {
	return c.getBars(fmt.Sprintf("%s/v1beta1/options/bars", c.dataBase), params)
}

// OptionTradesParams selects the window of a historical option trades
// request.
type OptionTradesParams struct {
	Symbols []string
	Start   *time.Time
	End     *time.Time
	Limit   int
}

// GetOptionTrades returns historical trades per option contract symbol.
func (c *Client) GetOptionTrades(params OptionTradesParams) (map[string][]Trade, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/options/trades", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(params.Symbols, ","))
	if params.Start != nil {
		q.Set("start", params.Start.Format(time.RFC3339))
	}
	if params.End != nil {
		q.Set("end", params.End.Format(time.RFC3339))
	}
	u.RawQuery = q.Encode()

	trades := map[string][]Trade{}
	err = c.paginate(u, params.Limit, func(body []byte) (string, int, error) {
		var page struct {
			NextPageToken *string            `json:"next_page_token"`
			Trades        map[string][]Trade `json:"trades"`
		}
		if err := decode(body, &page); err != nil {
			return "", 0, err
		}
		n := 0
		for symbol, symbolTrades := range page.Trades {
			trades[symbol] = append(trades[symbol], symbolTrades...)
			n += len(symbolTrades)
		}
		if page.NextPageToken == nil {
			return "", n, nil
		}
		return *page.NextPageToken, n, nil
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// GetLatestOptionQuotes returns the latest quote per option contract.
func (c *Client) GetLatestOptionQuotes(symbols []string) (map[string]Quote, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/options/quotes/latest", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Quotes map[string]Quote `json:"quotes"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Quotes, nil
}

// GetLatestOptionTrades returns the latest trade per option contract.
func (c *Client) GetLatestOptionTrades(symbols []string) (map[string]Trade, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/options/trades/latest", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Trades map[string]Trade `json:"trades"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Trades, nil
}

// GetOptionSnapshots returns a snapshot per option contract symbol.
func (c *Client) GetOptionSnapshots(symbols []string) (map[string]OptionSnapshot, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/options/snapshots", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		Snapshots map[string]OptionSnapshot `json:"snapshots"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.Snapshots, nil
}

// OptionChainParams filters the option chain of an underlying symbol.
type OptionChainParams struct {
	Type              string
	ExpirationDate    string
	ExpirationDateGte string
	ExpirationDateLte string
	StrikePriceGte    *decimal.Decimal
	StrikePriceLte    *decimal.Decimal
	Limit             int
}

// GetOptionChain returns snapshots for the whole chain of an underlying,
// keyed by contract symbol, following pagination.
func (c *Client) GetOptionChain(underlying string, params OptionChainParams) (map[string]OptionSnapshot, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/options/snapshots/%s", c.dataBase, underlying))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if params.Type != "" {
		q.Set("type", params.Type)
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
	if params.StrikePriceGte != nil {
		q.Set("strike_price_gte", params.StrikePriceGte.String())
	}
	if params.StrikePriceLte != nil {
		q.Set("strike_price_lte", params.StrikePriceLte.String())
	}
	u.RawQuery = q.Encode()

	snapshots := map[string]OptionSnapshot{}
	err = c.paginate(u, params.Limit, func(body []byte) (string, int, error) {
		var page struct {
			NextPageToken *string                   `json:"next_page_token"`
			Snapshots     map[string]OptionSnapshot `json:"snapshots"`
		}
		if err := decode(body, &page); err != nil {
			return "", 0, err
		}
		for symbol, snapshot := range page.Snapshots {
			snapshots[symbol] = snapshot
		}
		if page.NextPageToken == nil {
			return "", len(page.Snapshots), nil
		}
		return *page.NextPageToken, len(page.Snapshots), nil
	})
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// GetOptionExchanges returns the option exchange code mapping.
func (c *Client) GetOptionExchanges() (map[string]string, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/options/meta/exchanges", c.dataBase))
	if err != nil {
		return nil, err
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	exchanges := map[string]string{}
	if err = unmarshal(resp, &exchanges); err != nil {
		return nil, err
	}
	return exchanges, nil
}

// NewsParams filters /v1beta1/news.
type NewsParams struct {
	Symbols            []string
	Start              *time.Time
	End                *time.Time
	Limit              int
	IncludeContent     bool
	ExcludeContentless bool
}

// GetNews returns news articles, following pagination up to the limit.
func (c *Client) GetNews(params NewsParams) ([]NewsArticle, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/news", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if len(params.Symbols) > 0 {
		q.Set("symbols", strings.Join(params.Symbols, ","))
	}
	if params.Start != nil {
		q.Set("start", params.Start.Format(time.RFC3339))
	}
	if params.End != nil {
		q.Set("end", params.End.Format(time.RFC3339))
	}
	if params.IncludeContent {
		q.Set("include_content", "true")
	}
	if params.ExcludeContentless {
		q.Set("exclude_contentless", "true")
	}
	if params.Limit != 0 && params.Limit < 50 {
		q.Set("limit", strconv.Itoa(params.Limit))
	} else {
		q.Set("limit", "50")
	}
	u.RawQuery = q.Encode()

	articles := []NewsArticle{}
	for {
		resp, err := c.get(u)
		if err != nil {
			return nil, err
		}
		var page struct {
			News          []NewsArticle `json:"news"`
			NextPageToken *string       `json:"next_page_token"`
		}
		if err = unmarshal(resp, &page); err != nil {
			return nil, err
		}
		articles = append(articles, page.News...)
		if page.NextPageToken == nil || (params.Limit != 0 && len(articles) >= params.Limit) {
			break
		}
		q.Set("page_token", *page.NextPageToken)
		u.RawQuery = q.Encode()
	}
	if params.Limit != 0 && len(articles) > params.Limit {
		articles = articles[:params.Limit]
	}
	return articles, nil
}

// GetMovers returns the day's top gaining and losing symbols for the
// given market type ("stocks" or "crypto").
func (c *Client) GetMovers(marketType string, top int) (*Movers, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/screener/%s/movers", c.dataBase, marketType))
	if err != nil {
		return nil, err
	}
	if top != 0 {
		q := u.Query()
		q.Set("top", strconv.Itoa(top))
		u.RawQuery = q.Encode()
	}
	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	movers := &Movers{}
	if err = unmarshal(resp, movers); err != nil {
		return nil, err
	}
	return movers, nil
}

// GetMostActives returns the most active stocks by volume or trade
// count.
func (c *Client) GetMostActives(by string, top int) ([]ActiveStock, error) {
	u, err := url.Parse(fmt.Sprintf("%s/v1beta1/screener/stocks/most-actives", c.dataBase))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	if by != "" {
		q.Set("by", by)
	}
	if top != 0 {
		q.Set("top", strconv.Itoa(top))
	}
	u.RawQuery = q.Encode()

	resp, err := c.get(u)
	if err != nil {
		return nil, err
	}
	var body struct {
		MostActives []ActiveStock `json:"most_actives"`
	}
	if err = unmarshal(resp, &body); err != nil {
		return nil, err
	}
	return body.MostActives, nil
}
