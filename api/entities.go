package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds the trading account state as returned by /v2/account.
type Account struct {
	ID                       string          `json:"id"`
	AccountNumber            string          `json:"account_number"`
	Status                   string          `json:"status"`
	Currency                 string          `json:"currency"`
	Cash                     decimal.Decimal `json:"cash"`
	PortfolioValue           decimal.Decimal `json:"portfolio_value"`
	Equity                   decimal.Decimal `json:"equity"`
	LastEquity               decimal.Decimal `json:"last_equity"`
	BuyingPower              decimal.Decimal `json:"buying_power"`
	RegTBuyingPower          decimal.Decimal `json:"regt_buying_power"`
	NonMarginableBuyingPower decimal.Decimal `json:"non_marginable_buying_power"`
	InitialMargin            decimal.Decimal `json:"initial_margin"`
	MaintenanceMargin        decimal.Decimal `json:"maintenance_margin"`
	SMA                      decimal.Decimal `json:"sma"`
	LongMarketValue          decimal.Decimal `json:"long_market_value"`
	ShortMarketValue         decimal.Decimal `json:"short_market_value"`
	DaytradeCount            int             `json:"daytrade_count"`
	PatternDayTrader         bool            `json:"pattern_day_trader"`
	TradingBlocked           bool            `json:"trading_blocked"`
	CreatedAt                time.Time       `json:"created_at"`
}

// AccountConfigurations mirrors /v2/account/configurations.
type AccountConfigurations struct {
	DtbpCheck            string `json:"dtbp_check"`
	TradeConfirmEmail    string `json:"trade_confirm_email"`
	SuspendTrade         bool   `json:"suspend_trade"`
	NoShorting           bool   `json:"no_shorting"`
	FractionalTrading    bool   `json:"fractional_trading"`
	MaxMarginMultiplier  string `json:"max_margin_multiplier"`
	PdtCheck             string `json:"pdt_check"`
	PtpNoExceptionEntry  bool   `json:"ptp_no_exception_entry"`
}

// AccountActivity is a single entry from /v2/account/activities.
type AccountActivity struct {
	ID              string           `json:"id"`
	ActivityType    string           `json:"activity_type"`
	TransactionTime *time.Time       `json:"transaction_time,omitempty"`
	Date            string           `json:"date,omitempty"`
	Symbol          string           `json:"symbol,omitempty"`
	Side            string           `json:"side,omitempty"`
	Qty             *decimal.Decimal `json:"qty,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	NetAmount       *decimal.Decimal `json:"net_amount,omitempty"`
	PerShareAmount  *decimal.Decimal `json:"per_share_amount,omitempty"`
}

// PortfolioHistory is the time series from /v2/account/portfolio/history.
// Entries can be null for sessions without data.
type PortfolioHistory struct {
	Timestamp     []int64          `json:"timestamp"`
	Equity        []*float64       `json:"equity"`
	ProfitLoss    []*float64       `json:"profit_loss"`
	ProfitLossPct []*float64       `json:"profit_loss_pct"`
	BaseValue     *decimal.Decimal `json:"base_value"`
	Timeframe     string           `json:"timeframe"`
}

// Order is a trading order, possibly with bracket legs nested under it.
type Order struct {
	ID             string           `json:"id"`
	ClientOrderID  string           `json:"client_order_id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at,omitempty"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
	FilledAt       *time.Time       `json:"filled_at,omitempty"`
	Symbol         string           `json:"symbol"`
	AssetClass     string           `json:"asset_class"`
	Qty            *decimal.Decimal `json:"qty,omitempty"`
	Notional       *decimal.Decimal `json:"notional,omitempty"`
	FilledQty      decimal.Decimal  `json:"filled_qty"`
	FilledAvgPrice *decimal.Decimal `json:"filled_avg_price,omitempty"`
	Type           string           `json:"order_type"`
	Side           string           `json:"side"`
	TimeInForce    string           `json:"time_in_force"`
	LimitPrice     *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice      *decimal.Decimal `json:"stop_price,omitempty"`
	TrailPrice     *decimal.Decimal `json:"trail_price,omitempty"`
	TrailPercent   *decimal.Decimal `json:"trail_percent,omitempty"`
	Status         string           `json:"status"`
	ExtendedHours  bool             `json:"extended_hours"`
	OrderClass     string           `json:"order_class,omitempty"`
	Legs           []Order          `json:"legs,omitempty"`
}

// Position is an open position from /v2/positions.
type Position struct {
	Symbol         string          `json:"symbol"`
	AssetClass     string          `json:"asset_class"`
	Exchange       string          `json:"exchange"`
	Side           string          `json:"side"`
	Qty            decimal.Decimal `json:"qty"`
	QtyAvailable   decimal.Decimal `json:"qty_available"`
	AvgEntryPrice  decimal.Decimal `json:"avg_entry_price"`
	MarketValue    decimal.Decimal `json:"market_value"`
	CostBasis      decimal.Decimal `json:"cost_basis"`
	UnrealizedPL   decimal.Decimal `json:"unrealized_pl"`
	UnrealizedPLPC decimal.Decimal `json:"unrealized_plpc"`
	CurrentPrice   decimal.Decimal `json:"current_price"`
	LastdayPrice   decimal.Decimal `json:"lastday_price"`
	ChangeToday    decimal.Decimal `json:"change_today"`
}

// Asset describes a tradable instrument.
type Asset struct {
	ID           string `json:"id"`
	Class        string `json:"class"`
	Exchange     string `json:"exchange"`
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Tradable     bool   `json:"tradable"`
	Marginable   bool   `json:"marginable"`
	Shortable    bool   `json:"shortable"`
	EasyToBorrow bool   `json:"easy_to_borrow"`
	Fractionable bool   `json:"fractionable"`
}

// Watchlist groups assets under a user-defined name.
type Watchlist struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Assets    []Asset   `json:"assets"`
}

// Clock is the market clock.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// CalendarDay is one trading session from /v2/calendar.
type CalendarDay struct {
	Date  string `json:"date"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

// OptionContract describes a listed option from /v2/options/contracts.
type OptionContract struct {
	ID                string           `json:"id"`
	Symbol            string           `json:"symbol"`
	Name              string           `json:"name"`
	Status            string           `json:"status"`
	Tradable          bool             `json:"tradable"`
	ExpirationDate    string           `json:"expiration_date"`
	RootSymbol        string           `json:"root_symbol"`
	UnderlyingSymbol  string           `json:"underlying_symbol"`
	Type              string           `json:"type"`
	Style             string           `json:"style"`
	StrikePrice       decimal.Decimal  `json:"strike_price"`
	Size              decimal.Decimal  `json:"size"`
	OpenInterest      *decimal.Decimal `json:"open_interest,omitempty"`
	ClosePrice        *decimal.Decimal `json:"close_price,omitempty"`
	ClosePriceDate    string           `json:"close_price_date,omitempty"`
}

// Bar is an aggregated OHLCV bar.
type Bar struct {
	Timestamp  time.Time `json:"t"`
	Open       float64   `json:"o"`
	High       float64   `json:"h"`
	Low        float64   `json:"l"`
	Close      float64   `json:"c"`
	Volume     float64   `json:"v"`
	TradeCount uint64    `json:"n"`
	VWAP       float64   `json:"vw"`
}

// Quote is a bid/ask pair.
type Quote struct {
	Timestamp time.Time `json:"t"`
	BidPrice  float64   `json:"bp"`
	BidSize   float64   `json:"bs"`
	BidExch   string    `json:"bx"`
	AskPrice  float64   `json:"ap"`
	AskSize   float64   `json:"as"`
	AskExch   string    `json:"ax"`
}

// Trade is a single executed trade.
type Trade struct {
	Timestamp time.Time `json:"t"`
	Price     float64   `json:"p"`
	Size      float64   `json:"s"`
	Exchange  string    `json:"x"`
	ID        int64     `json:"i"`
}

// Snapshot bundles the latest state of a symbol.
type Snapshot struct {
	LatestTrade  *Trade `json:"latestTrade"`
	LatestQuote  *Quote `json:"latestQuote"`
	MinuteBar    *Bar   `json:"minuteBar"`
	DailyBar     *Bar   `json:"dailyBar"`
	PrevDailyBar *Bar   `json:"prevDailyBar"`
}

// OrderbookEntry is one price level of a crypto orderbook.
type OrderbookEntry struct {
	Price float64 `json:"p"`
	Size  float64 `json:"s"`
}

// Orderbook is a crypto orderbook snapshot.
type Orderbook struct {
	Timestamp time.Time        `json:"t"`
	Bids      []OrderbookEntry `json:"b"`
	Asks      []OrderbookEntry `json:"a"`
}

// OptionGreeks carries the greeks of an option snapshot.
type OptionGreeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Rho   float64 `json:"rho"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// OptionSnapshot is the latest state of an option contract.
type OptionSnapshot struct {
	LatestTrade       *Trade        `json:"latestTrade"`
	LatestQuote       *Quote        `json:"latestQuote"`
	ImpliedVolatility float64       `json:"impliedVolatility,omitempty"`
	Greeks            *OptionGreeks `json:"greeks,omitempty"`
}

// NewsArticle is a single news item.
type NewsArticle struct {
	ID        int64     `json:"id"`
	Headline  string    `json:"headline"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	URL       string    `json:"url"`
	Symbols   []string  `json:"symbols"`
	Source    string    `json:"source"`
}

// Mover is one screener entry of the top market movers.
type Mover struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
}

// Movers is the screener response listing top gainers and losers.
type Movers struct {
	Gainers []Mover `json:"gainers"`
	Losers  []Mover `json:"losers"`
}

// ActiveStock is one most-actives screener entry.
type ActiveStock struct {
	Symbol     string  `json:"symbol"`
	Volume     float64 `json:"volume"`
	TradeCount float64 `json:"trade_count"`
}
