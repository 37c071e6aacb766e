package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// Ticker represents the current market snapshot for a currency. The exchange
// serializes every decimal as a string to avoid precision loss; the ,string
// tags parse them and reject malformed values.
// Response format from /<currency>/ticker:
//
//	{
//	  "ticker": {
//	    "high": "105000.00000000",
//	    "low": "101000.00000000",
//	    "vol": "42.11290000",
//	    "last": "104000.00000000",
//	    "buy": "103999.99999999",
//	    "sell": "104000.00000000",
//	    "date": 1609459200000
//	  }
//	}
type Ticker struct {
	High   float64 `json:"high,string"`
	Low    float64 `json:"low,string"`
	Volume float64 `json:"vol,string"`
	Last   float64 `json:"last,string"`
	Buy    float64 `json:"buy,string"`
	Sell   float64 `json:"sell,string"`
	Date   int64   `json:"date"`
}

// Time returns the ticker timestamp, carried as milliseconds since epoch.
func (t *Ticker) Time() time.Time {
	return time.UnixMilli(t.Date).UTC()
}

type tickerResponse struct {
	Ticker Ticker `json:"ticker"`
}

// Date is a calendar date decoded from the exchange's "2006-01-02" strings.
// The summary endpoint resolves only to the day, so no time-of-day is
// fabricated: the underlying instant is midnight UTC.
type Date struct {
	time.Time
}

// UnmarshalJSON parses a "YYYY-MM-DD" JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse date: %w", err)
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// DaySummary represents the aggregate statistics of one trading day.
type DaySummary struct {
	Date     Date    `json:"date"`
	Opening  float64 `json:"opening"`
	Closing  float64 `json:"closing"`
	Lowest   float64 `json:"lowest"`
	Highest  float64 `json:"highest"`
	Volume   float64 `json:"volume"`
	Quantity float64 `json:"quantity"`
	Amount   int     `json:"amount"`
	AvgPrice float64 `json:"avg_price"`
}

// OrderbookOrder is a single resting order in the authenticated book.
type OrderbookOrder struct {
	OrderID    int64   `json:"order_id"`
	Quantity   float64 `json:"quantity,string"`
	LimitPrice float64 `json:"limit_price,string"`
	IsOwner    bool    `json:"is_owner"`
}

// Orderbook holds the bid and ask sides, each ordered by the exchange.
type Orderbook struct {
	Bids []OrderbookOrder `json:"bids"`
	Asks []OrderbookOrder `json:"asks"`
}

type orderbookResponse struct {
	Orderbook Orderbook `json:"orderbook"`
}

// OrderSide represents the side of an order (1 = buy, 2 = sell).
type OrderSide int

const (
	OrderSideBuy  OrderSide = 1
	OrderSideSell OrderSide = 2
)

// placeMethod returns the tapi_method that places an order of this side.
func (s OrderSide) placeMethod() string {
	if s == OrderSideSell {
		return "place_sell_order"
	}
	return "place_buy_order"
}

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// OrderStatus represents the lifecycle state of an order.
type OrderStatus int

const (
	OrderStatusOpen      OrderStatus = 2
	OrderStatusCancelled OrderStatus = 3
	OrderStatusFilled    OrderStatus = 4
)

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusOpen:
		return "open"
	case OrderStatusCancelled:
		return "cancelled"
	case OrderStatusFilled:
		return "filled"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Order represents a TAPI order.
type Order struct {
	OrderID          int64       `json:"order_id"`
	CoinPair         string      `json:"coin_pair"`
	OrderType        OrderSide   `json:"order_type"`
	Status           OrderStatus `json:"status"`
	HasFills         bool        `json:"has_fills"`
	Quantity         float64     `json:"quantity,string"`
	LimitPrice       float64     `json:"limit_price,string"`
	ExecutedQuantity float64     `json:"executed_quantity,string"`
	ExecutedPriceAvg float64     `json:"executed_price_avg,string"`
	Fee              float64     `json:"fee,string"`
}

type orderResponse struct {
	Order Order `json:"order"`
}

type listOrdersResponse struct {
	Orders []Order `json:"orders"`
}

// Balance is the available/total pair the exchange reports per asset.
type Balance struct {
	Available float64 `json:"available,string"`
	Total     float64 `json:"total,string"`
}

// Balances holds the per-asset account balances. The asset set is fixed by
// the exchange.
type Balances struct {
	BCH      Balance `json:"bch"`
	BRL      Balance `json:"brl"`
	BTC      Balance `json:"btc"`
	ETH      Balance `json:"eth"`
	LTC      Balance `json:"ltc"`
	XRP      Balance `json:"xrp"`
	MBPRK01  Balance `json:"mbprk01"`
	MBPRK02  Balance `json:"mbprk02"`
	MBPRK03  Balance `json:"mbprk03"`
	MBPRK04  Balance `json:"mbprk04"`
	MBCONS01 Balance `json:"mbcons01"`
	USDC     Balance `json:"usdc"`
}

// WithdrawalLimits holds the per-asset withdrawal limits, a smaller asset
// set than the balances.
type WithdrawalLimits struct {
	BCH Balance `json:"bch"`
	BRL Balance `json:"brl"`
	BTC Balance `json:"btc"`
	ETH Balance `json:"eth"`
	LTC Balance `json:"ltc"`
	XRP Balance `json:"xrp"`
}

// AccountInfo is the get_account_info payload.
type AccountInfo struct {
	Balance          Balances         `json:"balance"`
	WithdrawalLimits WithdrawalLimits `json:"withdrawal_limits"`
}
