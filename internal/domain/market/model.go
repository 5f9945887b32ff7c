// Package market defines the simulated market data and paper trading models.
package market

// Candle is one OHLCV aggregation over a fixed time bucket of the simulated
// price feed. Date is unix seconds; prices are rounded to cents.
type Candle struct {
	Date     int64   `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	Volume   int64   `json:"volume"`
	AdjClose float64 `json:"adjclose"`
}

// OrderSide is the direction of an order or position.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// OrderStatus tracks a pending order's lifecycle.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderCancelled OrderStatus = "cancelled"
)

// Order is a pending paper order.
type Order struct {
	ID        string      `json:"id"`
	Symbol    string      `json:"symbol"`
	Side      OrderSide   `json:"side"`
	Quantity  float64     `json:"quantity"`
	Price     float64     `json:"price"`
	Status    OrderStatus `json:"status"`
	Timestamp int64       `json:"timestamp"`
}

// Position is an open paper holding.
type Position struct {
	Symbol    string    `json:"symbol"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Side      OrderSide `json:"side"`
	Timestamp int64     `json:"timestamp"`
}

// Fill is the result of an instant buy or sell execution.
type Fill struct {
	Symbol   string    `json:"symbol"`
	Quantity float64   `json:"quantity"`
	Price    float64   `json:"price"`
	Side     OrderSide `json:"side"`
}
