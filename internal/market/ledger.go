package market

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ekato-labs/tradecore/internal/domain/market"
	"github.com/ekato-labs/tradecore/internal/errors"
)

// Ledger is the in-memory paper trading account: cash balance, open
// positions, and pending orders. All mutations are serialized by its mutex;
// reads return copies.
type Ledger struct {
	mu        sync.Mutex
	balance   float64
	positions []market.Position
	orders    []market.Order
	now       func() time.Time
}

// NewLedger creates a ledger with the given starting cash balance.
func NewLedger(startBalance float64) *Ledger {
	return &Ledger{balance: startBalance, now: time.Now}
}

// WithClock injects a clock for tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Balance returns the current cash balance.
func (l *Ledger) Balance() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

// Positions returns a copy of the open positions.
func (l *Ledger) Positions() []market.Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]market.Position(nil), l.positions...)
}

// Orders returns a copy of all orders, including cancelled ones.
func (l *Ledger) Orders() []market.Order {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]market.Order(nil), l.orders...)
}

// PlaceOrder records a pending order. Orders are never matched by the
// simulator; they exist for listing and cancellation.
func (l *Ledger) PlaceOrder(symbol string, side market.OrderSide, quantity, price float64) (market.Order, error) {
	if symbol == "" {
		return market.Order{}, errors.InvalidOperation("symbol is required")
	}
	if quantity <= 0 {
		return market.Order{}, errors.InvalidOperation("quantity must be positive")
	}
	if side != market.SideBuy && side != market.SideSell {
		return market.Order{}, errors.InvalidOperation(fmt.Sprintf("invalid side %q", side))
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	order := market.Order{
		ID:        uuid.NewString(),
		Symbol:    symbol,
		Side:      side,
		Quantity:  quantity,
		Price:     price,
		Status:    market.OrderOpen,
		Timestamp: l.now().Unix(),
	}
	l.orders = append(l.orders, order)
	return order, nil
}

// CancelOrder marks an order cancelled.
func (l *Ledger) CancelOrder(id string) (market.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.orders {
		if l.orders[i].ID == id {
			l.orders[i].Status = market.OrderCancelled
			return l.orders[i], nil
		}
	}
	return market.Order{}, errors.NotFound(fmt.Sprintf("order %s not found", id))
}

// InstantBuy executes immediately at the given price. The balance never goes
// negative: insufficient funds leave the ledger untouched.
func (l *Ledger) InstantBuy(symbol string, quantity, price float64) (market.Fill, error) {
	if symbol == "" {
		return market.Fill{}, errors.InvalidOperation("symbol is required")
	}
	if quantity <= 0 {
		return market.Fill{}, errors.InvalidOperation("quantity must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	cost := price * quantity
	if l.balance < cost {
		return market.Fill{}, errors.InvalidOperation("insufficient funds")
	}

	l.balance -= cost
	l.positions = append(l.positions, market.Position{
		Symbol:    symbol,
		Quantity:  quantity,
		Price:     price,
		Side:      market.SideBuy,
		Timestamp: l.now().Unix(),
	})
	return market.Fill{Symbol: symbol, Quantity: quantity, Price: price, Side: market.SideBuy}, nil
}

// InstantSell executes immediately at the given price against the first open
// position in the symbol. Selling more than the held quantity fails and
// leaves balance and positions unchanged; a position is removed once its
// quantity reaches zero.
func (l *Ledger) InstantSell(symbol string, quantity, price float64) (market.Fill, error) {
	if symbol == "" {
		return market.Fill{}, errors.InvalidOperation("symbol is required")
	}
	if quantity <= 0 {
		return market.Fill{}, errors.InvalidOperation("quantity must be positive")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.positions {
		if l.positions[i].Symbol == symbol && l.positions[i].Side == market.SideBuy {
			idx = i
			break
		}
	}
	if idx < 0 || l.positions[idx].Quantity < quantity {
		return market.Fill{}, errors.InvalidOperation("not enough shares to sell")
	}

	l.balance += price * quantity
	l.positions[idx].Quantity -= quantity
	if l.positions[idx].Quantity <= 0 {
		l.positions = append(l.positions[:idx], l.positions[idx+1:]...)
	}
	return market.Fill{Symbol: symbol, Quantity: quantity, Price: price, Side: market.SideSell}, nil
}
