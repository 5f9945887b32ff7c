package market

import (
	"math"
	"testing"

	"github.com/ekato-labs/tradecore/internal/domain/market"
	"github.com/ekato-labs/tradecore/internal/errors"
)

func TestInstantBuyDebitsBalance(t *testing.T) {
	l := NewLedger(500)

	fill, err := l.InstantBuy("SIM", 4, 50)
	if err != nil {
		t.Fatalf("InstantBuy: %v", err)
	}
	if fill.Side != market.SideBuy || fill.Quantity != 4 || fill.Price != 50 {
		t.Errorf("fill = %+v", fill)
	}
	if got := l.Balance(); got != 300 {
		t.Errorf("balance = %v, want 300", got)
	}

	positions := l.Positions()
	if len(positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(positions))
	}
	if positions[0].Symbol != "SIM" || positions[0].Quantity != 4 {
		t.Errorf("position = %+v", positions[0])
	}
}

func TestInstantBuyInsufficientFunds(t *testing.T) {
	l := NewLedger(100)

	_, err := l.InstantBuy("SIM", 3, 50)
	se := errors.GetServiceError(err)
	if se == nil || se.Code != errors.CodeInvalidOperation {
		t.Fatalf("error = %v, want invalid_operation", err)
	}
	if l.Balance() != 100 {
		t.Errorf("failed buy changed the balance to %v", l.Balance())
	}
	if len(l.Positions()) != 0 {
		t.Error("failed buy opened a position")
	}
}

func TestInstantSellCreditsBalance(t *testing.T) {
	l := NewLedger(500)
	if _, err := l.InstantBuy("SIM", 4, 50); err != nil {
		t.Fatalf("InstantBuy: %v", err)
	}

	fill, err := l.InstantSell("SIM", 2, 60)
	if err != nil {
		t.Fatalf("InstantSell: %v", err)
	}
	if fill.Side != market.SideSell {
		t.Errorf("fill side = %q, want sell", fill.Side)
	}
	if got := l.Balance(); got != 420 {
		t.Errorf("balance = %v, want 420", got)
	}

	positions := l.Positions()
	if len(positions) != 1 || positions[0].Quantity != 2 {
		t.Errorf("positions = %+v, want one with quantity 2", positions)
	}
}

func TestInstantSellRemovesEmptiedPosition(t *testing.T) {
	l := NewLedger(500)
	if _, err := l.InstantBuy("SIM", 4, 50); err != nil {
		t.Fatalf("InstantBuy: %v", err)
	}
	if _, err := l.InstantSell("SIM", 4, 50); err != nil {
		t.Fatalf("InstantSell: %v", err)
	}

	if len(l.Positions()) != 0 {
		t.Errorf("positions = %+v, want empty", l.Positions())
	}
	if math.Abs(l.Balance()-500) > 1e-9 {
		t.Errorf("balance = %v, want 500", l.Balance())
	}
}

func TestInstantSellRejectsOversell(t *testing.T) {
	l := NewLedger(500)
	if _, err := l.InstantBuy("SIM", 2, 50); err != nil {
		t.Fatalf("InstantBuy: %v", err)
	}

	_, err := l.InstantSell("SIM", 5, 50)
	se := errors.GetServiceError(err)
	if se == nil || se.Code != errors.CodeInvalidOperation {
		t.Fatalf("error = %v, want invalid_operation", err)
	}
	if l.Balance() != 400 {
		t.Errorf("failed sell changed the balance to %v", l.Balance())
	}
	if l.Positions()[0].Quantity != 2 {
		t.Errorf("failed sell changed the position to %+v", l.Positions()[0])
	}
}

func TestInstantSellWithoutPosition(t *testing.T) {
	l := NewLedger(500)
	if _, err := l.InstantSell("SIM", 1, 50); err == nil {
		t.Fatal("sell with no position succeeded")
	}
}

func TestPlaceAndCancelOrder(t *testing.T) {
	l := NewLedger(500)

	order, err := l.PlaceOrder("SIM", market.SideBuy, 3, 48.5)
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.ID == "" || order.Status != market.OrderOpen {
		t.Errorf("order = %+v", order)
	}

	cancelled, err := l.CancelOrder(order.ID)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != market.OrderCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	orders := l.Orders()
	if len(orders) != 1 || orders[0].Status != market.OrderCancelled {
		t.Errorf("orders = %+v", orders)
	}
}

func TestCancelUnknownOrder(t *testing.T) {
	l := NewLedger(500)
	_, err := l.CancelOrder("no-such-order")
	se := errors.GetServiceError(err)
	if se == nil || se.Code != errors.CodeNotFound {
		t.Fatalf("error = %v, want not_found", err)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	l := NewLedger(500)

	if _, err := l.PlaceOrder("", market.SideBuy, 1, 50); err == nil {
		t.Error("empty symbol accepted")
	}
	if _, err := l.PlaceOrder("SIM", market.SideBuy, 0, 50); err == nil {
		t.Error("zero quantity accepted")
	}
	if _, err := l.PlaceOrder("SIM", "short", 1, 50); err == nil {
		t.Error("invalid side accepted")
	}
	if len(l.Orders()) != 0 {
		t.Errorf("rejected orders were recorded: %+v", l.Orders())
	}
}
