package paper

import (
	"context"
	"testing"

	"github.com/ekato-labs/tradecore/internal/domain/account"
	domain "github.com/ekato-labs/tradecore/internal/domain/market"
	"github.com/ekato-labs/tradecore/internal/errors"
	"github.com/ekato-labs/tradecore/internal/market"
	"github.com/ekato-labs/tradecore/internal/registry"
)

func openApp(t *testing.T, startBalance float64) (registry.CommandSet, *market.Engine, *market.Ledger) {
	t.Helper()

	engine := market.NewEngine(market.EngineConfig{StartPrice: 50}, nil, nil).WithSeed(1)
	ledger := market.NewLedger(startBalance)

	app := New(engine, ledger)
	if app.Name() != "paper" {
		t.Fatalf("Name = %q, want paper", app.Name())
	}
	commands, err := app.Open(account.CredentialBundle{"username": "ekato", "password": "password123"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return commands, engine, ledger
}

func TestGetBalance(t *testing.T) {
	commands, _, _ := openApp(t, 500)

	result, err := commands[registry.CmdGetBalance](context.Background(), nil)
	if err != nil {
		t.Fatalf("getBalance: %v", err)
	}
	out := result.(map[string]any)
	if out["balance"] != 500.0 {
		t.Errorf("balance = %v, want 500", out["balance"])
	}
}

func TestInstantBuyUsesCurrentPrice(t *testing.T) {
	commands, engine, ledger := openApp(t, 500)

	result, err := commands[registry.CmdInstantBuy](context.Background(), map[string]any{
		"symbol":   "SIM",
		"quantity": 2.0,
	})
	if err != nil {
		t.Fatalf("instantBuy: %v", err)
	}

	fill := result.(domain.Fill)
	if fill.Price != engine.LastPrice() {
		t.Errorf("fill price = %v, want engine price %v", fill.Price, engine.LastPrice())
	}
	if ledger.Balance() != 500-2*engine.LastPrice() {
		t.Errorf("balance = %v after buy", ledger.Balance())
	}
}

func TestInstantSellRoundTrip(t *testing.T) {
	commands, _, ledger := openApp(t, 500)

	if _, err := commands[registry.CmdInstantBuy](context.Background(), map[string]any{
		"symbol": "SIM", "quantity": 2.0,
	}); err != nil {
		t.Fatalf("instantBuy: %v", err)
	}
	if _, err := commands[registry.CmdInstantSell](context.Background(), map[string]any{
		"symbol": "SIM", "quantity": 2.0,
	}); err != nil {
		t.Fatalf("instantSell: %v", err)
	}

	if ledger.Balance() != 500 {
		t.Errorf("balance after buy and sell at the same price = %v, want 500", ledger.Balance())
	}
	if len(ledger.Positions()) != 0 {
		t.Errorf("positions = %+v, want empty", ledger.Positions())
	}
}

func TestQueryStringArguments(t *testing.T) {
	// Arguments arriving via URL query are strings; numbers must still parse.
	commands, _, _ := openApp(t, 500)

	result, err := commands[registry.CmdPlaceOrder](context.Background(), map[string]any{
		"symbol":   "SIM",
		"side":     "buy",
		"quantity": "3",
		"price":    "48.5",
	})
	if err != nil {
		t.Fatalf("placeOrder with string args: %v", err)
	}
	order := result.(domain.Order)
	if order.Quantity != 3 || order.Price != 48.5 {
		t.Errorf("order = %+v", order)
	}
}

func TestPlaceOrderMissingQuantity(t *testing.T) {
	commands, _, _ := openApp(t, 500)

	_, err := commands[registry.CmdPlaceOrder](context.Background(), map[string]any{
		"symbol": "SIM", "side": "buy", "price": 48.5,
	})
	se := errors.GetServiceError(err)
	if se == nil || se.Code != errors.CodeInvalidOperation {
		t.Fatalf("error = %v, want invalid_operation", err)
	}
}

func TestCancelOrderRequiresID(t *testing.T) {
	commands, _, _ := openApp(t, 500)

	_, err := commands[registry.CmdCancelOrder](context.Background(), nil)
	se := errors.GetServiceError(err)
	if se == nil || se.Code != errors.CodeInvalidOperation {
		t.Fatalf("error = %v, want invalid_operation", err)
	}
}

func TestSessionCommands(t *testing.T) {
	commands, _, _ := openApp(t, 500)

	for _, cmd := range []registry.Command{registry.CmdAuthenticate, registry.CmdRefreshSession} {
		result, err := commands[cmd](context.Background(), nil)
		if err != nil {
			t.Fatalf("%s: %v", cmd, err)
		}
		if result != true {
			t.Errorf("%s = %v, want true", cmd, result)
		}
	}
}

func TestFullVocabularyImplemented(t *testing.T) {
	commands, _, _ := openApp(t, 500)

	for _, cmd := range registry.Commands() {
		if _, ok := commands[cmd]; !ok {
			t.Errorf("paper app missing command %q", cmd)
		}
	}
}
