// Package paper implements the simulated paper trading app. Commands execute
// against the shared market engine and ledger; credentials gate access but
// carry no external secrets.
package paper

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ekato-labs/tradecore/internal/domain/account"
	domain "github.com/ekato-labs/tradecore/internal/domain/market"
	"github.com/ekato-labs/tradecore/internal/errors"
	"github.com/ekato-labs/tradecore/internal/market"
	"github.com/ekato-labs/tradecore/internal/registry"
)

// App is the paper trading integration.
type App struct {
	engine *market.Engine
	ledger *market.Ledger
}

// New wires the paper app to its engine and ledger.
func New(engine *market.Engine, ledger *market.Ledger) *App {
	return &App{engine: engine, ledger: ledger}
}

// Name implements registry.App.
func (a *App) Name() string { return "paper" }

// Open builds the command set. The closures capture the app's long-lived
// engine and ledger, so opening per dispatch recreates no state.
func (a *App) Open(_ account.CredentialBundle) (registry.CommandSet, error) {
	return registry.CommandSet{
		registry.CmdGetBalance: func(_ context.Context, _ map[string]any) (any, error) {
			return map[string]any{"balance": a.ledger.Balance()}, nil
		},
		registry.CmdGetPositions: func(_ context.Context, _ map[string]any) (any, error) {
			return a.ledger.Positions(), nil
		},
		registry.CmdGetOrders: func(_ context.Context, _ map[string]any) (any, error) {
			return a.ledger.Orders(), nil
		},
		registry.CmdPlaceOrder: func(_ context.Context, args map[string]any) (any, error) {
			symbol, _ := stringArg(args, "symbol")
			side, _ := stringArg(args, "side")
			quantity, err := floatArg(args, "quantity")
			if err != nil {
				return nil, err
			}
			price, err := floatArg(args, "price")
			if err != nil {
				return nil, err
			}
			return a.ledger.PlaceOrder(symbol, domain.OrderSide(side), quantity, price)
		},
		registry.CmdCancelOrder: func(_ context.Context, args map[string]any) (any, error) {
			id, ok := stringArg(args, "id")
			if !ok {
				return nil, errors.InvalidOperation("id is required")
			}
			return a.ledger.CancelOrder(id)
		},
		// Paper sessions have nothing external to authenticate against.
		registry.CmdAuthenticate: func(_ context.Context, _ map[string]any) (any, error) {
			return true, nil
		},
		registry.CmdRefreshSession: func(_ context.Context, _ map[string]any) (any, error) {
			return true, nil
		},
		registry.CmdInstantBuy: func(_ context.Context, args map[string]any) (any, error) {
			symbol, _ := stringArg(args, "symbol")
			quantity, err := floatArg(args, "quantity")
			if err != nil {
				return nil, err
			}
			return a.ledger.InstantBuy(symbol, quantity, a.engine.LastPrice())
		},
		registry.CmdInstantSell: func(_ context.Context, args map[string]any) (any, error) {
			symbol, _ := stringArg(args, "symbol")
			quantity, err := floatArg(args, "quantity")
			if err != nil {
				return nil, err
			}
			return a.ledger.InstantSell(symbol, quantity, a.engine.LastPrice())
		},
	}, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// floatArg accepts JSON numbers and query-string values alike.
func floatArg(args map[string]any, key string) (float64, error) {
	v, ok := args[key]
	if !ok {
		return 0, errors.InvalidOperation(fmt.Sprintf("%s is required", key))
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, errors.InvalidOperation(fmt.Sprintf("%s must be a number", key))
		}
		return parsed, nil
	default:
		return 0, errors.InvalidOperation(fmt.Sprintf("%s must be a number", key))
	}
}
