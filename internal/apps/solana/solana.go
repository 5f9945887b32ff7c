// Package solana implements the solana trading app. On-chain operations are
// out of scope for this core; balances come from an injected collaborator
// and everything else reports invalid_operation. The bundle's private key is
// never read here.
package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ekato-labs/tradecore/internal/domain/account"
	"github.com/ekato-labs/tradecore/internal/errors"
	"github.com/ekato-labs/tradecore/internal/registry"
)

// BalanceFetcher resolves token balances for a wallet address. Timeouts are
// the fetcher's responsibility.
type BalanceFetcher interface {
	Balances(ctx context.Context, address string) (map[string]any, error)
}

// App is the solana integration.
type App struct {
	fetcher BalanceFetcher
}

// New wires the solana app to a balance collaborator.
func New(fetcher BalanceFetcher) *App {
	return &App{fetcher: fetcher}
}

// Name implements registry.App.
func (a *App) Name() string { return "solana" }

// Open builds the command set for one wallet bundle.
func (a *App) Open(creds account.CredentialBundle) (registry.CommandSet, error) {
	address := creds["address"]

	unsupported := func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.InvalidOperation("not supported by the solana app")
	}

	return registry.CommandSet{
		registry.CmdGetBalance: func(ctx context.Context, _ map[string]any) (any, error) {
			if address == "" {
				return nil, errors.InvalidOperation("wallet address missing from credentials")
			}
			return a.fetcher.Balances(ctx, address)
		},
		registry.CmdAuthenticate: func(_ context.Context, _ map[string]any) (any, error) {
			return address != "", nil
		},
		registry.CmdRefreshSession: func(_ context.Context, _ map[string]any) (any, error) {
			return true, nil
		},
		registry.CmdGetPositions: unsupported,
		registry.CmdGetOrders:    unsupported,
		registry.CmdPlaceOrder:   unsupported,
		registry.CmdCancelOrder:  unsupported,
		registry.CmdInstantBuy:   unsupported,
		registry.CmdInstantSell:  unsupported,
	}, nil
}

// HTTPFetcher fetches balances from a Jupiter-style balances endpoint:
// GET {baseURL}/{address} returning a JSON object per token.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher with its own request timeout.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Balances implements BalanceFetcher.
func (f *HTTPFetcher) Balances(ctx context.Context, address string) (map[string]any, error) {
	url := fmt.Sprintf("%s/%s", f.baseURL, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build balances request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch balances: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("balances endpoint returned %d", resp.StatusCode)
	}

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}
	return out, nil
}
