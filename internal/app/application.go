// Package app wires the service components together and manages their
// lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ekato-labs/tradecore/internal/apps/paper"
	"github.com/ekato-labs/tradecore/internal/apps/solana"
	"github.com/ekato-labs/tradecore/internal/config"
	"github.com/ekato-labs/tradecore/internal/directory"
	"github.com/ekato-labs/tradecore/internal/dispatch"
	"github.com/ekato-labs/tradecore/internal/httpapi"
	"github.com/ekato-labs/tradecore/internal/market"
	"github.com/ekato-labs/tradecore/internal/metrics"
	"github.com/ekato-labs/tradecore/internal/middleware"
	"github.com/ekato-labs/tradecore/internal/registry"
	"github.com/ekato-labs/tradecore/internal/session"
	"github.com/ekato-labs/tradecore/pkg/logger"
)

// Application ties the directory, session store, market engine, and HTTP
// surface together.
type Application struct {
	cfg *config.Config
	log *logger.Logger

	Directory  *directory.Directory
	Sessions   *session.Store
	Sweeper    *session.Sweeper
	Engine     *market.Engine
	Ledger     *market.Ledger
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
	Metrics    *metrics.Metrics

	server *httpapi.Server
}

// New builds a fully initialised application from the given configuration.
func New(cfg *config.Config, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.New(logger.LoggingConfig{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		}, "app")
	}

	dir, err := directory.New(cfg.Accounts)
	if err != nil {
		return nil, fmt.Errorf("build account directory: %w", err)
	}

	sessions := session.NewStore(dir, cfg.SessionTTL(),
		session.WithLogger(log.WithComponent("session")))
	sweeper, err := session.NewSweeper(sessions, cfg.SweepInterval(),
		log.WithComponent("sweeper"))
	if err != nil {
		return nil, fmt.Errorf("build session sweeper: %w", err)
	}

	store, err := market.NewFileStore(cfg.Market.DataFile)
	if err != nil {
		return nil, fmt.Errorf("open market data file: %w", err)
	}
	engine := market.NewEngine(market.EngineConfig{
		TickInterval:   cfg.TickInterval(),
		StepsPerCandle: cfg.Market.StepsPerCandle,
		HistoryCap:     cfg.Market.HistoryCap,
		StartPrice:     cfg.Market.StartPrice,
	}, store, log.WithComponent("market"))

	ledger := market.NewLedger(cfg.Market.StartBalance)

	reg := registry.New()
	reg.MustRegister(paper.New(engine, ledger))
	reg.MustRegister(solana.New(solana.NewHTTPFetcher(cfg.Solana.BalancesURL)))

	dispatcher := dispatch.New(sessions, reg, log.WithComponent("dispatch"))

	m := metrics.New(sessions.Len)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst,
		log.WithComponent("ratelimit"))

	router := httpapi.NewRouter(httpapi.Deps{
		Sessions:   sessions,
		Registry:   reg,
		Dispatcher: dispatcher,
		Engine:     engine,
		Metrics:    m,
		Limiter:    limiter,
		Log:        log.WithComponent("httpapi"),
	})
	cors := middleware.NewCORSMiddleware([]string{"*"})
	server := httpapi.NewServer(cfg.Server.Host, cfg.Server.Port, cors.Handler(router))

	return &Application{
		cfg:        cfg,
		log:        log,
		Directory:  dir,
		Sessions:   sessions,
		Sweeper:    sweeper,
		Engine:     engine,
		Ledger:     ledger,
		Registry:   reg,
		Dispatcher: dispatcher,
		Metrics:    m,
		server:     server,
	}, nil
}

// Run starts the background workers and serves HTTP until the context is
// cancelled or the listener fails.
func (a *Application) Run(ctx context.Context) error {
	a.Sweeper.Start()

	engineCtx, cancelEngine := context.WithCancel(ctx)
	defer cancelEngine()
	go a.Engine.Run(engineCtx)

	a.log.WithField("addr", a.server.Addr()).
		WithField("accounts", a.Directory.Len()).
		WithField("apps", a.Registry.Count()).
		Info("server starting")

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.Sweeper.Stop()
		return err
	case <-ctx.Done():
	}

	return a.shutdown()
}

func (a *Application) shutdown() error {
	a.log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.Sweeper.Stop()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
