// Command tradecore runs the trading platform API server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ekato-labs/tradecore/internal/app"
	"github.com/ekato-labs/tradecore/internal/config"
	"github.com/ekato-labs/tradecore/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Optional; environment variables beat file values either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewDefault("main").WithError(err).Fatal("load configuration")
	}

	log := logger.New(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, "main")

	application, err := app.New(cfg, log.WithComponent("app"))
	if err != nil {
		log.WithError(err).Fatal("initialise application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
