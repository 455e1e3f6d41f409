package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/Ratepiratepi/webfleet-gps-api/config"
	"github.com/Ratepiratepi/webfleet-gps-api/internal/app"
	"github.com/Ratepiratepi/webfleet-gps-api/pkg/logger"
)

var helpFlag = flag.Bool("help", false, "Show help message")

func main() {
	flag.Parse()
	if *helpFlag {
		config.PrintHelp()
		return
	}

	ctx := context.Background()
	log := logger.InitLogger("webfleet-gps-api", logger.LevelInfo)

	cfg, err := config.NewConfig()
	if err != nil {
		log.Error(ctx, "failed to configure application", err)
		if errors.Is(err, config.ErrMissingCredentials) {
			config.PrintHelp()
		}
		os.Exit(1)
	}

	if logger.ValidateLogLevel(cfg.Logging.Level) {
		log = logger.InitLogger("webfleet-gps-api", cfg.Logging.Level)
	}

	if err := app.EnsureAPIKey(ctx, cfg, log); err != nil {
		log.Error(ctx, "failed to generate API key", err)
		os.Exit(1)
	}

	// Printing configuration
	config.PrintConfig(cfg)

	application, err := app.NewApplication(ctx, *cfg, log)
	if err != nil {
		log.Error(ctx, "failed to init application", err)
		os.Exit(1)
	}

	if err = application.Start(ctx); err != nil {
		log.Error(ctx, "failed to run application", err)
		os.Exit(1)
	}
}
