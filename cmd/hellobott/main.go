package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/HKK13/hello-bott/internal/app"
	"github.com/HKK13/hello-bott/internal/cli"
	"github.com/HKK13/hello-bott/internal/clock"
	"github.com/HKK13/hello-bott/internal/config"
	"github.com/HKK13/hello-bott/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	open := func(configPath string) (*app.App, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
		if err != nil {
			return nil, err
		}
		slog.SetDefault(logger)
		return app.New(cfg, logger, clock.Real())
	}

	return cli.NewRootCmd(open).Execute()
}
