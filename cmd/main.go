package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/sift/internal/services"
	"github.com/desertthunder/sift/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var discovery services.Service
	creds := config.Credentials.Discovery
	if creds.ClientID != "" && creds.ClientSecret != "" {
		if svc, err := services.NewDiscoveryService(creds.Map(), config.Discovery.RequestsPerSec); err == nil {
			discovery = svc
		}
	}

	apiService := services.NewAPIService(creds.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Discovery:  discovery,
		API:        apiService,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "sift",
		Usage:    "Swipe through music discovery from your terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
