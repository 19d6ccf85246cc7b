package main

import (
	"context"
	"os"

	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var spotify services.Service
	if svc, err := services.NewSpotifyService(config.Credentials.Spotify); err == nil {
		spotify = svc
	} else {
		logger.Debug("spotify credentials not configured", "error", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Spotify: spotify,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "nowplaying",
		Usage:    "Serve Spotify now-playing & daylist badges",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
