package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file if missing and runs database migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.writePlain("Created %s, fill in your Spotify credentials.\n", configPath)
	} else {
		if err := r.reloadConfig(configPath); err != nil {
			return err
		}
		r.writePlain("Config file %s already exists.\n", configPath)
	}

	db, err := r.openDB()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	r.writePlain("Database ready at %s.\n", r.config.Database.Path)
	r.logger.Info("setup complete", "config", configPath, "database", r.config.Database.Path)
	return nil
}
