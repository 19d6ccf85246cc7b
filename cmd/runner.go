package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	spotify    services.Service
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Spotify    services.Service
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		spotify:    opts.Spotify,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// reloadConfig swaps in the config at the given path and rebuilds the Spotify
// service from its credentials.
func (r *Runner) reloadConfig(path string) error {
	if path == "" || path == r.configPath {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// Env-only deployments run without a config file.
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}

	r.config = config
	r.configPath = path

	if svc, err := services.NewSpotifyService(config.Credentials.Spotify); err == nil {
		r.spotify = svc
	}

	return nil
}

// requireSpotify returns the configured Spotify service or an error when
// credentials are missing.
func (r *Runner) requireSpotify() (services.Service, error) {
	if r.spotify == nil {
		return nil, fmt.Errorf("%w: set client_id and client_secret in config.toml or the environment", shared.ErrMissingCredentials)
	}
	return r.spotify, nil
}

// openDB opens the configured SQLite database and runs pending migrations.
func (r *Runner) openDB() (*sql.DB, error) {
	path := r.config.Database.Path
	if path == "" {
		path = "nowplaying.db"
	}

	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := repositories.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, serveCommand, authCommand, daylistCommand, nowCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
