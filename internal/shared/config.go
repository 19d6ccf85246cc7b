package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Daylist     DaylistConfig     `toml:"daylist"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
//
// RefreshToken is the long-lived credential obtained once via the auth
// command and exchanged for short-lived access tokens at runtime.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
	RedirectURI  string `toml:"redirect_uri"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DaylistConfig contains settings for the daylist cache refresh.
type DaylistConfig struct {
	ArtifactURL string `toml:"artifact_url"`
	Timezone    string `toml:"timezone"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the
// embedded example config, plus environment variable overrides.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv overrides credential fields from the environment. Deployment
// targets inject secrets as environment variables rather than files.
func (c *Config) applyEnv() {
	if v := os.Getenv("CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("REFRESH_TOKEN"); v != "" {
		c.Credentials.Spotify.RefreshToken = v
	}
}

// Validate checks that the credentials required to reach the Spotify API are
// present.
func (c *Config) Validate() error {
	s := c.Credentials.Spotify
	if s.ClientID == "" || s.ClientSecret == "" {
		return fmt.Errorf("%w: client_id and client_secret are required", ErrMissingCredentials)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the
// embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
