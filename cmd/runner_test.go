package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/nowplaying/internal/shared"
	tu "github.com/desertthunder/nowplaying/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			spotify := &tu.MockService{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Spotify:    spotify,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.spotify != spotify {
				t.Error("expected spotify to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("write failure surfaces error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected write error")
			}
		})
	})

	t.Run("requireSpotify", func(t *testing.T) {
		t.Run("missing service", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if _, err := runner.requireSpotify(); err == nil {
				t.Error("expected error when spotify is not configured")
			}
		})

		t.Run("configured service", func(t *testing.T) {
			spotify := &tu.MockService{}
			runner := NewRunner(RunnerOpts{Spotify: spotify})

			svc, err := runner.requireSpotify()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc != spotify {
				t.Error("expected the configured service")
			}
		})
	})

	t.Run("openDB runs migrations", func(t *testing.T) {
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "runner.db")
		runner := NewRunner(RunnerOpts{Config: config})

		db, err := runner.openDB()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		defer db.Close()

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("expected schema_migrations table: %v", err)
		}
		if count == 0 {
			t.Error("expected at least one applied migration")
		}
	})

	t.Run("Setup", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")

		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "setup.db")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output})

		cmd := &cli.Command{
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "config", Value: configPath},
			},
			Action: runner.Setup,
		}

		if err := cmd.Run(context.Background(), []string{"setup"}); err != nil {
			t.Fatalf("setup failed: %v", err)
		}

		tu.AssertFileExists(t, configPath)
		if !strings.Contains(output.String(), "Created") {
			t.Errorf("expected creation notice, got %q", output.String())
		}
	})
}
