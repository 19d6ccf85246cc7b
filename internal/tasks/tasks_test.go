package tasks

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/shared"
)

func newTaskDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := repositories.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func zipArtifact(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestDaylistFetcher(t *testing.T) {
	t.Run("Fetch", func(t *testing.T) {
		t.Run("Caches Phrase From Artifact", func(t *testing.T) {
			artifact := zipArtifact(t, map[string]string{"daylist.txt": "dreamy bedroom pop morning\n"})
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(artifact)
			}))
			defer srv.Close()

			db := newTaskDB(t)
			repo := repositories.NewDaylistRepository(db)
			fetcher := NewDaylistFetcher(DaylistFetcherOpts{ArtifactURL: srv.URL, Repo: repo})

			phrase, err := fetcher.Fetch(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if phrase != "dreamy bedroom pop morning" {
				t.Errorf("unexpected phrase %q", phrase)
			}

			entry, err := repo.Latest()
			if err != nil {
				t.Fatalf("expected cached entry, got %v", err)
			}
			if entry.Phrase != phrase {
				t.Errorf("cache holds %q, want %q", entry.Phrase, phrase)
			}
		})

		t.Run("No Txt Entry", func(t *testing.T) {
			artifact := zipArtifact(t, map[string]string{"screenshot.png": "not text"})
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write(artifact)
			}))
			defer srv.Close()

			fetcher := NewDaylistFetcher(DaylistFetcherOpts{
				ArtifactURL: srv.URL,
				Repo:        repositories.NewDaylistRepository(newTaskDB(t)),
			})

			_, err := fetcher.Fetch(context.Background())
			if !errors.Is(err, shared.ErrStaleDaylist) {
				t.Errorf("expected ErrStaleDaylist, got %v", err)
			}
		})

		t.Run("Upstream Failure", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer srv.Close()

			fetcher := NewDaylistFetcher(DaylistFetcherOpts{
				ArtifactURL: srv.URL,
				Repo:        repositories.NewDaylistRepository(newTaskDB(t)),
			})

			_, err := fetcher.Fetch(context.Background())
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Missing URL", func(t *testing.T) {
			fetcher := NewDaylistFetcher(DaylistFetcherOpts{
				Repo: repositories.NewDaylistRepository(newTaskDB(t)),
			})

			_, err := fetcher.Fetch(context.Background())
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Not A Zip", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text, not a zip"))
			}))
			defer srv.Close()

			fetcher := NewDaylistFetcher(DaylistFetcherOpts{
				ArtifactURL: srv.URL,
				Repo:        repositories.NewDaylistRepository(newTaskDB(t)),
			})

			if _, err := fetcher.Fetch(context.Background()); err == nil {
				t.Error("expected an error for a malformed artifact")
			}
		})
	})

	t.Run("Store", func(t *testing.T) {
		t.Run("Trims Whitespace", func(t *testing.T) {
			repo := repositories.NewDaylistRepository(newTaskDB(t))
			fetcher := NewDaylistFetcher(DaylistFetcherOpts{Repo: repo})

			if err := fetcher.Store("  feel-good friday  \n"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			entry, err := repo.Latest()
			if err != nil {
				t.Fatalf("expected cached entry, got %v", err)
			}
			if entry.Phrase != "feel-good friday" {
				t.Errorf("unexpected phrase %q", entry.Phrase)
			}
		})

		t.Run("Rejects Empty Phrase", func(t *testing.T) {
			fetcher := NewDaylistFetcher(DaylistFetcherOpts{
				Repo: repositories.NewDaylistRepository(newTaskDB(t)),
			})

			if err := fetcher.Store("   "); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})
}
