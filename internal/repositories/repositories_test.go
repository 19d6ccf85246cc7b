package repositories

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestMigrations(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		db := newTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("second migration run failed: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 applied migration, got %d", count)
		}
	})
}

func TestDaylistRepository(t *testing.T) {
	t.Run("Empty Cache Is Stale", func(t *testing.T) {
		repo := NewDaylistRepository(newTestDB(t))

		_, err := repo.Latest()
		if !errors.Is(err, shared.ErrStaleDaylist) {
			t.Errorf("expected ErrStaleDaylist, got %v", err)
		}
	})

	t.Run("Put And Latest", func(t *testing.T) {
		repo := NewDaylistRepository(newTestDB(t))
		fetchedAt := time.Date(2025, 6, 1, 16, 30, 0, 0, time.UTC)

		if err := repo.Put("chill indie tuesday afternoon", fetchedAt); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		entry, err := repo.Latest()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.Phrase != "chill indie tuesday afternoon" {
			t.Errorf("unexpected phrase %q", entry.Phrase)
		}
		if !entry.FetchedAt.Equal(fetchedAt) {
			t.Errorf("unexpected fetched_at %v", entry.FetchedAt)
		}
	})

	t.Run("Latest Wins", func(t *testing.T) {
		repo := NewDaylistRepository(newTestDB(t))
		base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

		for i, phrase := range []string{"first", "second", "third"} {
			if err := repo.Put(phrase, base.Add(time.Duration(i)*time.Hour)); err != nil {
				t.Fatalf("failed to put phrase: %v", err)
			}
		}

		entry, err := repo.Latest()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if entry.Phrase != "third" {
			t.Errorf("expected newest phrase, got %q", entry.Phrase)
		}
	})

	t.Run("Empty Phrase Rejected", func(t *testing.T) {
		repo := NewDaylistRepository(newTestDB(t))

		err := repo.Put("", time.Now())
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Prune Keeps Newest", func(t *testing.T) {
		repo := NewDaylistRepository(newTestDB(t))
		old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

		if err := repo.Put("ancient vibes", old); err != nil {
			t.Fatalf("failed to put phrase: %v", err)
		}

		if err := repo.Prune(time.Now()); err != nil {
			t.Fatalf("prune failed: %v", err)
		}

		entry, err := repo.Latest()
		if err != nil {
			t.Fatalf("the newest entry must survive pruning, got %v", err)
		}
		if entry.Phrase != "ancient vibes" {
			t.Errorf("unexpected phrase %q", entry.Phrase)
		}
	})
}

func TestTrackRepository(t *testing.T) {
	t.Run("Empty Store", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		_, err := repo.Last()
		if !errors.Is(err, shared.ErrNoTrackLink) {
			t.Errorf("expected ErrNoTrackLink, got %v", err)
		}
	})

	t.Run("Upsert Replaces", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		first := models.LastTrack{Name: "One", Artist: "A", URL: "https://open.spotify.com/track/1"}
		second := models.LastTrack{Name: "Two", Artist: "B", URL: "https://open.spotify.com/track/2"}

		if err := repo.Upsert(first); err != nil {
			t.Fatalf("first upsert failed: %v", err)
		}
		if err := repo.Upsert(second); err != nil {
			t.Fatalf("second upsert failed: %v", err)
		}

		last, err := repo.Last()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if last.URL != second.URL {
			t.Errorf("expected the newer URL, got %q", last.URL)
		}
		if last.Name != "Two" || last.Artist != "B" {
			t.Errorf("unexpected record %+v", last)
		}

		var count int
		if err := repo.db.QueryRow("SELECT COUNT(*) FROM last_track").Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("expected a single row, got %d", count)
		}
	})

	t.Run("Missing URL Rejected", func(t *testing.T) {
		repo := NewTrackRepository(newTestDB(t))

		err := repo.Upsert(models.LastTrack{Name: "No Link"})
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}
