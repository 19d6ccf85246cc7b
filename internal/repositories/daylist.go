package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// DaylistRepository persists daylist phrases written by the out-of-band
// fetcher. The server only ever reads the newest entry; older rows are kept
// as scrape history.
type DaylistRepository struct {
	db *sql.DB
}

// NewDaylistRepository creates a new DaylistRepository with the given database connection
func NewDaylistRepository(db *sql.DB) *DaylistRepository {
	return &DaylistRepository{db: db}
}

// Put records a daylist phrase. Empty phrases are rejected, matching the only
// validation the value gets anywhere in the system.
func (r *DaylistRepository) Put(phrase string, fetchedAt time.Time) error {
	if phrase == "" {
		return fmt.Errorf("%w: empty daylist phrase", shared.ErrInvalidInput)
	}

	_, err := r.db.Exec(
		"INSERT INTO daylist_entries (phrase, fetched_at) VALUES (?, ?)",
		phrase, fetchedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store daylist phrase: %w", err)
	}

	return nil
}

// Latest returns the most recently fetched daylist entry.
//
// Returns [shared.ErrStaleDaylist] when the cache is empty; callers fall back
// to a time-of-day phrase rather than failing the request.
func (r *DaylistRepository) Latest() (*models.DaylistEntry, error) {
	var entry models.DaylistEntry
	err := r.db.QueryRow(
		"SELECT phrase, fetched_at FROM daylist_entries ORDER BY fetched_at DESC, id DESC LIMIT 1",
	).Scan(&entry.Phrase, &entry.FetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrStaleDaylist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read daylist cache: %w", err)
	}
	if entry.Phrase == "" {
		return nil, shared.ErrStaleDaylist
	}

	return &entry, nil
}

// Prune deletes entries older than the cutoff, keeping the newest row
// regardless so the cache never empties itself.
func (r *DaylistRepository) Prune(cutoff time.Time) error {
	_, err := r.db.Exec(`
		DELETE FROM daylist_entries
		WHERE fetched_at < ?
		AND id != (SELECT id FROM daylist_entries ORDER BY fetched_at DESC, id DESC LIMIT 1)
	`, cutoff.UTC())
	if err != nil {
		return fmt.Errorf("failed to prune daylist cache: %w", err)
	}
	return nil
}
