package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// TrackRepository persists the single last-known track, used as the /link
// fallback when nothing is playing and play history is empty.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert replaces the last-known track record.
func (r *TrackRepository) Upsert(track models.LastTrack) error {
	if track.URL == "" {
		return fmt.Errorf("%w: track URL is required", shared.ErrInvalidInput)
	}

	seenAt := track.SeenAt
	if seenAt.IsZero() {
		seenAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO last_track (id, name, artist, url, seen_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			artist = excluded.artist,
			url = excluded.url,
			seen_at = excluded.seen_at
	`, track.Name, track.Artist, track.URL, seenAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert last track: %w", err)
	}

	return nil
}

// Last returns the stored last-known track.
//
// Returns [shared.ErrNoTrackLink] when nothing has ever been recorded.
func (r *TrackRepository) Last() (*models.LastTrack, error) {
	var track models.LastTrack
	err := r.db.QueryRow(
		"SELECT name, artist, url, seen_at FROM last_track WHERE id = 1",
	).Scan(&track.Name, &track.Artist, &track.URL, &track.SeenAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNoTrackLink
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last track: %w", err)
	}

	return &track, nil
}
