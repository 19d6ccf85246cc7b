// package services defines interface Service for interacting with the
// Spotify Web API.
package services

import (
	"context"

	"github.com/desertthunder/nowplaying/internal/models"
	"golang.org/x/oauth2"
)

// Service defines the interface for a playback provider that can mint access
// tokens and report the current listening state.
type Service interface {
	// Token returns a valid access token, refreshing via the long-lived
	// refresh credential when the current one has expired.
	Token(ctx context.Context) (*oauth2.Token, error)

	// NowPlaying polls the provider once and returns the normalized playback
	// state. A provider reporting nothing playing yields the not-playing
	// sentinel, not an error.
	NowPlaying(ctx context.Context) (models.PlaybackState, error)

	// FetchArtwork downloads album artwork bytes from the given URL.
	FetchArtwork(ctx context.Context, url string) ([]byte, error)

	// Name returns the name of the provider (e.g., "Spotify")
	Name() string
}
