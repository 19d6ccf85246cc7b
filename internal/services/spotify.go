// Spotify API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

// errNoContent signals an HTTP 204 from the playback endpoint.
var errNoContent = fmt.Errorf("no content")

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
	URI    string         `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Artists      []SpotifyArtist   `json:"artists"`
	Album        SpotifyAlbum      `json:"album"`
	DurationMS   int               `json:"duration_ms"`
	ExternalURLs map[string]string `json:"external_urls"`
	URI          string            `json:"uri"`
}

// SpotifyCurrentlyPlaying represents the /me/player/currently-playing response.
type SpotifyCurrentlyPlaying struct {
	IsPlaying bool          `json:"is_playing"`
	Item      *SpotifyTrack `json:"item"`
}

// SpotifyRecentlyPlayed represents the /me/player/recently-played response.
type SpotifyRecentlyPlayed struct {
	Items []SpotifyPlayHistory `json:"items"`
}

// SpotifyPlayHistory represents a single play history entry.
type SpotifyPlayHistory struct {
	PlayedAt string       `json:"played_at"`
	Track    SpotifyTrack `json:"track"`
}

// SpotifyService implements the Service interface for Spotify API interactions.
//
// Uses [oauth2] for the refresh_token grant: the long-lived refresh credential
// is seeded into a reusable token source that swaps in a fresh access token
// whenever the current one expires. Tokens are replaced wholesale, never
// partially updated.
type SpotifyService struct {
	config     *oauth2.Config
	source     oauth2.TokenSource
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given credentials.
func NewSpotifyService(creds shared.SpotifyConfig) (*SpotifyService, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirectURI := creds.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-currently-playing",
			"user-read-recently-played",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	s := &SpotifyService{
		config:     config,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 5),
		baseURL:    spotifyBaseURL,
	}

	if creds.RefreshToken != "" {
		s.seedRefreshToken(creds.RefreshToken)
	}

	return s, nil
}

// seedRefreshToken installs the long-lived refresh credential. The token
// source refreshes eagerly on first use because the seed carries no access
// token, and transparently afterwards on expiry.
func (s *SpotifyService) seedRefreshToken(refreshToken string) {
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.httpClient)
	seed := &oauth2.Token{RefreshToken: refreshToken}
	s.source = oauth2.ReuseTokenSource(nil, s.config.TokenSource(ctx, seed))
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for the one-time login used
// to obtain a refresh credential.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Config exposes the underlying OAuth2 config for the auth bootstrap flow.
func (s *SpotifyService) Config() *oauth2.Config {
	return s.config
}

// Token returns a valid access token, refreshing it when expired.
//
// Single attempt: a non-2xx from the token endpoint surfaces as an
// authentication error without retry or backoff.
func (s *SpotifyService) Token(ctx context.Context) (*oauth2.Token, error) {
	if s.source == nil {
		return nil, shared.ErrNoRefreshToken
	}

	token, err := s.source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return token, nil
}

// doRequest performs an authenticated, rate-limited GET against the Spotify API.
//
// Returns errNoContent on 204, [shared.ErrTokenExpired] on 401, and
// [shared.ErrAPIRequest] on any other non-2xx status.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	token, err := s.Token(ctx)
	if err != nil {
		return err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return errNoContent
	case resp.StatusCode == http.StatusUnauthorized:
		return shared.ErrTokenExpired
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// NowPlaying polls the currently-playing endpoint once and normalizes the
// result.
//
// On 204 (nothing playing) it falls back to the most recently played track;
// if that list is empty too, it returns the not-playing sentinel rather than
// an error. A 401 surfaces as [shared.ErrTokenExpired] with no retry loop.
func (s *SpotifyService) NowPlaying(ctx context.Context) (models.PlaybackState, error) {
	var current SpotifyCurrentlyPlaying
	err := s.doRequest(ctx, "/me/player/currently-playing", &current)

	switch {
	case err == nil && current.Item != nil:
		return normalize(*current.Item, current.IsPlaying), nil
	case err != nil && err != errNoContent:
		return models.NotPlaying(), err
	}

	return s.recentlyPlayed(ctx)
}

// recentlyPlayed fetches the single most recent play history entry.
func (s *SpotifyService) recentlyPlayed(ctx context.Context) (models.PlaybackState, error) {
	var recent SpotifyRecentlyPlayed
	err := s.doRequest(ctx, "/me/player/recently-played?limit=1", &recent)

	switch {
	case err == errNoContent || (err == nil && len(recent.Items) == 0):
		return models.NotPlaying(), nil
	case err != nil:
		return models.NotPlaying(), err
	}

	return normalize(recent.Items[0].Track, false), nil
}

// FetchArtwork downloads album artwork bytes from the given URL.
func (s *SpotifyService) FetchArtwork(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artwork request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: artwork status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// normalize converts a Spotify track into the service-agnostic playback state.
func normalize(track SpotifyTrack, isPlaying bool) models.PlaybackState {
	state := models.PlaybackState{
		TrackName: track.Name,
		TrackURL:  track.ExternalURLs["spotify"],
		IsPlaying: isPlaying,
	}

	if len(track.Artists) > 0 {
		state.ArtistName = track.Artists[0].Name
	}

	// Spotify orders images largest first; the middle size fits the badge.
	if n := len(track.Album.Images); n > 1 {
		state.AlbumArtURL = track.Album.Images[1].URL
	} else if n == 1 {
		state.AlbumArtURL = track.Album.Images[0].URL
	}

	return state
}
