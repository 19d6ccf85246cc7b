package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/models"
	"github.com/desertthunder/nowplaying/internal/render"
	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
)

const (
	svgCacheSeconds            = 60
	daylistCacheSeconds        = 1800
	daylistFallbackCacheSecond = 60
)

// BadgeHandler serves the rendered badge artifacts. Implements the [Handler]
// interface for registration with a [Router].
//
// Each request runs one sequential chain: token check, one playback poll, one
// render. Requests are independent and stateless; the only shared state is
// the token source and the SQLite stores, both internally synchronized.
type BadgeHandler struct {
	spotify services.Service
	daylist *repositories.DaylistRepository
	tracks  *repositories.TrackRepository
	logger  *log.Logger
	now     func() time.Time
	loc     *time.Location
}

// BadgeHandlerOpts contains dependencies for creating a BadgeHandler.
type BadgeHandlerOpts struct {
	Spotify  services.Service
	Daylist  *repositories.DaylistRepository
	Tracks   *repositories.TrackRepository
	Logger   *log.Logger
	Now      func() time.Time
	Timezone string
}

// NewBadgeHandler creates a new BadgeHandler with the given dependencies.
func NewBadgeHandler(opts BadgeHandlerOpts) *BadgeHandler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	loc, err := time.LoadLocation(opts.Timezone)
	if err != nil || opts.Timezone == "" {
		loc = time.UTC
	}

	return &BadgeHandler{
		spotify: opts.Spotify,
		daylist: opts.Daylist,
		tracks:  opts.Tracks,
		logger:  opts.Logger,
		now:     opts.Now,
		loc:     loc,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *BadgeHandler) Routes() []string {
	return []string{
		"/",
		"/svg",
		"/link",
		"/daylist",
		"/daylist/light",
		"/daylist/dark",
		"/favicon.ico",
	}
}

// ServeHTTP dispatches to the badge endpoints.
func (h *BadgeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/" || r.URL.Path == "/svg":
		h.serveSVG(w, r)
	case r.URL.Path == "/link":
		h.serveLink(w, r)
	case strings.HasPrefix(r.URL.Path, "/daylist"):
		h.serveDaylist(w, r)
	case r.URL.Path == "/favicon.ico":
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, http.StatusNotFound, "not found")
	}
}

// serveSVG renders the now-playing badge.
func (h *BadgeHandler) serveSVG(w http.ResponseWriter, r *http.Request) {
	state, err := h.spotify.NowPlaying(r.Context())
	if err != nil {
		h.logger.Error("playback poll failed", "error", err)
		h.writeError(w, http.StatusServiceUnavailable, "SVG not ready")
		return
	}

	song, artist := state.TrackName, state.ArtistName
	if !state.HasTrack() {
		song, artist = "Nothing playing", "Spotify"
	}

	var artwork []byte
	if state.AlbumArtURL != "" {
		if artwork, err = h.spotify.FetchArtwork(r.Context(), state.AlbumArtURL); err != nil {
			h.logger.Warn("artwork fetch failed, using placeholder", "error", err)
		}
	}

	svg, err := render.NowPlaying(song, artist, artwork, state.IsPlaying)
	if err != nil {
		h.logger.Error("badge render failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "SVG not ready")
		return
	}

	h.recordTrack(state)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", cacheControl(svgCacheSeconds))
	w.Write(svg)
}

// serveLink redirects to the current track, falling back to the last-known
// track when nothing is playing and play history is empty.
func (h *BadgeHandler) serveLink(w http.ResponseWriter, r *http.Request) {
	state, err := h.spotify.NowPlaying(r.Context())
	if err != nil {
		h.logger.Error("playback poll failed", "error", err)
	}

	if state.HasTrack() && state.TrackURL != "" {
		h.recordTrack(state)
		http.Redirect(w, r, state.TrackURL, http.StatusFound)
		return
	}

	if h.tracks == nil {
		h.writeError(w, http.StatusNotFound, "No track link available")
		return
	}

	last, err := h.tracks.Last()
	if err != nil {
		if !errors.Is(err, shared.ErrNoTrackLink) {
			h.logger.Error("last track lookup failed", "error", err)
		}
		h.writeError(w, http.StatusNotFound, "No track link available")
		return
	}

	http.Redirect(w, r, last.URL, http.StatusFound)
}

// serveDaylist renders the daylist badge, themed by path suffix.
func (h *BadgeHandler) serveDaylist(w http.ResponseWriter, r *http.Request) {
	theme := render.ThemeLight
	if strings.HasSuffix(r.URL.Path, "/dark") {
		theme = render.ThemeDark
	}

	now := h.now().In(h.loc)

	// An absent or unreadable cache never fails the request; the time-of-day
	// phrase stands in with a short cache lifetime.
	phrase := render.FallbackPhrase(now)
	maxAge := daylistFallbackCacheSecond
	if h.daylist != nil {
		entry, err := h.daylist.Latest()
		switch {
		case err == nil:
			phrase = render.DaylistPhrase(entry.Phrase, now)
			maxAge = daylistCacheSeconds
		case !errors.Is(err, shared.ErrStaleDaylist):
			h.logger.Error("daylist cache read failed", "error", err)
		}
	}

	svg, err := render.Daylist(phrase, theme)
	if err != nil {
		h.logger.Error("daylist render failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Daylist SVG not ready")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", cacheControl(maxAge))
	w.Write(svg)
}

// recordTrack upserts the last-known track. Failures are logged, not
// surfaced; the badge response does not depend on the store.
func (h *BadgeHandler) recordTrack(state models.PlaybackState) {
	if h.tracks == nil || !state.HasTrack() || state.TrackURL == "" {
		return
	}

	err := h.tracks.Upsert(models.LastTrack{
		Name:   state.TrackName,
		Artist: state.ArtistName,
		URL:    state.TrackURL,
		SeenAt: h.now(),
	})
	if err != nil {
		h.logger.Warn("failed to record last track", "error", err)
	}
}

func (h *BadgeHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func cacheControl(maxAge int) string {
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d, must-revalidate", maxAge, maxAge)
}
