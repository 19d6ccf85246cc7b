// package models defines the data model for the now-playing badge service
package models

import "time"

// PlaybackState is the normalized result of a playback poll.
//
// Ephemeral: recomputed on every request and never held longer than one
// request lifecycle. The zero value is the "not playing" sentinel.
type PlaybackState struct {
	TrackName   string
	ArtistName  string
	AlbumArtURL string
	TrackURL    string
	IsPlaying   bool
}

// NotPlaying returns the sentinel state served when Spotify reports nothing
// playing and nothing recently played.
func NotPlaying() PlaybackState {
	return PlaybackState{}
}

// HasTrack reports whether the state describes an actual track, playing or
// recently played.
func (p PlaybackState) HasTrack() bool {
	return p.TrackName != ""
}

// DaylistEntry is a cached daylist phrase written by the out-of-band fetcher.
//
// The phrase is a pass-through string; the only validation anywhere is
// non-emptiness. FetchedAt records when the scraper produced it, so staleness
// is observable even though it is an accepted property.
type DaylistEntry struct {
	Phrase    string
	FetchedAt time.Time
}

// LastTrack is the persisted record of the most recently observed track,
// used as the /link fallback when nothing is playing.
type LastTrack struct {
	Name   string
	Artist string
	URL    string
	SeenAt time.Time
}
