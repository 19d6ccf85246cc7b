// package render turns playback state and daylist phrases into SVG badge
// artifacts. Rendering is pure template substitution: the same inputs always
// produce byte-identical output, and nothing here performs I/O.
package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl assets/*.txt
var files embed.FS

// Theme selects the daylist badge color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var templates = template.Must(template.New("badges").Funcs(template.FuncMap{
	"xml": escapeXML,
}).ParseFS(files, "templates/*.tmpl"))

var (
	placeholderArt = mustAsset("assets/placeholder_image.txt")
	spotifyLogo    = mustAsset("assets/spotify_logo.txt")
)

func mustAsset(name string) string {
	data, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("missing embedded asset %s: %v", name, err))
	}
	return strings.TrimSpace(string(data))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// nowPlayingData is the template context for the now-playing badge.
type nowPlayingData struct {
	Song    string
	Artist  string
	Image   string
	Logo    string
	Playing bool
}

// daylistData is the template context for the daylist badge.
type daylistData struct {
	Phrase string
	Scheme Theme
	Logo   string
}

// NowPlaying renders the now-playing SVG badge.
//
// artwork holds raw album art bytes fetched by the caller; when nil the
// embedded placeholder image is used instead.
func NowPlaying(song, artist string, artwork []byte, playing bool) ([]byte, error) {
	image := placeholderArt
	if len(artwork) > 0 {
		image = base64.StdEncoding.EncodeToString(artwork)
	}

	data := nowPlayingData{
		Song:    song,
		Artist:  artist,
		Image:   image,
		Logo:    spotifyLogo,
		Playing: playing,
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "nowplaying.svg.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to render now-playing badge: %w", err)
	}

	return buf.Bytes(), nil
}

// Daylist renders the daylist SVG badge with the given phrase and theme.
func Daylist(phrase string, theme Theme) ([]byte, error) {
	if theme != ThemeDark {
		theme = ThemeLight
	}

	data := daylistData{
		Phrase: phrase,
		Scheme: theme,
		Logo:   spotifyLogo,
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "daylist.svg.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to render daylist badge: %w", err)
	}

	return buf.Bytes(), nil
}
