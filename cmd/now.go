package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/nowplaying/internal/ui"
	"github.com/urfave/cli/v3"
)

// Now prints the current playback state, or keeps polling it in a terminal
// UI when --watch is set.
func (r *Runner) Now(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	spotify, err := r.requireSpotify()
	if err != nil {
		return err
	}

	if cmd.Bool("watch") {
		program := tea.NewProgram(ui.NewWatchModel(spotify, 0))
		_, err := program.Run()
		return err
	}

	state, err := spotify.NowPlaying(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"track":      state.TrackName,
			"artist":     state.ArtistName,
			"url":        state.TrackURL,
			"album_art":  state.AlbumArtURL,
			"is_playing": state.IsPlaying,
		}, true)
	}

	if !state.HasTrack() {
		r.writePlain("Nothing playing right now.\n")
		return nil
	}

	status := "Last played"
	if state.IsPlaying {
		status = "Now playing"
	}
	r.writePlain("%s: %s by %s\n", status, state.TrackName, state.ArtistName)
	if state.TrackURL != "" {
		r.writePlain("%s\n", state.TrackURL)
	}

	return nil
}
