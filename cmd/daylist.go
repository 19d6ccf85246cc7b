package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/desertthunder/nowplaying/internal/tasks"
	"github.com/urfave/cli/v3"
)

// DaylistFetch downloads the scraper artifact and caches the phrase.
func (r *Runner) DaylistFetch(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	artifactURL := r.config.Daylist.ArtifactURL
	if cmd.String("url") != "" {
		artifactURL = cmd.String("url")
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fetcher := tasks.NewDaylistFetcher(tasks.DaylistFetcherOpts{
		ArtifactURL: artifactURL,
		HTTPClient:  r.httpClient,
		Repo:        repositories.NewDaylistRepository(db),
		Logger:      shared.WithLogger(r.logger, "component", "daylist"),
	})

	phrase, err := fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	r.writePlain("Cached daylist phrase: %s\n", phrase)
	return nil
}

// DaylistSet writes a phrase directly into the cache.
func (r *Runner) DaylistSet(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	phrase := cmd.StringArg("phrase")
	if phrase == "" {
		return fmt.Errorf("%w: phrase", shared.ErrMissingArgument)
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	fetcher := tasks.NewDaylistFetcher(tasks.DaylistFetcherOpts{
		Repo:   repositories.NewDaylistRepository(db),
		Logger: shared.WithLogger(r.logger, "component", "daylist"),
	})

	if err := fetcher.Store(phrase); err != nil {
		return err
	}

	r.writePlain("Cached daylist phrase: %s\n", phrase)
	return nil
}

// DaylistShow prints the cached daylist phrase.
func (r *Runner) DaylistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	entry, err := repositories.NewDaylistRepository(db).Latest()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"phrase":     entry.Phrase,
			"fetched_at": entry.FetchedAt,
		}, true)
	}

	r.writePlain("%s (fetched %s)\n", entry.Phrase, entry.FetchedAt.Local().Format("2006-01-02 15:04"))
	return nil
}
