package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/server"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the badge HTTP server until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	spotify, err := r.requireSpotify()
	if err != nil {
		return err
	}

	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	handler := server.NewBadgeHandler(server.BadgeHandlerOpts{
		Spotify:  spotify,
		Daylist:  repositories.NewDaylistRepository(db),
		Tracks:   repositories.NewTrackRepository(db),
		Logger:   shared.WithLogger(r.logger, "component", "badges"),
		Timezone: r.config.Daylist.Timezone,
	})

	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(handler)

	host := r.config.Server.Host
	if cmd.String("host") != "" {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if p := cmd.Int("port"); p != 0 {
		port = int(p)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		r.logger.Info("serving badges", "addr", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		r.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
