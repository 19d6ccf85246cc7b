package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/nowplaying/internal/server"
	"github.com/desertthunder/nowplaying/internal/services"
	"github.com/desertthunder/nowplaying/internal/shared"
	"github.com/urfave/cli/v3"
)

const authTimeout = 5 * time.Minute

// Auth runs the one-time authorization-code flow on localhost and prints the
// long-lived refresh token to put in config.toml or the REFRESH_TOKEN
// environment variable.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	svc, err := r.requireSpotify()
	if err != nil {
		return err
	}

	spotify, ok := svc.(*services.SpotifyService)
	if !ok {
		return fmt.Errorf("%w: auth requires the Spotify service", shared.ErrInvalidConfig)
	}

	redirect, err := url.Parse(spotify.Config().RedirectURL)
	if err != nil {
		return fmt.Errorf("%w: bad redirect_uri: %v", shared.ErrInvalidConfig, err)
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(spotify.Config(), state)

	router := server.NewBasicRouter()
	router.Handler(handler)

	srv := &http.Server{Addr: redirect.Host, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			r.logger.Error("callback server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	r.writePlain("Open this URL in your browser to authorize:\n\n  %s\n\n", spotify.GetAuthURL(state))
	r.writePlain("Waiting for the callback on %s...\n", redirect.Host)

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
		}
		if result.Token.RefreshToken == "" {
			return fmt.Errorf("%w: no refresh token in response", shared.ErrAuthFailed)
		}

		r.writePlain("\nRefresh token:\n\n  %s\n\n", result.Token.RefreshToken)
		r.writePlain("Store it under [credentials.spotify] refresh_token in config.toml\nor export it as REFRESH_TOKEN.\n")
		r.logger.Info("authorization complete", "expiry", result.Token.Expiry)
		return nil

	case <-time.After(authTimeout):
		return fmt.Errorf("%w: no callback received within %s", shared.ErrAuthFailed, authTimeout)

	case <-ctx.Done():
		return ctx.Err()
	}
}
