// package tasks contains the out-of-band jobs that keep the daylist cache
// warm. The browser-automation scrape itself runs elsewhere; these tasks only
// consume what it publishes.
package tasks

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/nowplaying/internal/repositories"
	"github.com/desertthunder/nowplaying/internal/shared"
)

// Daylist entries older than this are pruned after a successful fetch.
const pruneAfter = 7 * 24 * time.Hour

// DaylistFetcher downloads the scraper's CI artifact (a zip containing a
// single .txt with the daylist phrase) and writes the phrase into the cache
// repository.
type DaylistFetcher struct {
	artifactURL string
	httpClient  *http.Client
	repo        *repositories.DaylistRepository
	logger      *log.Logger
}

// DaylistFetcherOpts contains configuration for creating a DaylistFetcher.
type DaylistFetcherOpts struct {
	ArtifactURL string
	HTTPClient  *http.Client
	Repo        *repositories.DaylistRepository
	Logger      *log.Logger
}

// NewDaylistFetcher creates a new DaylistFetcher.
func NewDaylistFetcher(opts DaylistFetcherOpts) *DaylistFetcher {
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &DaylistFetcher{
		artifactURL: opts.ArtifactURL,
		httpClient:  opts.HTTPClient,
		repo:        opts.Repo,
		logger:      opts.Logger,
	}
}

// Fetch downloads the artifact, extracts the daylist phrase, and stores it.
// Returns the phrase on success.
func (f *DaylistFetcher) Fetch(ctx context.Context) (string, error) {
	if f.artifactURL == "" {
		return "", fmt.Errorf("%w: daylist artifact_url is not configured", shared.ErrInvalidConfig)
	}

	f.logger.Info("fetching daylist artifact", "url", f.artifactURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.artifactURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("artifact request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: artifact status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact body: %w", err)
	}

	phrase, err := extractPhrase(body)
	if err != nil {
		return "", err
	}

	if err := f.Store(phrase); err != nil {
		return "", err
	}

	f.logger.Info("cached daylist phrase", "phrase", phrase)
	return phrase, nil
}

// Store writes a phrase directly into the cache and prunes old entries.
func (f *DaylistFetcher) Store(phrase string) error {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return fmt.Errorf("%w: empty daylist phrase", shared.ErrInvalidInput)
	}

	if err := f.repo.Put(phrase, time.Now()); err != nil {
		return err
	}

	if err := f.repo.Prune(time.Now().Add(-pruneAfter)); err != nil {
		f.logger.Warn("failed to prune daylist cache", "error", err)
	}

	return nil
}

// extractPhrase unzips the artifact and returns the trimmed contents of the
// first .txt entry.
func extractPhrase(artifact []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(artifact), int64(len(artifact)))
	if err != nil {
		return "", fmt.Errorf("failed to open artifact zip: %w", err)
	}

	for _, file := range reader.File {
		if !strings.HasSuffix(file.Name, ".txt") {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open artifact entry %s: %w", file.Name, err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read artifact entry %s: %w", file.Name, err)
		}

		phrase := strings.TrimSpace(string(content))
		if phrase == "" {
			return "", fmt.Errorf("%w: artifact %s is empty", shared.ErrStaleDaylist, file.Name)
		}

		return phrase, nil
	}

	return "", fmt.Errorf("%w: no .txt entry in artifact", shared.ErrStaleDaylist)
}
