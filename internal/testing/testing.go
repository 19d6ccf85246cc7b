// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/desertthunder/nowplaying/internal/models"
	"golang.org/x/oauth2"
)

// MockService is a test double for [services.Service]
type MockService struct {
	State      models.PlaybackState
	Artwork    []byte
	TokenErr   error
	PollErr    error
	ArtworkErr error
}

func (m *MockService) Token(ctx context.Context) (*oauth2.Token, error) {
	if m.TokenErr != nil {
		return nil, m.TokenErr
	}
	return &oauth2.Token{AccessToken: "mock_token", Expiry: time.Now().Add(time.Hour)}, nil
}

func (m *MockService) NowPlaying(ctx context.Context) (models.PlaybackState, error) {
	if m.PollErr != nil {
		return models.NotPlaying(), m.PollErr
	}
	return m.State, nil
}

func (m *MockService) FetchArtwork(ctx context.Context, url string) ([]byte, error) {
	if m.ArtworkErr != nil {
		return nil, m.ArtworkErr
	}
	return m.Artwork, nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
