// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/songnote/internal/models"
)

// MockCatalog is a test double for services.Catalog
type MockCatalog struct {
	Track         *models.Track
	Err           error
	AddErr        error
	Authenticated bool
	Snapshot      string

	mu      sync.Mutex
	fetched []string
	added   []string
}

func (m *MockCatalog) GetTrack(ctx context.Context, id string) (*models.Track, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, id)
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Track, nil
}

func (m *MockCatalog) AddToPlaylist(ctx context.Context, playlistID, trackURI string) (string, error) {
	m.mu.Lock()
	m.added = append(m.added, playlistID+"|"+trackURI)
	m.mu.Unlock()
	if m.AddErr != nil {
		return "", m.AddErr
	}
	return m.Snapshot, nil
}

func (m *MockCatalog) IsAuthenticated() bool { return m.Authenticated }

// Fetched returns the ids passed to GetTrack.
func (m *MockCatalog) Fetched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

// Added returns "playlist|uri" for every AddToPlaylist call.
func (m *MockCatalog) Added() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.added...)
}

// CountingHandler counts requests before delegating, optionally after a delay.
type CountingHandler struct {
	Handler http.Handler
	Delay   time.Duration
	hits    atomic.Int64
}

func (c *CountingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.hits.Add(1)
	if c.Delay > 0 {
		time.Sleep(c.Delay)
	}
	c.Handler.ServeHTTP(w, r)
}

// Hits returns the number of requests served.
func (c *CountingHandler) Hits() int { return int(c.hits.Load()) }

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

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
