package services

import (
	"sync"

	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/shared"
)

// ServiceCache holds at most one [SpotifyService], keyed by its credentials.
type ServiceCache struct {
	opts SpotifyOpts

	mu      sync.Mutex
	service *SpotifyService
}

// NewServiceCache creates an empty cache; opts are applied to every service it builds.
func NewServiceCache(opts SpotifyOpts) *ServiceCache {
	return &ServiceCache{opts: opts}
}

// GetOrCreate returns the cached service when creds match, otherwise builds a replacement.
//
// A newly built service is initialized from persisted when it carries an access token, a refresh
// token and an expiry, with onRefresh wired to its token manager. A cached service is returned
// as is.
func (c *ServiceCache) GetOrCreate(creds Credentials, persisted *oauth2.Token, onRefresh RefreshFunc) (*SpotifyService, error) {
	if !creds.Valid() {
		return nil, shared.ErrMissingCredentials
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.service != nil && c.service.Credentials() == creds {
		return c.service, nil
	}

	svc, err := NewSpotifyService(creds, c.opts)
	if err != nil {
		return nil, err
	}
	if persisted != nil && persisted.AccessToken != "" && persisted.RefreshToken != "" && !persisted.Expiry.IsZero() {
		svc.Initialize(persisted.AccessToken, persisted.RefreshToken, persisted.Expiry, onRefresh)
	}

	c.service = svc
	return svc, nil
}

// Clear drops the cached service so the next call builds a new one.
func (c *ServiceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.service = nil
}
