package tokenstore

import (
	"context"
	"sync"

	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/shared"
)

// ConfigStore keeps tokens in config.toml. Each call re-reads the file so other settings edited meanwhile are kept.
type ConfigStore struct {
	path string
	mu   sync.Mutex
}

var _ Store = (*ConfigStore)(nil)

// NewConfigStore creates a store backed by the config file at path.
func NewConfigStore(path string) *ConfigStore {
	return &ConfigStore{path: path}
}

func (s *ConfigStore) Load(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := shared.LoadConfig(s.path)
	if err != nil {
		return nil, err
	}
	return cfg.Credentials.Spotify.Token(), nil
}

func (s *ConfigStore) Save(ctx context.Context, token *oauth2.Token) error {
	return s.update(ctx, func(sc *shared.SpotifyConfig) error { return sc.Update(token) })
}

func (s *ConfigStore) Clear(ctx context.Context) error {
	return s.update(ctx, func(sc *shared.SpotifyConfig) error {
		sc.ClearTokens()
		return nil
	})
}

func (s *ConfigStore) update(ctx context.Context, fn func(*shared.SpotifyConfig) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := shared.LoadConfig(s.path)
	if err != nil {
		return err
	}
	if err := fn(&cfg.Credentials.Spotify); err != nil {
		return err
	}
	return shared.SaveConfig(s.path, cfg)
}
