// Package tokenstore persists the user's Spotify OAuth tokens between runs.
//
// [ConfigStore] writes them into the [credentials.spotify] section of config.toml.
// [KeyringStore] keeps them in the OS credential store (macOS Keychain, Windows Credential
// Manager, Linux Secret Service) as JSON.
package tokenstore

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/shared"
)

// Store loads and saves a user token. Load returns nil, nil when nothing is stored.
type Store interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
	Clear(ctx context.Context) error
}

// New selects the store named by cfg.Tokens.Store. configPath is the file a [ConfigStore] rewrites.
func New(cfg *shared.Config, configPath string) (Store, error) {
	switch cfg.Tokens.Store {
	case shared.TokenStoreConfig, "":
		return NewConfigStore(configPath), nil
	case shared.TokenStoreKeyring:
		return NewKeyringStore(cfg.Tokens.KeyringService, cfg.Credentials.Spotify.ClientID)
	default:
		return nil, fmt.Errorf("%w: unknown token store %q", shared.ErrInvalidConfig, cfg.Tokens.Store)
	}
}
