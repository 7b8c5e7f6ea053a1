package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"
)

// KeyringStore keeps the token as JSON in the OS-native credential store.
type KeyringStore struct {
	service string
	user    string
}

var _ Store = (*KeyringStore)(nil)

// NewKeyringStore creates a KeyringStore for the given service and user identifiers.
func NewKeyringStore(service, user string) (*KeyringStore, error) {
	if service == "" {
		return nil, fmt.Errorf("service cannot be empty")
	}
	if user == "" {
		return nil, fmt.Errorf("user cannot be empty")
	}
	return &KeyringStore{service: service, user: user}, nil
}

func (k *KeyringStore) Load(ctx context.Context) (*oauth2.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	secret, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keyring: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal([]byte(secret), &token); err != nil {
		return nil, fmt.Errorf("failed to decode keyring token: %w", err)
	}
	if token.AccessToken == "" {
		return nil, nil
	}
	return &token, nil
}

// Save overwrites any stored token. A token without a refresh token keeps the stored one.
func (k *KeyringStore) Save(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("cannot store an empty token")
	}

	stored := *token
	if stored.RefreshToken == "" {
		prev, err := k.Load(ctx)
		if err != nil {
			return err
		}
		if prev != nil {
			stored.RefreshToken = prev.RefreshToken
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := keyring.Set(k.service, k.user, string(data)); err != nil {
		return fmt.Errorf("failed to write keyring: %w", err)
	}
	return nil
}

func (k *KeyringStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := keyring.Delete(k.service, k.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to clear keyring: %w", err)
	}
	return nil
}
