package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/zalando/go-keyring"
	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/shared"
)

func testToken() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newConfigFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := shared.CreateConfigFile(path); err != nil {
		t.Fatalf("failed to create config: %v", err)
	}
	return path
}

func TestConfigStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Empty", func(t *testing.T) {
		store := NewConfigStore(newConfigFile(t))
		tok, err := store.Load(ctx)
		if err != nil || tok != nil {
			t.Errorf("Load() = %v, %v; want nil, nil", tok, err)
		}
	})

	t.Run("Save And Load", func(t *testing.T) {
		path := newConfigFile(t)
		store := NewConfigStore(path)

		if err := store.Save(ctx, testToken()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		tok, err := NewConfigStore(path).Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if tok.AccessToken != "access" || tok.RefreshToken != "refresh" || !tok.Expiry.Equal(testToken().Expiry) {
			t.Errorf("unexpected token %+v", tok)
		}

		cfg, _ := shared.LoadConfig(path)
		if cfg.Credentials.Spotify.ClientID != "your_spotify_client_id" {
			t.Error("other settings should be preserved")
		}
	})

	t.Run("Save Keeps Refresh Token", func(t *testing.T) {
		store := NewConfigStore(newConfigFile(t))
		store.Save(ctx, testToken())
		store.Save(ctx, &oauth2.Token{AccessToken: "next", Expiry: time.Now().Add(time.Hour)})

		tok, _ := store.Load(ctx)
		if tok.AccessToken != "next" || tok.RefreshToken != "refresh" {
			t.Errorf("unexpected token %+v", tok)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		store := NewConfigStore(newConfigFile(t))
		store.Save(ctx, testToken())
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if tok, _ := store.Load(ctx); tok != nil {
			t.Errorf("expected no token after clear, got %+v", tok)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		store := NewConfigStore(filepath.Join(t.TempDir(), "missing.toml"))
		if _, err := store.Load(ctx); err == nil {
			t.Error("expected error for missing config")
		}
	})

	t.Run("Canceled Context", func(t *testing.T) {
		store := NewConfigStore(newConfigFile(t))
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		if err := store.Save(canceled, testToken()); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	ctx := context.Background()

	t.Run("New Validates Arguments", func(t *testing.T) {
		if _, err := NewKeyringStore("", "user"); err == nil {
			t.Error("expected error for empty service")
		}
		if _, err := NewKeyringStore("svc", ""); err == nil {
			t.Error("expected error for empty user")
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		store, _ := NewKeyringStore("songnote-test", "round-trip")

		if tok, err := store.Load(ctx); err != nil || tok != nil {
			t.Fatalf("Load() = %v, %v; want nil, nil", tok, err)
		}
		if err := store.Save(ctx, testToken()); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		tok, err := store.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if tok.AccessToken != "access" || tok.RefreshToken != "refresh" || !tok.Expiry.Equal(testToken().Expiry) {
			t.Errorf("unexpected token %+v", tok)
		}
	})

	t.Run("Save Keeps Refresh Token", func(t *testing.T) {
		store, _ := NewKeyringStore("songnote-test", "rotation")
		store.Save(ctx, testToken())
		store.Save(ctx, &oauth2.Token{AccessToken: "next", Expiry: time.Now().Add(time.Hour)})

		tok, _ := store.Load(ctx)
		if tok.RefreshToken != "refresh" || tok.AccessToken != "next" {
			t.Errorf("unexpected token %+v", tok)
		}
	})

	t.Run("Rejects Empty Token", func(t *testing.T) {
		store, _ := NewKeyringStore("songnote-test", "empty")
		if err := store.Save(ctx, &oauth2.Token{}); err == nil {
			t.Error("expected error for empty token")
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		store, _ := NewKeyringStore("songnote-test", "clear")
		store.Save(ctx, testToken())
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		if err := store.Clear(ctx); err != nil {
			t.Errorf("second Clear() error = %v", err)
		}
		if tok, _ := store.Load(ctx); tok != nil {
			t.Errorf("expected no token, got %+v", tok)
		}
	})

	t.Run("Corrupt Entry", func(t *testing.T) {
		keyring.Set("songnote-test", "corrupt", "not json")
		store, _ := NewKeyringStore("songnote-test", "corrupt")
		if _, err := store.Load(ctx); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestNew(t *testing.T) {
	keyring.MockInit()

	cfg := shared.DefaultConfig()
	store, err := New(cfg, "config.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*ConfigStore); !ok {
		t.Errorf("expected ConfigStore, got %T", store)
	}

	cfg.Tokens.Store = shared.TokenStoreKeyring
	store, err = New(cfg, "config.toml")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := store.(*KeyringStore); !ok {
		t.Errorf("expected KeyringStore, got %T", store)
	}

	cfg.Tokens.Store = "vault"
	if _, err := New(cfg, "config.toml"); !errors.Is(err, shared.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
