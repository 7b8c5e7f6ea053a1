package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./songnote.db" {
			t.Errorf("expected database path ./songnote.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.RedirectURI != "http://127.0.0.1:3000/callback" {
			t.Errorf("unexpected redirect uri %s", config.Credentials.Spotify.RedirectURI)
		}
		if config.Vault.NameStructure != "song-only" || config.Vault.NameCasing != "original" {
			t.Errorf("unexpected naming defaults %s/%s", config.Vault.NameStructure, config.Vault.NameCasing)
		}
		if !config.Vault.Fields["title"] || config.Vault.Fields["duration"] {
			t.Errorf("unexpected field defaults %v", config.Vault.Fields)
		}
		if config.HTTP.Timeout() != 30*time.Second {
			t.Errorf("expected 30s timeout, got %s", config.HTTP.Timeout())
		}
		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		info, err := os.Stat(configPath)
		if err != nil {
			t.Fatalf("config file should exist: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600 permissions, got %o", info.Mode().Perm())
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Database.Path != DefaultConfig().Database.Path {
			t.Error("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig overlays defaults", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "xyz"

[vault]
name_casing = "kebab-case"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !config.Credentials.Spotify.HasCredentials() {
			t.Error("expected credentials to be set")
		}
		if config.Vault.NameCasing != "kebab-case" {
			t.Errorf("expected kebab-case, got %s", config.Vault.NameCasing)
		}
		if config.Vault.DateFormat != "2006-01-02" {
			t.Errorf("expected default date format, got %s", config.Vault.DateFormat)
		}
	})

	t.Run("LoadConfig errors", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("expected error for missing file")
		}

		bad := filepath.Join(t.TempDir(), "bad.toml")
		os.WriteFile(bad, []byte("not = [valid"), 0600)
		if _, err := LoadConfig(bad); err == nil {
			t.Error("expected error for malformed TOML")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tc := []struct {
			name   string
			mutate func(*Config)
		}{
			{name: "unknown structure", mutate: func(c *Config) { c.Vault.NameStructure = "album-first" }},
			{name: "unknown casing", mutate: func(c *Config) { c.Vault.NameCasing = "SHOUT" }},
			{name: "empty date format", mutate: func(c *Config) { c.Vault.DateFormat = "" }},
			{name: "unknown token store", mutate: func(c *Config) { c.Tokens.Store = "vault" }},
			{name: "negative rate limit", mutate: func(c *Config) { c.HTTP.RateLimit = -1 }},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				config := DefaultConfig()
				tt.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
			})
		}
	})

	t.Run("SaveConfig round trips tokens", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

		if err := config.Credentials.Spotify.Update(&oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: expiry}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		tok := loaded.Credentials.Spotify.Token()
		if tok == nil {
			t.Fatal("expected persisted token")
		}
		if tok.AccessToken != "at" || tok.RefreshToken != "rt" || !tok.Expiry.Equal(expiry) {
			t.Errorf("unexpected token %+v", tok)
		}

		matches, _ := filepath.Glob(filepath.Join(filepath.Dir(configPath), ".config-*"))
		if len(matches) != 0 {
			t.Errorf("temp files left behind: %v", matches)
		}
	})
}

func TestSpotifyConfigTokens(t *testing.T) {
	t.Run("Token is nil without a complete set", func(t *testing.T) {
		s := SpotifyConfig{AccessToken: "at"}
		if s.Token() != nil {
			t.Error("expected nil token")
		}
	})

	t.Run("Update keeps refresh token when omitted", func(t *testing.T) {
		s := SpotifyConfig{RefreshToken: "old"}
		if err := s.Update(&oauth2.Token{AccessToken: "new", Expiry: time.Now().Add(time.Hour)}); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if s.RefreshToken != "old" || s.AccessToken != "new" {
			t.Errorf("unexpected state %+v", s)
		}
	})

	t.Run("Update rejects empty token", func(t *testing.T) {
		var s SpotifyConfig
		if err := s.Update(&oauth2.Token{}); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("Update() error = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("ClearTokens", func(t *testing.T) {
		s := SpotifyConfig{ClientID: "id", AccessToken: "at", RefreshToken: "rt", TokenExpiry: time.Now()}
		s.ClearTokens()
		if s.Token() != nil || s.ClientID != "id" {
			t.Errorf("unexpected state after clear %+v", s)
		}
	})
}
