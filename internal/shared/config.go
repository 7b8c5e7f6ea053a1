package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	TokenStoreConfig  = "config"
	TokenStoreKeyring = "keyring"
)

var (
	nameStructures = map[string]bool{"song-only": true, "song-artist": true, "artist-song": true}
	nameCasings    = map[string]bool{"original": true, "kebab-case": true, "snake_case": true}
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Vault       VaultConfig       `toml:"vault"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	HTTP        HTTPConfig        `toml:"http"`
	Tokens      TokensConfig      `toml:"tokens"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and, after `auth login`, the user's OAuth tokens.
type SpotifyConfig struct {
	ClientID     string    `toml:"client_id"`
	ClientSecret string    `toml:"client_secret"`
	RedirectURI  string    `toml:"redirect_uri"`
	AccessToken  string    `toml:"access_token"`
	RefreshToken string    `toml:"refresh_token"`
	TokenExpiry  time.Time `toml:"token_expiry"`
}

// VaultConfig controls where notes are written and how they are named and rendered.
type VaultConfig struct {
	Path          string          `toml:"path"`
	OutputFolder  string          `toml:"output_folder"`
	NoteTemplate  string          `toml:"note_template"`
	NameStructure string          `toml:"name_structure"`
	NameCasing    string          `toml:"name_casing"`
	DateFormat    string          `toml:"date_format"`
	PlaylistID    string          `toml:"playlist_id"`
	Fields        map[string]bool `toml:"fields"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local OAuth callback server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// HTTPConfig tunes the outbound HTTP transport.
type HTTPConfig struct {
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RateLimit      float64 `toml:"rate_limit"` // requests per second, 0 disables throttling
}

// TokensConfig selects where user OAuth tokens are persisted.
type TokensConfig struct {
	Store          string `toml:"store"`
	KeyringService string `toml:"keyring_service"`
}

// Timeout returns the configured HTTP timeout as a [time.Duration].
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// HasCredentials reports whether both client id and secret are set.
func (s SpotifyConfig) HasCredentials() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

// Token returns the persisted user token, or nil when the config holds no complete token set.
func (s SpotifyConfig) Token() *oauth2.Token {
	if s.AccessToken == "" || s.RefreshToken == "" || s.TokenExpiry.IsZero() {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       s.TokenExpiry,
	}
}

// Update copies token fields into the config. A missing refresh token keeps the stored one.
func (s *SpotifyConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: token has no access token", ErrInvalidArgument)
	}

	s.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		s.RefreshToken = token.RefreshToken
	}
	s.TokenExpiry = token.Expiry.UTC().Truncate(time.Second)
	return nil
}

// ClearTokens removes any stored user tokens.
func (s *SpotifyConfig) ClearTokens() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.TokenExpiry = time.Time{}
}

// Validate checks enumerated settings and required values.
func (c *Config) Validate() error {
	if !nameStructures[c.Vault.NameStructure] {
		return fmt.Errorf("%w: unknown vault.name_structure %q", ErrInvalidConfig, c.Vault.NameStructure)
	}
	if !nameCasings[c.Vault.NameCasing] {
		return fmt.Errorf("%w: unknown vault.name_casing %q", ErrInvalidConfig, c.Vault.NameCasing)
	}
	if c.Vault.DateFormat == "" {
		return fmt.Errorf("%w: vault.date_format is empty", ErrInvalidConfig)
	}
	switch c.Tokens.Store {
	case TokenStoreConfig, TokenStoreKeyring:
	default:
		return fmt.Errorf("%w: unknown tokens.store %q", ErrInvalidConfig, c.Tokens.Store)
	}
	if c.HTTP.RateLimit < 0 {
		return fmt.Errorf("%w: http.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file fall back to the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the config to path atomically (temp file + rename) with owner-only permissions.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := toml.NewEncoder(tmp).Encode(config); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp config: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}
