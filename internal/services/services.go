// package services implements the Spotify accounts and catalog clients
package services

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/models"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// DefaultRedirectURI must match a redirect URI registered for the Spotify app.
	DefaultRedirectURI = "http://127.0.0.1:3000/callback"

	// defaultExpiresIn is assumed when a token response omits expires_in.
	defaultExpiresIn = 3600
)

// Scopes requested during user authorization.
var Scopes = []string{
	"playlist-modify-public",
	"playlist-modify-private",
	"user-read-private",
}

// Catalog is the slice of the Spotify API used to build notes. [SpotifyService] implements it.
type Catalog interface {
	// GetTrack fetches a track by id. Failures are returned as [*FetchError].
	GetTrack(ctx context.Context, id string) (*models.Track, error)

	// AddToPlaylist appends a track URI to a playlist and returns the new snapshot id.
	// Requires user authorization.
	AddToPlaylist(ctx context.Context, playlistID, trackURI string) (string, error)

	// IsAuthenticated reports whether user-level tokens are loaded.
	IsAuthenticated() bool
}

// Endpoints are the accounts and catalog URLs. Tests point them at an httptest server.
type Endpoints struct {
	AuthURL    string
	TokenURL   string
	APIBaseURL string
}

// DefaultEndpoints returns the production Spotify endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{AuthURL: spotifyAuthURL, TokenURL: spotifyTokenURL, APIBaseURL: spotifyBaseURL}
}

func (e Endpoints) withDefaults() Endpoints {
	d := DefaultEndpoints()
	if e.AuthURL == "" {
		e.AuthURL = d.AuthURL
	}
	if e.TokenURL == "" {
		e.TokenURL = d.TokenURL
	}
	if e.APIBaseURL == "" {
		e.APIBaseURL = d.APIBaseURL
	}
	return e
}

func (e Endpoints) oauth2() oauth2.Endpoint {
	return oauth2.Endpoint{AuthURL: e.AuthURL, TokenURL: e.TokenURL, AuthStyle: oauth2.AuthStyleInHeader}
}

// Credentials identify a registered Spotify application. Two values are the same client iff they are equal.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Valid reports whether both fields are set.
func (c Credentials) Valid() bool { return c.ClientID != "" && c.ClientSecret != "" }

// OAuthTokens is the token set returned by the accounts service. ExpiresIn is in seconds.
type OAuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Token converts t to an [oauth2.Token] expiring ExpiresIn seconds after now.
func (t OAuthTokens) Token(now time.Time) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       now.Add(time.Duration(t.ExpiresIn) * time.Second),
	}
}

// tokenResponse is the JSON body of a successful token endpoint call.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

func (r tokenResponse) tokens() OAuthTokens {
	expiresIn := r.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}
	return OAuthTokens{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken, ExpiresIn: expiresIn}
}
