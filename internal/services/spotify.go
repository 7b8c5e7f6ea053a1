// Spotify Web API client
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/songnote/internal/models"
	"github.com/desertthunder/songnote/internal/shared"
)

// SpotifyUser is the current user's profile.
type SpotifyUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
	Product     string `json:"product"` // premium, free, etc.
}

type snapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// SpotifyOpts configures [NewSpotifyService].
type SpotifyOpts struct {
	Transport Transport // defaults to an unthrottled [HTTPTransport]
	Endpoints Endpoints
	Logger    *log.Logger
	Now       func() time.Time
}

// SpotifyService is the catalog client. Without user tokens it authenticates with the
// client-credentials grant; once [SpotifyService.Initialize] is called every request uses the
// user's tokens through a [TokenManager].
type SpotifyService struct {
	creds     Credentials
	transport Transport
	endpoints Endpoints
	logger    *log.Logger
	tokens    *TokenManager
	appTokens oauth2.TokenSource
}

// NewSpotifyService creates a client for creds. Both the client id and secret are required.
func NewSpotifyService(creds Credentials, opts SpotifyOpts) (*SpotifyService, error) {
	if !creds.Valid() {
		return nil, shared.ErrMissingCredentials
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.Transport == nil {
		opts.Transport = NewHTTPTransport(TransportOpts{Logger: opts.Logger})
	}
	endpoints := opts.Endpoints.withDefaults()

	cc := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     endpoints.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	// The token source keeps this context for every later fetch.
	ccCtx := context.WithValue(context.Background(), oauth2.HTTPClient, HTTPClient(opts.Transport))

	return &SpotifyService{
		creds:     creds,
		transport: opts.Transport,
		endpoints: endpoints,
		logger:    opts.Logger,
		tokens: NewTokenManager(creds, opts.Transport, TokenManagerOpts{
			TokenURL: endpoints.TokenURL,
			Logger:   opts.Logger,
			Now:      opts.Now,
		}),
		appTokens: cc.TokenSource(ccCtx),
	}, nil
}

// Credentials returns the client credentials this service was built with.
func (s *SpotifyService) Credentials() Credentials { return s.creds }

// Tokens exposes the user token manager.
func (s *SpotifyService) Tokens() *TokenManager { return s.tokens }

// Initialize switches the service to user-level authorization.
func (s *SpotifyService) Initialize(accessToken, refreshToken string, expiry time.Time, onRefresh RefreshFunc) {
	s.tokens.Initialize(accessToken, refreshToken, expiry, onRefresh)
}

// IsAuthenticated reports whether user tokens are loaded.
func (s *SpotifyService) IsAuthenticated() bool { return s.tokens.IsAuthenticated() }

// accessToken picks the user token when available, otherwise an app token.
func (s *SpotifyService) accessToken(ctx context.Context) (string, error) {
	if s.tokens.IsAuthenticated() {
		return s.tokens.EnsureValid(ctx)
	}

	tok, err := s.appTokens.Token()
	if err != nil {
		return "", fmt.Errorf("%w: client credentials: %w", shared.ErrAuthFailed, err)
	}
	return tok.AccessToken, nil
}

// do sends an authenticated request to the catalog API and decodes a 2xx JSON body into result.
func (s *SpotifyService) do(ctx context.Context, token, method, path string, body, result any) error {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Accept", "application/json")

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = b
		header.Set("Content-Type", "application/json")
	}

	resp, err := safeDo(ctx, s.transport, &Request{
		Method: method,
		URL:    s.endpoints.APIBaseURL + path,
		Header: header,
		Body:   payload,
	})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(resp)
	}
	if result != nil {
		return resp.Decode(result)
	}
	return nil
}

// GetTrack fetches a track by id. Every failure is returned as a [*FetchError]; there are no retries.
func (s *SpotifyService) GetTrack(ctx context.Context, id string) (*models.Track, error) {
	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, &FetchError{TrackID: id, Cause: err}
	}

	var track models.Track
	if err := s.do(ctx, token, http.MethodGet, "/tracks/"+url.PathEscape(id), nil, &track); err != nil {
		s.logger.Debug("track fetch failed", "id", id, "error", err)
		return nil, &FetchError{TrackID: id, Cause: err}
	}
	return &track, nil
}

// AddToPlaylist appends trackURI to playlistID and returns the playlist's new snapshot id.
func (s *SpotifyService) AddToPlaylist(ctx context.Context, playlistID, trackURI string) (string, error) {
	if !s.tokens.IsAuthenticated() {
		return "", shared.ErrNotAuthenticated
	}

	token, err := s.tokens.EnsureValid(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to add track to playlist: %w", err)
	}

	var snap snapshotResponse
	body := map[string][]string{"uris": {trackURI}}
	path := "/playlists/" + url.PathEscape(playlistID) + "/tracks"
	if err := s.do(ctx, token, http.MethodPost, path, body, &snap); err != nil {
		return "", fmt.Errorf("failed to add track to playlist: %w", err)
	}
	return snap.SnapshotID, nil
}

// CurrentUser returns the profile of the authorized user.
func (s *SpotifyService) CurrentUser(ctx context.Context) (*SpotifyUser, error) {
	if !s.tokens.IsAuthenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	token, err := s.tokens.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}

	var user SpotifyUser
	if err := s.do(ctx, token, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}
	return &user, nil
}
