package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/desertthunder/songnote/internal/shared"
)

// ExpiryBuffer is how long before expiry a token is already treated as stale.
const ExpiryBuffer = 5 * time.Minute

const refreshKey = "refresh"

// TokenState is the lifecycle state of a [TokenManager].
type TokenState int

const (
	StateUnauthenticated TokenState = iota // no access token was ever set
	StateValid                             // tokens loaded; may still be due for refresh
	StateRefreshing                        // a refresh request is in flight
	StateFailed                            // the last refresh failed; the next call retries
)

func (s TokenState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateValid:
		return "valid"
	case StateRefreshing:
		return "refreshing"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("TokenState(%d)", int(s))
	}
}

// RefreshFunc observes a successful refresh, typically to persist the new token.
type RefreshFunc func(ctx context.Context, token *oauth2.Token) error

// TokenManagerOpts configures [NewTokenManager].
type TokenManagerOpts struct {
	TokenURL string
	Logger   *log.Logger
	Now      func() time.Time
}

// TokenManager owns a user's access and refresh tokens and refreshes them before they expire.
//
// It is safe for concurrent use. Concurrent callers that find the token stale share a single refresh request.
type TokenManager struct {
	creds     Credentials
	transport Transport
	tokenURL  string
	logger    *log.Logger
	now       func() time.Time
	group     singleflight.Group

	mu           sync.Mutex
	state        TokenState
	accessToken  string
	refreshToken string
	expiry       time.Time
	onRefresh    RefreshFunc
	generation   uint64 // bumped by Initialize; a refresh started under an older value is discarded
}

// NewTokenManager creates an unauthenticated manager for the given client.
func NewTokenManager(creds Credentials, transport Transport, opts TokenManagerOpts) *TokenManager {
	if opts.TokenURL == "" {
		opts.TokenURL = spotifyTokenURL
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &TokenManager{
		creds:     creds,
		transport: transport,
		tokenURL:  opts.TokenURL,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// Initialize loads tokens. A zero or past expiry makes the next [TokenManager.EnsureValid] refresh first.
func (m *TokenManager) Initialize(accessToken, refreshToken string, expiry time.Time, onRefresh RefreshFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.accessToken = accessToken
	m.refreshToken = refreshToken
	m.expiry = expiry
	m.onRefresh = onRefresh
	if accessToken == "" {
		m.state = StateUnauthenticated
	} else {
		m.state = StateValid
	}
}

// Clear forgets all tokens and the refresh callback.
func (m *TokenManager) Clear() {
	m.Initialize("", "", time.Time{}, nil)
}

// IsAuthenticated reports whether an access token was set, regardless of its expiry.
func (m *TokenManager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state != StateUnauthenticated
}

// State returns the current lifecycle state.
func (m *TokenManager) State() TokenState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Token returns a copy of the current tokens, or nil when unauthenticated.
func (m *TokenManager) Token() *oauth2.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateUnauthenticated {
		return nil
	}
	return m.tokenLocked()
}

func (m *TokenManager) tokenLocked() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  m.accessToken,
		RefreshToken: m.refreshToken,
		TokenType:    "Bearer",
		Expiry:       m.expiry,
	}
}

// freshLocked reports whether the access token is usable outside the expiry buffer.
func (m *TokenManager) freshLocked() bool {
	if m.accessToken == "" || m.expiry.IsZero() {
		return false
	}
	return m.now().Before(m.expiry.Add(-ExpiryBuffer))
}

// EnsureValid returns an access token that is not within [ExpiryBuffer] of expiring, refreshing it first if needed.
//
// The refresh itself is detached from ctx: if ctx ends first the caller gets ctx.Err() while the
// refresh finishes for everyone else.
func (m *TokenManager) EnsureValid(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.state == StateUnauthenticated {
		m.mu.Unlock()
		return "", shared.ErrNotAuthenticated
	}
	if m.freshLocked() {
		token := m.accessToken
		m.mu.Unlock()
		return token, nil
	}
	m.mu.Unlock()

	detached := context.WithoutCancel(ctx)
	ch := m.group.DoChan(refreshKey, func() (any, error) {
		return m.refresh(detached)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// refresh runs inside the single flight. It re-checks freshness so a caller that raced a
// just-finished refresh does not trigger another request.
func (m *TokenManager) refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.state == StateUnauthenticated {
		m.mu.Unlock()
		return "", shared.ErrNotAuthenticated
	}
	if m.freshLocked() {
		token := m.accessToken
		m.mu.Unlock()
		return token, nil
	}
	refreshToken := m.refreshToken
	if refreshToken == "" {
		m.state = StateFailed
		m.mu.Unlock()
		return "", &RefreshError{Cause: shared.ErrNoRefreshToken}
	}
	m.state = StateRefreshing
	generation := m.generation
	m.mu.Unlock()

	m.logger.Debug("refreshing access token")
	tokens, err := m.requestRefresh(ctx, refreshToken)

	m.mu.Lock()
	if m.generation != generation {
		defer m.mu.Unlock()
		m.logger.Debug("discarding refresh result, tokens were replaced during the request")
		if m.state == StateUnauthenticated {
			return "", shared.ErrNotAuthenticated
		}
		return m.accessToken, nil
	}
	if err != nil {
		m.state = StateFailed
		m.mu.Unlock()
		m.logger.Warn("token refresh failed", "error", err)
		return "", err
	}

	m.accessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		m.refreshToken = tokens.RefreshToken
	}
	m.expiry = m.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	m.state = StateValid
	snapshot := m.tokenLocked()
	onRefresh := m.onRefresh
	m.mu.Unlock()

	m.logger.Info("access token refreshed", "expires", snapshot.Expiry.Format(time.RFC3339))
	m.notify(ctx, onRefresh, snapshot)
	return snapshot.AccessToken, nil
}

func (m *TokenManager) requestRefresh(ctx context.Context, refreshToken string) (OAuthTokens, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", m.creds.ClientID)

	header := http.Header{}
	header.Set("Authorization", "Basic "+basicAuth(m.creds.ClientID, m.creds.ClientSecret))

	resp, err := postForm(ctx, m.transport, m.tokenURL, form, header)
	if err != nil {
		return OAuthTokens{}, &RefreshError{Cause: fmt.Errorf("%w: %w", shared.ErrRefreshFailed, err)}
	}

	var body oauthErrorBody
	_ = resp.Decode(&body)
	if !resp.OK() || body.Error != "" {
		return OAuthTokens{}, &RefreshError{
			StatusCode:  resp.StatusCode,
			Code:        body.Error,
			Description: body.ErrorDescription,
			Cause:       fmt.Errorf("%w: status %d", shared.ErrRefreshFailed, resp.StatusCode),
		}
	}

	var tr tokenResponse
	if err := resp.Decode(&tr); err != nil || tr.AccessToken == "" {
		return OAuthTokens{}, &RefreshError{
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("%w: response has no access token", shared.ErrRefreshFailed),
		}
	}
	return tr.tokens(), nil
}

// notify runs the refresh callback. Its error or panic is logged and does not affect the refresh result.
func (m *TokenManager) notify(ctx context.Context, fn RefreshFunc, token *oauth2.Token) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("token refresh callback panicked", "panic", r)
		}
	}()
	if err := fn(ctx, token); err != nil {
		m.logger.Error("token refresh callback failed", "error", err)
	}
}

func basicAuth(id, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(id + ":" + secret))
}
