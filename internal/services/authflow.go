package services

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/shared"
)

const (
	verifierLength = 128
	stateLength    = 16
)

// AuthRequest is a prepared authorization redirect. The verifier and state must be kept until the callback arrives.
type AuthRequest struct {
	URL          string
	CodeVerifier string
	State        string
}

// AuthFlowOpts configures [NewAuthFlow]. Zero values select the production endpoints, [DefaultRedirectURI] and [Scopes].
type AuthFlowOpts struct {
	RedirectURI string
	Endpoints   Endpoints
	Scopes      []string
}

// AuthFlow runs the authorization-code grant with PKCE for a public client.
type AuthFlow struct {
	config   oauth2.Config
	tokenURL string
}

// NewAuthFlow creates an AuthFlow for clientID.
func NewAuthFlow(clientID string, opts AuthFlowOpts) *AuthFlow {
	if opts.RedirectURI == "" {
		opts.RedirectURI = DefaultRedirectURI
	}
	if opts.Scopes == nil {
		opts.Scopes = Scopes
	}
	endpoints := opts.Endpoints.withDefaults()

	return &AuthFlow{
		config: oauth2.Config{
			ClientID:    clientID,
			RedirectURL: opts.RedirectURI,
			Scopes:      opts.Scopes,
			Endpoint:    endpoints.oauth2(),
		},
		tokenURL: endpoints.TokenURL,
	}
}

// RedirectURI returns the redirect URI sent in both legs of the flow.
func (f *AuthFlow) RedirectURI() string { return f.config.RedirectURL }

// AuthURL creates a fresh verifier and state and returns the authorization URL carrying their S256 challenge.
func (f *AuthFlow) AuthURL() (*AuthRequest, error) {
	verifier, err := shared.RandomString(verifierLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}
	state, err := shared.RandomString(stateLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	return &AuthRequest{
		URL:          f.config.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier)),
		CodeVerifier: verifier,
		State:        state,
	}, nil
}

// Exchange trades an authorization code and its verifier for tokens.
func (f *AuthFlow) Exchange(ctx context.Context, transport Transport, code, verifier string) (OAuthTokens, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", f.config.ClientID)
	form.Set("code", code)
	form.Set("code_verifier", verifier)
	form.Set("redirect_uri", f.config.RedirectURL)

	resp, err := postForm(ctx, transport, f.tokenURL, form, nil)
	if err != nil {
		return OAuthTokens{}, &ExchangeError{Cause: err}
	}

	var errBody oauthErrorBody
	_ = resp.Decode(&errBody)

	var tr tokenResponse
	decodeErr := resp.Decode(&tr)
	if !resp.OK() || decodeErr != nil || tr.AccessToken == "" {
		return OAuthTokens{}, &ExchangeError{
			StatusCode:  resp.StatusCode,
			Code:        errBody.Error,
			Description: errBody.ErrorDescription,
			Cause:       fmt.Errorf("status %d", resp.StatusCode),
		}
	}
	return tr.tokens(), nil
}

// GenerateAuthURL prepares an authorization request for clientID against the production endpoints.
func GenerateAuthURL(clientID string) (*AuthRequest, error) {
	return NewAuthFlow(clientID, AuthFlowOpts{}).AuthURL()
}

// ExchangeCodeForTokens exchanges code for tokens against the production token endpoint.
func ExchangeCodeForTokens(ctx context.Context, transport Transport, clientID, code, verifier string) (OAuthTokens, error) {
	return NewAuthFlow(clientID, AuthFlowOpts{}).Exchange(ctx, transport, code, verifier)
}
