package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"github.com/desertthunder/songnote/internal/shared"
)

func TestAuthFlow(t *testing.T) {
	t.Run("AuthURL", func(t *testing.T) {
		req, err := GenerateAuthURL("my-client")
		if err != nil {
			t.Fatalf("GenerateAuthURL() error = %v", err)
		}

		if len(req.CodeVerifier) != 128 {
			t.Errorf("expected 128 character verifier, got %d", len(req.CodeVerifier))
		}
		if len(req.State) != 16 {
			t.Errorf("expected 16 character state, got %d", len(req.State))
		}

		u, err := url.Parse(req.URL)
		if err != nil {
			t.Fatalf("invalid URL %q: %v", req.URL, err)
		}
		if u.Host != "accounts.spotify.com" || u.Path != "/authorize" {
			t.Errorf("unexpected authorize endpoint %s", u)
		}

		q := u.Query()
		want := map[string]string{
			"client_id":             "my-client",
			"response_type":         "code",
			"redirect_uri":          DefaultRedirectURI,
			"code_challenge_method": "S256",
			"code_challenge":        oauth2.S256ChallengeFromVerifier(req.CodeVerifier),
			"state":                 req.State,
			"scope":                 strings.Join(Scopes, " "),
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
		if strings.ContainsAny(q.Get("code_challenge"), "+/=") {
			t.Errorf("challenge must be unpadded base64url, got %q", q.Get("code_challenge"))
		}
	})

	t.Run("AuthURL Is Fresh Each Time", func(t *testing.T) {
		a, _ := GenerateAuthURL("my-client")
		b, _ := GenerateAuthURL("my-client")
		if a.URL == b.URL || a.State == b.State || a.CodeVerifier == b.CodeVerifier {
			t.Error("expected independent verifier and state per request")
		}
	})

	t.Run("Custom Redirect And Endpoints", func(t *testing.T) {
		flow := NewAuthFlow("id", AuthFlowOpts{
			RedirectURI: "http://localhost:9000/cb",
			Endpoints:   Endpoints{AuthURL: "http://auth.test/authorize"},
			Scopes:      []string{"a", "b"},
		})
		req, err := flow.AuthURL()
		if err != nil {
			t.Fatal(err)
		}
		u, _ := url.Parse(req.URL)
		if u.Host != "auth.test" || u.Query().Get("redirect_uri") != "http://localhost:9000/cb" || u.Query().Get("scope") != "a b" {
			t.Errorf("unexpected URL %s", req.URL)
		}
		if flow.RedirectURI() != "http://localhost:9000/cb" {
			t.Errorf("RedirectURI() = %q", flow.RedirectURI())
		}
	})

	t.Run("Exchange", func(t *testing.T) {
		newFlow := func(t *testing.T, h http.HandlerFunc) *AuthFlow {
			server := httptest.NewServer(h)
			t.Cleanup(server.Close)
			return NewAuthFlow("my-client", AuthFlowOpts{Endpoints: Endpoints{TokenURL: server.URL}})
		}

		t.Run("Maps Token Fields", func(t *testing.T) {
			flow := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
				r.ParseForm()
				want := map[string]string{
					"grant_type":    "authorization_code",
					"client_id":     "my-client",
					"code":          "auth-code",
					"code_verifier": "verifier",
					"redirect_uri":  DefaultRedirectURI,
				}
				for k, v := range want {
					if got := r.PostForm.Get(k); got != v {
						t.Errorf("%s = %q, want %q", k, got, v)
					}
				}
				writeJSON(w, http.StatusOK, map[string]any{
					"access_token":  "access",
					"refresh_token": "refresh",
					"expires_in":    1800,
					"token_type":    "Bearer",
					"scope":         "user-read-private",
				})
			})

			tokens, err := flow.Exchange(context.Background(), NewHTTPTransport(TransportOpts{}), "auth-code", "verifier")
			if err != nil {
				t.Fatalf("Exchange() error = %v", err)
			}
			want := OAuthTokens{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 1800}
			if tokens != want {
				t.Errorf("Exchange() = %+v, want %+v", tokens, want)
			}
		})

		t.Run("Provider Description", func(t *testing.T) {
			flow := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant", "error_description": "Invalid authorization code"})
			})

			_, err := flow.Exchange(context.Background(), NewHTTPTransport(TransportOpts{}), "bad", "verifier")
			var exErr *ExchangeError
			if !errors.As(err, &exErr) || !errors.Is(err, shared.ErrExchangeFailed) {
				t.Fatalf("expected ExchangeError, got %v", err)
			}
			if !strings.Contains(err.Error(), "Invalid authorization code") || exErr.Code != "invalid_grant" {
				t.Errorf("unexpected error %v", err)
			}
		})

		t.Run("Generic Message", func(t *testing.T) {
			flow := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			})

			_, err := flow.Exchange(context.Background(), NewHTTPTransport(TransportOpts{}), "code", "verifier")
			if err == nil || err.Error() != "token exchange failed: status 500" {
				t.Errorf("unexpected error %v", err)
			}
		})

		t.Run("Missing Access Token", func(t *testing.T) {
			flow := newFlow(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"refresh_token": "r"})
			})

			if _, err := flow.Exchange(context.Background(), NewHTTPTransport(TransportOpts{}), "code", "verifier"); !errors.Is(err, shared.ErrExchangeFailed) {
				t.Errorf("expected ErrExchangeFailed, got %v", err)
			}
		})

		t.Run("Transport Error", func(t *testing.T) {
			tr := TransportFunc(func(ctx context.Context, req *Request) (*Response, error) {
				return nil, errors.New("dial tcp: no route to host")
			})
			_, err := ExchangeCodeForTokens(context.Background(), tr, "id", "code", "verifier")
			if err == nil || !strings.Contains(err.Error(), "no route to host") {
				t.Errorf("expected transport error text, got %v", err)
			}
		})
	})
}
