package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songnote/internal/server"
	"github.com/desertthunder/songnote/internal/services"
	"github.com/desertthunder/songnote/internal/shared"
)

// AuthLogin runs the PKCE authorization flow: it serves the redirect URI locally, opens the browser,
// exchanges the returned code and saves the tokens to the configured token store.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	sc := r.config.Credentials.Spotify
	if sc.ClientID == "" {
		return fmt.Errorf("%w: set credentials.spotify.client_id in %s", shared.ErrMissingCredentials, r.configPath)
	}

	store, err := r.getStore()
	if err != nil {
		return err
	}

	flow := services.NewAuthFlow(sc.ClientID, services.AuthFlowOpts{
		RedirectURI: sc.RedirectURI,
		Endpoints:   r.endpoints,
	})

	code, verifier, err := r.authorize(ctx, flow, cmd.Duration("timeout"))
	if err != nil {
		return err
	}

	tokens, err := flow.Exchange(ctx, r.getTransport(), code, verifier)
	if err != nil {
		return err
	}

	token := tokens.Token(r.now())
	if err := store.Save(ctx, token); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	r.getCache().Clear()
	r.logger.Info("saved user tokens", "store", r.config.Tokens.Store, "expiry", token.Expiry)

	r.writePlainln("✓ Authorization successful")

	svc, err := r.spotify(ctx)
	if err != nil {
		r.logger.Warn("could not build Spotify client to verify login", "error", err)
		return nil
	}
	user, err := svc.CurrentUser(ctx)
	if err != nil {
		r.logger.Warn("failed to fetch profile", "error", err)
		return nil
	}
	return r.writePlain("✓ Logged in as %s (%s)\n", user.DisplayName, user.ID)
}

// authorize serves the callback, sends the user to Spotify and waits for the redirect.
func (r *Runner) authorize(ctx context.Context, flow *services.AuthFlow, timeout time.Duration) (code, verifier string, err error) {
	req, err := flow.AuthURL()
	if err != nil {
		return "", "", err
	}

	redirect, err := url.Parse(flow.RedirectURI())
	if err != nil {
		return "", "", fmt.Errorf("%w: redirect_uri: %v", shared.ErrInvalidConfig, err)
	}

	handler := server.NewCallbackHandler(redirect.Path, req.State)
	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv, err := server.Listen(addr, router, r.logger)
	if err != nil {
		return "", "", err
	}
	srv.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := r.openBrowser(req.URL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", req.URL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		if result.Err != nil {
			return "", "", fmt.Errorf("authorization failed: %w", result.Err)
		}
		return result.Code, req.CodeVerifier, nil
	case <-timer.C:
		return "", "", fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return "", "", ctx.Err()
	}
}

// AuthStatus reports whether user tokens are saved and, if so, who they belong to.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.getStore()
	if err != nil {
		return err
	}
	token, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}

	r.writePlain("Token store: %s\n", r.config.Tokens.Store)
	if token == nil {
		return r.writePlain("Authentication: ✗ Not authenticated (run 'songnote auth login')\n")
	}

	svc, err := r.spotify(ctx)
	if err != nil {
		return err
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		r.writePlain("Authentication: ✗ %s\n", svc.Tokens().State())
		return err
	}

	r.writePlain("Authentication: ✓ %s\n", svc.Tokens().State())
	r.writePlain("User: %s (%s)\n", user.DisplayName, user.ID)
	if current := svc.Tokens().Token(); current != nil {
		r.writePlain("Token expires: %s\n", current.Expiry.Format(time.RFC3339))
	}
	return nil
}

// AuthLogout clears saved tokens and drops the cached client.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.getStore()
	if err != nil {
		return err
	}
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	r.getCache().Clear()
	r.logger.Info("cleared user tokens", "store", r.config.Tokens.Store)
	return r.writePlain("✓ Logged out\n")
}
