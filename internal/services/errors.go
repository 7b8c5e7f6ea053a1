package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/songnote/internal/shared"
)

// FetchError wraps every failure of a catalog request. Its message always reads "fetch failed: <cause>".
type FetchError struct {
	TrackID string
	Cause   error
}

func (e *FetchError) Error() string { return "fetch failed: " + e.Cause.Error() }
func (e *FetchError) Unwrap() error { return e.Cause }

// RefreshError reports a failed refresh-token grant.
type RefreshError struct {
	StatusCode  int    // 0 when no HTTP call was made
	Code        string // provider "error" field
	Description string // provider "error_description" field
	Cause       error
}

func (e *RefreshError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token refresh failed: %s", e.Description)
	}
	return fmt.Sprintf("token refresh failed: %v", e.Cause)
}

func (e *RefreshError) Unwrap() error { return e.Cause }

// Is matches [shared.ErrRefreshFailed] for every refresh failure, including a missing refresh token.
func (e *RefreshError) Is(target error) bool { return target == shared.ErrRefreshFailed }

// ExchangeError reports a failed authorization-code exchange.
type ExchangeError struct {
	StatusCode  int
	Code        string
	Description string
	Cause       error
}

func (e *ExchangeError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("token exchange failed: %s", e.Description)
	}
	return fmt.Sprintf("token exchange failed: %v", e.Cause)
}

func (e *ExchangeError) Unwrap() error { return e.Cause }

func (e *ExchangeError) Is(target error) bool { return target == shared.ErrExchangeFailed }

// oauthErrorBody is the error payload returned by the accounts service.
type oauthErrorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// statusError translates a non-2xx catalog status into a cause for [FetchError].
func statusError(resp *Response) error {
	switch resp.StatusCode {
	case 404:
		return fmt.Errorf("%w", shared.ErrTrackNotFound)
	case 429:
		retryAfter := strings.TrimSpace(resp.Headers.Get("Retry-After"))
		if retryAfter == "" {
			retryAfter = "unknown"
		}
		return fmt.Errorf("%w, retry after %s seconds", shared.ErrRateLimited, retryAfter)
	default:
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: unexpected status %d", shared.ErrServiceUnavailable, resp.StatusCode)
		}
		return fmt.Errorf("%w: unexpected status %d", shared.ErrAPIRequest, resp.StatusCode)
	}
}

// IsRetryable reports whether err is a rate limit or server-side failure worth retrying later.
func IsRetryable(err error) bool {
	if errors.Is(err, shared.ErrRateLimited) || errors.Is(err, shared.ErrServiceUnavailable) {
		return true
	}
	return false
}
