// Package services implements the Spotify accounts and catalog clients used to build song notes.
//
// # Transport
//
// Every HTTP call goes through the [Transport] interface. [HTTPTransport] is the default,
// optionally throttled by a token-bucket limiter. Panics raised by a transport are turned into
// errors before they reach callers.
//
// # Authorization
//
// [AuthFlow] runs the authorization-code grant with PKCE: [AuthFlow.AuthURL] creates a 128
// character verifier and a 16 character state and [AuthFlow.Exchange] trades the returned code
// for [OAuthTokens].
//
// [TokenManager] owns user tokens after login. [TokenManager.EnsureValid] refreshes a token that
// is within [ExpiryBuffer] of expiring; concurrent callers share one refresh request, and a
// refresh response without a refresh token keeps the previous one.
//
// Without user tokens [SpotifyService] falls back to the client-credentials grant.
//
// # Error Handling
//
//   - [*FetchError] : any failed catalog fetch; reads "fetch failed: <cause>"
//   - [*RefreshError] : refresh-token grant failed (matches [shared.ErrRefreshFailed])
//   - [*ExchangeError] : authorization-code exchange failed (matches [shared.ErrExchangeFailed])
//   - [shared.ErrNotAuthenticated] : a user-only call before tokens were loaded
//   - [shared.ErrTrackNotFound], [shared.ErrRateLimited], [shared.ErrAPIRequest] : status translations
//
// No request is retried automatically.
package services
