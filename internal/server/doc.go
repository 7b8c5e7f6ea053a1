// Package server runs the short-lived local HTTP server that receives the Spotify OAuth redirect.
//
// # Router
//
// [Router] registers method-scoped routes and wraps them in [Middleware]. Middleware wraps handlers
// in reverse order (last added executes first). [BasicRouter] is backed by [http.ServeMux] patterns.
//
// # Callback Handler
//
// [CallbackHandler] accepts exactly one redirect: it validates the state parameter, then reports the
// authorization code (or the provider's error) on a channel. The code is not exchanged here; the caller
// holds the PKCE verifier and performs the exchange itself.
//
// # Server
//
// [Server] binds the listener eagerly so port conflicts surface before the browser is opened, and
// is shut down once a result arrives.
package server
