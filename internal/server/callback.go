package server

import (
	"fmt"
	"html/template"
	"net/http"
	"sync"

	"github.com/desertthunder/songnote/internal/shared"
)

// CallbackResult is the outcome of a single OAuth redirect.
type CallbackResult struct {
	Code string
	Err  error
}

// CallbackHandler receives the authorization redirect once and reports it on [CallbackHandler.Result].
type CallbackHandler struct {
	path    string
	state   string
	results chan CallbackResult
	once    sync.Once
	mu      sync.Mutex
	hit     bool
}

var _ Handler = (*CallbackHandler)(nil)

// NewCallbackHandler creates a handler for path that expects the given state token.
func NewCallbackHandler(path, state string) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		path:    path,
		state:   state,
		results: make(chan CallbackResult, 1),
	}
}

func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	q := r.URL.Query()
	if q.Get("state") != h.state {
		h.send(CallbackResult{Err: shared.ErrStateMismatch})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	if reason := q.Get("error"); reason != "" {
		err := fmt.Errorf("%w: %s", shared.ErrAuthFailed, reason)
		if desc := q.Get("error_description"); desc != "" {
			err = fmt.Errorf("%w: %s (%s)", shared.ErrAuthFailed, reason, desc)
		}
		h.send(CallbackResult{Err: err})
		renderPage(w, http.StatusBadRequest, "Authorization Failed", "Spotify reported: "+reason)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.send(CallbackResult{Err: fmt.Errorf("%w: callback missing code", shared.ErrAuthFailed)})
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	h.send(CallbackResult{Code: code})
	renderPage(w, http.StatusOK, "Authorization Successful", "You can close this window and return to the terminal.")
}

func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result receives exactly one value and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.results
}

var page = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .card { text-align: center; background: white; padding: 2rem;
                border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

func renderPage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = page.Execute(w, struct{ Title, Message string }{title, message})
}
