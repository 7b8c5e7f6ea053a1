package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/songnote/internal/shared"
)

// Request is a single outbound HTTP call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully-read HTTP response. JSONData holds the decoded body when it parsed as JSON.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Decode unmarshals the body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Transport performs HTTP requests. Implementations must honour ctx cancellation.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// TransportFunc adapts a function to [Transport].
type TransportFunc func(ctx context.Context, req *Request) (*Response, error)

func (f TransportFunc) Do(ctx context.Context, req *Request) (*Response, error) { return f(ctx, req) }

// HTTPTransport is the default [Transport] over an [http.Client], optionally throttled.
type HTTPTransport struct {
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// TransportOpts configures [NewHTTPTransport].
type TransportOpts struct {
	Client  *http.Client
	Limiter *rate.Limiter // nil disables throttling
	Logger  *log.Logger
}

// NewHTTPTransport creates an [HTTPTransport]. A nil client falls back to [http.DefaultClient].
func NewHTTPTransport(opts TransportOpts) *HTTPTransport {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	return &HTTPTransport{client: opts.Client, limiter: opts.Limiter, logger: opts.Logger}
}

// NewLimiter returns a limiter allowing rps requests per second with a burst of one, or nil when rps <= 0.
func NewLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}

// Do sends req and reads the whole response body.
func (t *HTTPTransport) Do(ctx context.Context, req *Request) (*Response, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	t.logger.Debug("http request", "method", req.Method, "url", redactURL(req.URL))

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	t.logger.Debug("http response", "status", resp.StatusCode, "bytes", len(data))
	return newResponse(resp.StatusCode, resp.Header, data), nil
}

func newResponse(status int, headers http.Header, body []byte) *Response {
	if headers == nil {
		headers = http.Header{}
	}
	r := &Response{StatusCode: status, Headers: headers, Body: body}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		r.IsJSON = true
		r.JSONData = jsonData
	}
	return r
}

// safeDo calls t.Do and converts a panic into an error carrying the panic value as text.
// Response header keys are canonicalized so lookups work whatever casing the transport used.
func safeDo(ctx context.Context, t Transport, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()

	resp, err = t.Do(ctx, req)
	if err == nil && resp == nil {
		err = fmt.Errorf("transport returned no response")
	}
	if resp != nil {
		resp.Headers = canonicalHeaders(resp.Headers)
	}
	return resp, err
}

func canonicalHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for k, vs := range h {
		ck := http.CanonicalHeaderKey(k)
		out[ck] = append(out[ck], vs...)
	}
	return out
}

// postForm sends a form-encoded POST.
func postForm(ctx context.Context, t Transport, endpoint string, form url.Values, header http.Header) (*Response, error) {
	h := http.Header{}
	for k, vs := range header {
		h[k] = vs
	}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	h.Set("Accept", "application/json")

	return safeDo(ctx, t, &Request{
		Method: http.MethodPost,
		URL:    endpoint,
		Header: h,
		Body:   []byte(form.Encode()),
	})
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return strings.TrimSuffix(u.String(), "?")
}

// roundTripper lets libraries that expect an [http.Client] send through a [Transport].
type roundTripper struct {
	transport Transport
}

// HTTPClient wraps t as an [http.Client].
func HTTPClient(t Transport) *http.Client {
	return &http.Client{Transport: &roundTripper{transport: t}}
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		body = b
	}

	resp, err := safeDo(req.Context(), rt.transport, &Request{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		StatusCode:    resp.StatusCode,
		Header:        resp.Headers,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}, nil
}
