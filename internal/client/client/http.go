package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/stockyard/internal/common"
	"github.com/dmitrijs2005/stockyard/internal/logging"
)

// Operation names, used in errors and logs.
const (
	OpLogin          = "login"
	OpLogout         = "logout"
	OpRefresh        = "refresh"
	OpChangePassword = "changePassword"
	OpMerchants      = "merchants"
	OpMovements      = "movements"
	OpReports        = "reports"
	OpExport         = "export"
	OpUsers          = "users"
)

// DefaultBaseURL is the backend used when none is configured.
const DefaultBaseURL = "http://localhost:3000/api"

const maxErrorBody = 64 << 10

// HTTPClient talks JSON to the backend REST API.
type HTTPClient struct {
	base    *url.URL
	logger  logging.Logger
	rps     float64
	burst   int
	timeout time.Duration

	mu     sync.RWMutex
	client *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. Its transport
// becomes the innermost round-tripper of the pipeline.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		cp := *hc
		c.client = &cp
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.timeout = d }
}

// WithRateLimit throttles outbound requests to rps with the given burst.
// A non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		c.rps, c.burst = rps, burst
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.logger = l }
}

// New builds a client for baseURL, e.g. "http://localhost:3000/api".
func New(baseURL string, opts ...Option) (*HTTPClient, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		base:   u,
		logger: logging.Nop(),
		client: &http.Client{Transport: http.DefaultTransport, Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		c.client.Timeout = c.timeout
	}
	rt := c.client.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if c.rps > 0 {
		burst := max(c.burst, 1)
		rt = &rateLimitTransport{base: rt, limiter: rate.NewLimiter(rate.Limit(c.rps), burst)}
	}
	c.client.Transport = &requestIDTransport{base: rt}
	return c, nil
}

// Use wraps the current transport with mw. The last Use runs first.
func (c *HTTPClient) Use(mw func(http.RoundTripper) http.RoundTripper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *c.client
	cp.Transport = mw(c.client.Transport)
	c.client = &cp
}

// BaseURL returns the configured API root.
func (c *HTTPClient) BaseURL() string { return c.base.String() }

func (c *HTTPClient) httpClient() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

func (c *HTTPClient) endpoint(p string, q url.Values) string {
	u := *c.base
	u.Path = path.Join(c.base.Path, p)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	} else {
		u.RawQuery = ""
	}
	return u.String()
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// send performs the exchange and returns the response on 2xx. Any other
// outcome is converted into an *APIError and the body is closed.
func (c *HTTPClient) send(ctx context.Context, r request) (*http.Response, error) {
	var body io.Reader
	if r.body != nil {
		buf, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.endpoint(r.path, r.query), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", r.op, err)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "op", r.op, "method", r.method, "path", req.URL.Path, "error", err)
		return nil, newAPIError(r.op, 0, "", nil, err)
	}
	c.logger.Debug(ctx, "request done",
		"op", r.op, "method", r.method, "path", req.URL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, newAPIError(r.op, resp.StatusCode, serverMessage(raw), raw, nil)
}

// do sends r and decodes a JSON response into out, when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty body: %w", r.op, common.ErrMalformedResponse)
		}
		return fmt.Errorf("%s: decode response: %w: %w", r.op, common.ErrMalformedResponse, err)
	}
	return nil
}

func serverMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func filenameFrom(resp *http.Response, fallback string) string {
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err == nil && params["filename"] != "" {
		return path.Base(params["filename"])
	}
	return fallback
}
