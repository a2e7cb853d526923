package client

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/stockyard/internal/common"
)

// requestIDTransport stamps X-Request-ID on requests that lack one.
type requestIDTransport struct {
	base http.RoundTripper
}

func (t *requestIDTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(common.RequestIDHeaderName) != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(common.RequestIDHeaderName, common.NewRequestID())
	return t.base.RoundTrip(r)
}

// rateLimitTransport waits for a limiter token before each request.
type rateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
