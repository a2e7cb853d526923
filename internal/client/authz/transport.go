package authz

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/stockyard/internal/client/client"
)

// Transport is the outbound round-tripper: it authorizes each request and
// clears the session when an authorized request is answered with 401 or
// 403, unless the request context defers that to the caller (see
// client.DeferAuthFailure). The response is still returned to the caller.
type Transport struct {
	Base       http.RoundTripper
	Authorizer *Authorizer
}

// Middleware adapts a into the form accepted by client.HTTPClient.Use.
func (a *Authorizer) Middleware() func(http.RoundTripper) http.RoundTripper {
	return func(base http.RoundTripper) http.RoundTripper {
		return &Transport{Base: base, Authorizer: a}
	}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	out := t.Authorizer.Authorize(req)
	resp, err := base.RoundTrip(out)
	if err != nil || out == req {
		return resp, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		reason := fmt.Sprintf("%s %s answered %d", req.Method, req.URL.Path, resp.StatusCode)
		if client.AuthFailureDeferred(req.Context()) {
			t.Authorizer.logger.Debug(req.Context(), "session clear deferred to caller", "reason", reason)
			return resp, nil
		}
		t.Authorizer.logger.Warn(req.Context(), "clearing session", "reason", reason)
		t.Authorizer.source.Invalidate(req.Context(), reason)
	}
	return resp, nil
}
