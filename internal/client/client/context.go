package client

import "context"

type deferAuthFailureKey struct{}

// DeferAuthFailure marks ctx so that a 401 or 403 on requests made with it
// does not clear the session in the outbound pipeline. The caller takes
// over that decision, e.g. after trying every candidate endpoint.
func DeferAuthFailure(ctx context.Context) context.Context {
	return context.WithValue(ctx, deferAuthFailureKey{}, true)
}

// AuthFailureDeferred reports whether ctx was marked by DeferAuthFailure.
func AuthFailureDeferred(ctx context.Context) bool {
	v, _ := ctx.Value(deferAuthFailureKey{}).(bool)
	return v
}
