// Package authz decides what the current session may do: which outbound
// requests carry the bearer credential and which console routes may be
// entered.
package authz

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/common"
	"github.com/dmitrijs2005/stockyard/internal/logging"
)

// SessionSource is the read side of the session store plus its clear hook.
type SessionSource interface {
	Current() models.Session
	Invalidate(ctx context.Context, reason string)
}

// Redirect names where a denied navigation should go.
type Redirect string

const (
	RedirectNone         Redirect = ""
	RedirectLogin        Redirect = "login"
	RedirectUnauthorized Redirect = "unauthorized"
)

// Decision is the outcome of a route check.
type Decision struct {
	Allowed  bool
	Redirect Redirect
}

var allow = Decision{Allowed: true}

// Authorizer applies the current session to requests and routes.
type Authorizer struct {
	source SessionSource
	prefix string
	logger logging.Logger
}

// New returns an Authorizer that protects paths under prefix. An empty
// prefix falls back to common.DefaultProtectedPrefix.
func New(source SessionSource, prefix string, logger logging.Logger) *Authorizer {
	if prefix == "" {
		prefix = common.DefaultProtectedPrefix
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Authorizer{source: source, prefix: prefix, logger: logger}
}

// Protects reports whether requests to p should carry the credential.
func (a *Authorizer) Protects(p string) bool {
	return strings.HasPrefix(p, a.prefix)
}

// Authorize returns req with the bearer header added when a credential is
// held and the target is protected. Otherwise req itself is returned.
func (a *Authorizer) Authorize(req *http.Request) *http.Request {
	cred := a.source.Current().Credential
	if cred == "" || req.URL == nil || !a.Protects(req.URL.Path) {
		return req
	}
	out := req.Clone(req.Context())
	out.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+cred)
	return out
}

// CanActivate checks the identity against requiredRoles. No roles means
// any signed-in identity is allowed.
func (a *Authorizer) CanActivate(requiredRoles ...models.Role) Decision {
	id := a.source.Current().Identity
	if id == nil {
		return Decision{Redirect: RedirectLogin}
	}
	if len(requiredRoles) == 0 || id.HasRole(requiredRoles...) {
		return allow
	}
	return Decision{Redirect: RedirectUnauthorized}
}

// Guard is the full check for a protected route: the session must be
// authenticated (fresh credential and identity) before roles are checked.
func (a *Authorizer) Guard(requiredRoles ...models.Role) Decision {
	if !a.source.Current().Authenticated {
		return Decision{Redirect: RedirectLogin}
	}
	return a.CanActivate(requiredRoles...)
}
