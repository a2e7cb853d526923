// Package client is the REST client of the stockyard back office.
//
// HTTPClient covers the identity provider (login, logout, refresh, password
// change) and the resource API (merchants, movements, reports, users). All
// calls take a context and return a typed *APIError on failure; APIError
// matches the package sentinels through errors.Is:
//
//	if errors.Is(err, client.ErrInvalidCredentials) { ... }
//
// Bearer credentials are not handled here. The outbound pipeline is built
// from round-trippers and callers add the authorizer with Use once the
// session exists.
//
// The package also bootstraps the local SQLite store (InitDatabase,
// RunMigrations) that persists the session between runs.
package client
