// Package common contains shared constants, sentinel errors and small helpers
// used across the stockyard client layers.
package common

import "time"

// AuthorizationHeaderName is the HTTP header carrying the bearer credential
// on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the credential inside AuthorizationHeaderName.
const BearerScheme = "Bearer "

// RequestIDHeaderName tags every outbound request for backend log correlation.
const RequestIDHeaderName = "X-Request-ID"

// Keys used in the durable key-value store.
const (
	StorageKeyToken       = "token"
	StorageKeyUser        = "user"
	StorageKeyTokenExpiry = "token_expiry"
)

// FreshnessBuffer is the margin before actual expiry after which a token is
// already treated as stale.
const FreshnessBuffer = 300 * time.Second

// DefaultProtectedPrefix is the path prefix of requests that receive the
// bearer credential.
const DefaultProtectedPrefix = "/api/"
