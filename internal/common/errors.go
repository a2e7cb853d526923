package common

import "errors"

var (
	// ErrNoCredential is returned when an operation needs a session but none exists.
	ErrNoCredential = errors.New("no credential")

	// ErrInvalidToken is returned for tokens whose claims cannot be decoded.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token is past (or within the buffer of) its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrMalformedResponse is returned when the backend answers 2xx with an unusable body.
	ErrMalformedResponse = errors.New("malformed response")
)
