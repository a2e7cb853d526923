package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a failed call.
type Kind int

const (
	KindUnknown Kind = iota
	KindNetwork
	KindInvalidCredentials
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
	KindRateLimited
	KindServer
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindNetwork:            "network",
	KindInvalidCredentials: "invalid_credentials",
	KindUnauthorized:       "unauthorized",
	KindForbidden:          "forbidden",
	KindNotFound:           "not_found",
	KindConflict:           "conflict",
	KindValidation:         "validation",
	KindRateLimited:        "rate_limited",
	KindServer:             "server",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrServer             = errors.New("server error")
	ErrUnknown            = errors.New("unknown error")
)

var kindSentinels = map[Kind]error{
	KindUnknown:            ErrUnknown,
	KindNetwork:            ErrUnavailable,
	KindInvalidCredentials: ErrInvalidCredentials,
	KindUnauthorized:       ErrUnauthorized,
	KindForbidden:          ErrForbidden,
	KindNotFound:           ErrNotFound,
	KindConflict:           ErrConflict,
	KindValidation:         ErrValidation,
	KindRateLimited:        ErrRateLimited,
	KindServer:             ErrServer,
}

// APIError is returned by every HTTPClient call that does not succeed.
// Status is 0 for network failures.
type APIError struct {
	Kind      Kind
	Op        string
	Message   string
	Status    int
	Timestamp time.Time
	// Details is the raw response body, if any.
	Details []byte
	// Err is the transport error for KindNetwork.
	Err error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

// Unwrap exposes the sentinel for Kind and, for network errors, the cause.
func (e *APIError) Unwrap() []error {
	errs := []error{kindSentinels[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Classify maps an HTTP status to a Kind. A 401 answering a login means
// the submitted credentials were wrong rather than that a session expired.
func Classify(status int, op string) Kind {
	switch {
	case status == 0:
		return KindNetwork
	case status == http.StatusUnauthorized && op == OpLogin:
		return KindInvalidCredentials
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// message returns the human readable text for a failure. serverMsg is the
// "message" field of the response body, used where the status alone says
// little.
func message(status int, op, serverMsg string) string {
	switch status {
	case 0:
		return "cannot reach the server, check your network connection"
	case http.StatusBadRequest:
		if serverMsg != "" {
			return serverMsg
		}
		return "invalid request"
	case http.StatusUnauthorized:
		if op == OpLogin {
			return "invalid email or password"
		}
		return "not authorized, your session has expired"
	case http.StatusForbidden:
		return "access denied, you do not have permission for this action"
	case http.StatusNotFound:
		return "the requested resource does not exist"
	case http.StatusConflict:
		return "conflict, the resource already exists"
	case http.StatusUnprocessableEntity:
		return "invalid input data"
	case http.StatusTooManyRequests:
		return "too many requests, try again later"
	case http.StatusInternalServerError:
		return "internal server error, contact the administrator"
	case http.StatusServiceUnavailable:
		return "service unavailable, try again later"
	default:
		if serverMsg != "" {
			return serverMsg
		}
		return fmt.Sprintf("unexpected error: %d", status)
	}
}

func newAPIError(op string, status int, serverMsg string, body []byte, cause error) *APIError {
	return &APIError{
		Kind:      Classify(status, op),
		Op:        op,
		Message:   message(status, op, serverMsg),
		Status:    status,
		Timestamp: time.Now(),
		Details:   body,
		Err:       cause,
	}
}

// IsNetwork reports whether err is a connection-level failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsAuthFailure reports whether err is a 401 or 403 on a non-login call.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
