// Package token inspects bearer credentials issued by the backend.
//
// The credential is opaque to the client except for its claims block, which
// is decoded without signature verification: the client holds no key and only
// needs the expiry to decide whether the session is still usable.
package token

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/common"
)

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Evaluator decides token freshness relative to a buffer before expiry.
type Evaluator struct {
	buffer time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithBuffer overrides the freshness buffer.
func WithBuffer(d time.Duration) Option {
	return func(e *Evaluator) { e.buffer = d }
}

// WithClock overrides the time source; tests use it to pin "now".
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

// NewEvaluator returns an Evaluator using common.FreshnessBuffer by default.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		buffer: common.FreshnessBuffer,
		now:    time.Now,
		parser: jwt.NewParser(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Buffer returns the configured freshness buffer.
func (e *Evaluator) Buffer() time.Duration { return e.buffer }

func (e *Evaluator) decode(tok string) (*claims, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return nil, common.ErrInvalidToken
	}
	raw, err := e.parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	var c claims
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, common.ErrInvalidToken
	}
	return &c, nil
}

// IsExpiringSoon reports whether tok expires within the buffer. Any token
// that cannot be decoded, or carries no exp claim, counts as expiring.
func (e *Evaluator) IsExpiringSoon(tok string) bool {
	c, err := e.decode(tok)
	if err != nil || c.ExpiresAt == nil {
		return true
	}
	return c.ExpiresAt.Time.Sub(e.now()) < e.buffer
}

// Check is IsExpiringSoon with an error result for callers that propagate it.
func (e *Evaluator) Check(tok string) error {
	c, err := e.decode(tok)
	if err != nil {
		return err
	}
	if c.ExpiresAt == nil || c.ExpiresAt.Time.Sub(e.now()) < e.buffer {
		return common.ErrTokenExpired
	}
	return nil
}

// ExpiresAt returns the exp claim, or the zero time when it is unavailable.
func (e *Evaluator) ExpiresAt(tok string) time.Time {
	c, err := e.decode(tok)
	if err != nil || c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Describe extracts the claims for display. It returns nil on any failure.
func (e *Evaluator) Describe(tok string) *models.Claims {
	c, err := e.decode(tok)
	if err != nil {
		return nil
	}
	out := &models.Claims{
		Email: c.Email,
		Role:  models.Role(c.Role),
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
