package common

import "github.com/google/uuid"

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NewRequestID returns a random identifier for the X-Request-ID header.
func NewRequestID() string {
	return uuid.NewString()
}
