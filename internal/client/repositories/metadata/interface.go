// Package metadata is the durable key-value store backing the session: it
// holds the credential, the cached identity and the credential expiry under
// fixed keys.
package metadata

import (
	"context"
)

// Repository is a byte-valued key-value store. Get returns (nil, nil) for
// a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
