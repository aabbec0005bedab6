// Package kv provides the persistent key-value store the auth core reads and
// writes its two logical records through: the current session and the
// registered-user registry. Backends are interchangeable; callers select one
// via configuration.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("kv: key not found")

// Store describes persistence operations required by the auth core.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
