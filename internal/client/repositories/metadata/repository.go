// Package metadata is a small key/value store in the client database. The
// session snapshot lives here.
package metadata

import (
	"context"
)

// Repository reads and writes raw values by key. Get returns
// common.ErrorNotFound for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}
