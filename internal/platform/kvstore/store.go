// Package kvstore is the small key-value capability used for local preferences.
package kvstore

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

var ErrEmptyKey = crerr.New("kv key is required")

// Store reads and writes opaque values by key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Backend names accepted by config.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

func normalizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyKey
	}
	return key, nil
}
