package kvstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	crerr "github.com/cockroachdb/errors"
)

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// File stores one file per key under Root. Writes go through a temp file and
// rename so a crash never leaves a half-written value behind.
type File struct {
	Root string

	mu sync.Mutex
}

func NewFile(root string) *File {
	return &File{Root: root}
}

func (s *File) Path(key string) string {
	return filepath.Join(s.Root, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

func (s *File) Get(_ context.Context, key string) ([]byte, bool, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, false, err
	}

	raw, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, crerr.Wrapf(err, "read kv file for key %q", key)
	}

	return raw, true, nil
}

func (s *File) Set(_ context.Context, key string, value []byte) error {
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return crerr.Wrapf(err, "create kv directory %q", s.Root)
	}

	tmp, err := os.CreateTemp(s.Root, ".kv-*")
	if err != nil {
		return crerr.Wrap(err, "create kv temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write kv value for key %q", key)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrap(err, "close kv temp file")
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		return crerr.Wrapf(err, "replace kv file for key %q", key)
	}

	return nil
}
