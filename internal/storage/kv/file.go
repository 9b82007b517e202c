package kv

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/go-faster/errors"
)

var _ Store = (*FileStore)(nil)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileStore keeps each key in its own file under a directory. Writes go
// through a temporary file and a rename so readers never see partial data.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", errors.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get returns the file contents for key.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %s", p)
	}
	return data, nil
}

// Set atomically replaces the file for key.
func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrapf(err, "rename to %s", p)
	}
	return nil
}

// Delete removes the file for key. Missing keys are not an error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "remove %s", p)
	}
	return nil
}
