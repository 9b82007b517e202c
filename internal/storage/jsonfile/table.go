// Package jsonfile stores catalog tables as JSON array files in a data
// directory.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Table is a single JSON array file holding rows of type T. Reads are served
// from a cache that is dropped by Invalidate; read-modify-write cycles are
// serialized by Update.
type Table[T any] struct {
	path string
	lg   *zap.Logger

	mu     sync.Mutex
	rows   []T
	cached bool
}

// OpenTable opens dir/name.json, creating the directory and an empty "[]"
// file when they do not exist yet.
func OpenTable[T any](dir, name string, lg *zap.Logger) (*Table[T], error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "create %s", dir)
	}

	path := filepath.Join(dir, name+".json")
	switch _, err := os.Stat(path); {
	case errors.Is(err, os.ErrNotExist):
		if err := writeFile(path, []byte("[]\n")); err != nil {
			return nil, errors.Wrapf(err, "init %s", path)
		}
	case err != nil:
		return nil, errors.Wrapf(err, "stat %s", path)
	}

	return &Table[T]{
		path: path,
		lg:   lg.With(zap.String("table", name)),
	}, nil
}

// Path returns the backing file path.
func (t *Table[T]) Path() string {
	return t.path
}

// All returns a copy of every row in file order. An unreadable or
// unparsable file reads as an empty table.
func (t *Table[T]) All() []T {
	t.mu.Lock()
	defer t.mu.Unlock()

	return slices.Clone(t.loadLocked())
}

// Update passes a copy of the rows to fn and writes back whatever fn
// returns. Nothing is written when fn fails.
func (t *Table[T]) Update(fn func(rows []T) ([]T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := fn(slices.Clone(t.loadLocked()))
	if err != nil {
		return err
	}
	if next == nil {
		next = []T{}
	}

	data, err := json.MarshalIndent(next, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal rows")
	}
	if err := writeFile(t.path, append(data, '\n')); err != nil {
		return errors.Wrapf(err, "write %s", t.path)
	}

	t.rows, t.cached = next, true
	return nil
}

// Invalidate drops the cached rows so the next read goes to disk.
func (t *Table[T]) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows, t.cached = nil, false
}

func (t *Table[T]) loadLocked() []T {
	if t.cached {
		return t.rows
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		t.lg.Warn("Failed to read table, treating as empty", zap.Error(err))
		return []T{}
	}
	rows := []T{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &rows); err != nil {
			t.lg.Warn("Failed to parse table, treating as empty", zap.Error(err))
			return []T{}
		}
	}
	if rows == nil {
		rows = []T{}
	}

	t.rows, t.cached = rows, true
	return rows
}

func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return errors.Wrap(err, "rename temp file")
	}
	return nil
}
