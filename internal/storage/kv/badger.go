package kv

import (
	"context"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-faster/errors"
)

var _ Store = (*BadgerStore)(nil)

// BadgerConfig configures an embedded BadgerDB slot store.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM, for tests.
	InMemory bool
	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// BadgerStore stores slots in an embedded BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a BadgerDB according to cfg.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("badger path is required")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, errors.Wrapf(err, "create %s", cfg.Path)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.
		WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "open badger")
	}
	return &BadgerStore{db: db}, nil
}

// Get returns the value stored for key.
func (s *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "get %q", key)
	}
	return value, nil
}

// Set stores value under key.
func (s *BadgerStore) Set(_ context.Context, key string, value []byte) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	}); err != nil {
		return errors.Wrapf(err, "set %q", key)
	}
	return nil
}

// Delete removes key.
func (s *BadgerStore) Delete(_ context.Context, key string) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	}); err != nil {
		return errors.Wrapf(err, "delete %q", key)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
