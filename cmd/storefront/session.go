package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/catalogclient"
	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/notify"
	"github.com/xenking/storefront/internal/storage/kv"
)

// adminKeySlot is the kv key holding the key saved by "admin login".
const adminKeySlot = "adminKey"

// session is the state shared by one CLI invocation.
type session struct {
	cfg    *Config
	lg     *zap.Logger
	out    io.Writer
	client *catalogclient.Client

	slots    kv.Store
	closeKV  func() error
	kvOpened bool
}

func newSession(cfg *Config, lg *zap.Logger, out io.Writer) (*session, error) {
	client, err := catalogclient.New(cfg.APIURL)
	if err != nil {
		return nil, errors.Wrap(err, "catalog client")
	}
	return &session{cfg: cfg, lg: lg, out: out, client: client}, nil
}

// kv opens the configured slot store on first use.
func (s *session) kv(ctx context.Context) (kv.Store, error) {
	if s.kvOpened {
		return s.slots, nil
	}
	switch s.cfg.CartBackend {
	case backendBadger:
		db, err := kv.OpenBadger(kv.BadgerConfig{Path: filepath.Join(s.cfg.CartDir, "badger")})
		if err != nil {
			return nil, err
		}
		s.slots, s.closeKV = db, db.Close
	case backendRedis:
		rs, err := kv.ConnectRedis(ctx, kv.RedisConfig{
			Addr:     s.cfg.RedisAddr,
			Password: s.cfg.RedisPassword,
			DB:       s.cfg.RedisDB,
			Prefix:   s.cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		s.slots, s.closeKV = rs, rs.Close
	default:
		fs, err := kv.NewFileStore(s.cfg.CartDir)
		if err != nil {
			return nil, err
		}
		s.slots, s.closeKV = fs, func() error { return nil }
	}
	s.kvOpened = true
	s.lg.Debug("Opened slot store", zap.String("backend", s.cfg.CartBackend))
	return s.slots, nil
}

func (s *session) Close() error {
	if !s.kvOpened {
		return nil
	}
	return s.closeKV()
}

// withCart runs fn against a cart restored from the slot store, then prints
// the operation's notification and the cart summary.
func (s *session) withCart(ctx context.Context, fn func(store *cart.Store)) error {
	slots, err := s.kv(ctx)
	if err != nil {
		return err
	}
	slot := notify.NewSlot(s.cfg.NotificationTTL)
	store := cart.NewStore(cart.NewKVBridge(slots, s.cfg.CartKey), slot, s.lg.Named("cart"))
	defer store.Close()

	store.Initialize(ctx)
	fn(store)
	if msg, ok := slot.Current(); ok {
		renderNotification(s.out, msg)
	}
	renderCart(s.out, store.Items(), store.Count(), store.Total())
	return nil
}

// adminClient returns a client authenticated with the configured or saved
// admin key.
func (s *session) adminClient(ctx context.Context) (*catalogclient.Client, error) {
	if s.cfg.AdminKey != "" {
		return s.client.WithAdminKey(s.cfg.AdminKey), nil
	}
	slots, err := s.kv(ctx)
	if err != nil {
		return nil, err
	}
	key, err := slots.Get(ctx, adminKeySlot)
	if errors.Is(err, kv.ErrNotFound) || (err == nil && len(key) == 0) {
		return nil, errors.New("not logged in: run \"storefront admin login KEY\"")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read admin key")
	}
	return s.client.WithAdminKey(string(key)), nil
}
