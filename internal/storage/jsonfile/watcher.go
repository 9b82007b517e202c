package jsonfile

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// Cached is a file-backed store whose cache can be dropped.
type Cached interface {
	Path() string
	Invalidate()
}

// Watcher invalidates table caches when their files change on disk, so
// hand edits to the data directory are picked up without a restart.
type Watcher struct {
	fs     *fsnotify.Watcher
	tables map[string]Cached
	lg     *zap.Logger
}

// NewWatcher starts watching the directories of the given tables.
func NewWatcher(lg *zap.Logger, tables ...Cached) (*Watcher, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}

	w := &Watcher{
		fs:     fw,
		tables: make(map[string]Cached, len(tables)),
		lg:     lg,
	}
	dirs := make(map[string]struct{})
	for _, t := range tables {
		path := filepath.Clean(t.Path())
		w.tables[path] = t

		dir := filepath.Dir(path)
		if _, ok := dirs[dir]; ok {
			continue
		}
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
		dirs[dir] = struct{}{}
	}
	return w, nil
}

// Run dispatches file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.lg.Warn("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	t, ok := w.tables[filepath.Clean(event.Name)]
	if !ok {
		return
	}
	w.lg.Debug("Table changed on disk",
		zap.String("path", event.Name),
		zap.String("op", event.Op.String()),
	)
	t.Invalidate()
}

// Close stops watching. Run also closes the watcher when it returns.
func (w *Watcher) Close() error {
	if err := w.fs.Close(); err != nil {
		return errors.Wrap(err, "close fsnotify watcher")
	}
	return nil
}
