package storage

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"gspotify/logger"

	"github.com/fsnotify/fsnotify"
)

// ownEventGrace is how long a store-initiated write or delete keeps its
// filesystem events classified as the store's own.
const ownEventGrace = 10 * time.Second

// Watcher observes a local store root and logs out-of-band changes. Blobs are
// write-once: a removal or rewrite that did not go through the store breaks
// the size invariant streaming relies on, so it should at least be visible
// in the logs. Events raised by the store's own Save/Delete are recognized
// and logged at debug level only.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu  sync.Mutex
	own map[string]time.Time
}

// WatchStore starts watching the store's root directory.
func WatchStore(store *LocalStore) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(store.Root()); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", store.Root(), err)
	}

	w := &Watcher{watcher: fsw, done: make(chan struct{}), own: make(map[string]time.Time)}
	store.setMark(w.expect)
	go w.run()

	logger.Info("Watching storage directory", logger.String("root", store.Root()))
	return w, nil
}

// expect flags an identifier whose next filesystem events belong to the store.
func (w *Watcher) expect(identifier string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.own[identifier] = time.Now()
}

// ownEvent reports whether events for the named file were announced by the
// store recently. Stale entries are pruned as they are seen.
func (w *Watcher) ownEvent(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	marked, ok := w.own[name]
	if !ok {
		return false
	}
	if time.Since(marked) > ownEventGrace {
		delete(w.own, name)
		return false
	}
	return true
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if w.ownEvent(name) {
				logger.Debug("Storage event from the store itself",
					logger.String("path", event.Name),
					logger.String("op", event.Op.String()),
				)
				continue
			}
			switch {
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				logger.Warn("Stored file removed outside the store",
					logger.String("path", event.Name),
					logger.String("op", event.Op.String()),
				)
			case event.Has(fsnotify.Write):
				logger.Warn("Stored file modified outside the store",
					logger.String("path", event.Name),
				)
			default:
				logger.Debug("Storage directory event",
					logger.String("path", event.Name),
					logger.String("op", event.Op.String()),
				)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Storage watcher error", logger.ErrorField(err))
		}
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
