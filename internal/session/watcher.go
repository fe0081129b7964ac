package session

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// TokenWatcher turns filesystem events on the token store into change
// notifications, so a login or logout in another process is noticed without
// waiting for the next periodic check. The periodic Check stays in place as
// a fallback; platforms without reliable events just lean on it.
type TokenWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	path    string
	changes chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewTokenWatcher creates a watcher for the given token store.
func NewTokenWatcher(store *TokenStore) (*TokenWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &TokenWatcher{
		watcher: w,
		path:    store.Path(),
		changes: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Changes delivers one (coalesced) signal per burst of token-file changes.
func (tw *TokenWatcher) Changes() <-chan struct{} { return tw.changes }

// Start begins watching. The directory is watched rather than the file so
// that create and remove are seen even when the file does not exist yet.
func (tw *TokenWatcher) Start() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.running {
		return nil
	}
	if err := tw.watcher.Add(filepath.Dir(tw.path)); err != nil {
		return err
	}
	tw.running = true
	go tw.loop()
	return nil
}

func (tw *TokenWatcher) loop() {
	defer close(tw.doneCh)
	for {
		select {
		case <-tw.stopCh:
			return
		case ev, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != tw.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// Coalesce: drop the signal if one is already pending.
			select {
			case tw.changes <- struct{}{}:
			default:
			}
		case _, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			// Watcher errors are non-fatal; the periodic check covers us.
		}
	}
}

// Stop tears the watcher down and waits for the loop to exit.
func (tw *TokenWatcher) Stop() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if !tw.running {
		_ = tw.watcher.Close()
		return
	}
	tw.running = false
	close(tw.stopCh)
	_ = tw.watcher.Close()
	<-tw.doneCh
}
