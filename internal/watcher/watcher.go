package watcher

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher observes the content of a single file and emits one reload signal
// per observed change. Bursts of events (editors often write several times
// on save) are coalesced by a debounce window, and changes are confirmed by
// content hash so reading back our own write never signals again.
type Watcher struct {
	path string
	name string

	fsw    *fsnotify.Watcher
	events chan struct{}

	debounce time.Duration
	poll     time.Duration

	lastSum [sha256.Size]byte
	hasSum  bool
}

// New prepares a watcher for path. The parent directory is watched instead
// of the file itself so save-via-rename editors do not orphan the watch.
func New(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		name:     filepath.Base(abs),
		fsw:      fsw,
		events:   make(chan struct{}, 1),
		debounce: 200 * time.Millisecond,
		poll:     2 * time.Second,
	}
	// Seed the hash so startup content does not count as a change.
	w.changed()
	return w, nil
}

// Events delivers at most one pending reload signal at a time.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Start runs the watch loop until the context is cancelled. A slow polling
// tick backs up fsnotify on filesystems that drop events.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()

	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	arm := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != w.name {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if w.changed() {
				arm()
			}
		case <-ticker.C:
			if w.changed() {
				arm()
			}
		case <-timer.C:
			select {
			case w.events <- struct{}{}:
			default:
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// changed re-reads the file and reports whether its content hash moved.
// Read failures (file mid-rename, deleted) are treated as no change; the
// next event or poll retries.
func (w *Watcher) changed() bool {
	data, err := os.ReadFile(w.path)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(data)
	if w.hasSum && sum == w.lastSum {
		return false
	}
	w.lastSum = sum
	w.hasSum = true
	return true
}
