package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Event is emitted by Watch when the export may have changed.
type Event struct {
	Path string
	// Removed is set when the file disappeared; a later write will follow
	// if an editor is replacing it.
	Removed bool
}

// Watcher is implemented by sources that can report changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Watch streams change events for the file until ctx is cancelled. The parent
// directory is watched rather than the file itself so editors that write a
// temporary file and rename it over the original are still seen. Bursts are
// coalesced into one event.
func (f *File) Watch(ctx context.Context) (<-chan Event, error) {
	return watchFile(ctx, f.Path, 150*time.Millisecond, zerolog.Ctx(ctx))
}

// Watch is not supported for HTTP sources.
func (h *HTTP) Watch(context.Context) (<-chan Event, error) {
	return nil, ErrNotWatchable
}

func watchFile(ctx context.Context, path string, delay time.Duration, log *zerolog.Logger) (<-chan Event, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("source: create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("source: watch %s: %w", dir, err)
	}

	events := make(chan Event, 8)
	var (
		sendMu sync.Mutex
		closed bool
	)
	send := func(ev Event) {
		sendMu.Lock()
		defer sendMu.Unlock()
		if closed {
			return
		}
		select {
		case events <- ev:
		default:
			// The consumer is behind; the event it has yet to read already
			// triggers a reload.
		}
	}
	throttle := newEventThrottle(delay)

	go func() {
		defer func() {
			throttle.Stop()
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("source: watcher close")
			}
			sendMu.Lock()
			closed = true
			close(events)
			sendMu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("path", abs).Msg("source: watcher error")
				throttle.Enqueue(Event{Path: abs}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				removed := evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0
				throttle.Enqueue(Event{Path: abs, Removed: removed}, send)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces a burst of filesystem notifications into the last
// event seen, delivered once the burst has been quiet for delay.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending *Event
	delay   time.Duration
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{delay: delay}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = &ev
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.delay, func() {
		t.flush(send)
	})
}

func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	pending := t.pending
	t.pending = nil
	t.timer = nil
	t.mu.Unlock()

	if pending != nil {
		send(*pending)
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.pending = nil
	t.mu.Unlock()
}
