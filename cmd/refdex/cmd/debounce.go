package cmd

import (
	"sync"
	"time"
)

// fileDebouncer collapses a burst of filesystem events per path into a
// single delivery, fired one interval after the last event in the
// burst. Editors save in several writes (truncate+write, or temp file
// plus rename), so acting on the first event would index intermediate
// file states; waiting for the burst to settle means the final content
// is what gets processed.
type fileDebouncer struct {
	mu       sync.Mutex
	interval time.Duration
	timers   map[string]*time.Timer
	ready    chan string
}

func newFileDebouncer(interval time.Duration) *fileDebouncer {
	return &fileDebouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
		ready:    make(chan string, 16),
	}
}

// Ready delivers each settled path exactly once per burst. The consumer
// decides what the settled state means (reindex or purge).
func (d *fileDebouncer) Ready() <-chan string {
	return d.ready
}

// Trigger records an event for path, resetting its timer. The path is
// delivered on Ready one interval after the last Trigger for it.
func (d *fileDebouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	d.timers[path] = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		delete(d.timers, path)
		d.mu.Unlock()
		d.ready <- path
	})
}

// Stop cancels every pending timer. Paths already delivered to Ready
// are unaffected.
func (d *fileDebouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}
