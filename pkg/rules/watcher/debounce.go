package watcher

import (
	"sync"
	"time"
)

// Debouncer delays keys until no new Trigger for the same key arrived
// within the interval, then delivers the key on C. Keys are independent.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timers   map[string]*time.Timer
	fired    chan string
	stopCh   chan struct{}
	stopped  bool
}

// NewDebouncer creates a new debouncer.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
		fired:    make(chan string),
		stopCh:   make(chan struct{}),
	}
}

// C delivers keys whose quiet period elapsed.
func (d *Debouncer) C() <-chan string {
	return d.fired
}

// Trigger restarts the quiet period for key.
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.interval, func() {
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()

		select {
		case d.fired <- key:
		case <-d.stopCh:
		}
	})
	d.timers[key] = t
}

// Pending returns the number of keys waiting for their quiet period.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels pending keys. Trigger is a no-op afterwards.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.stopped = true
	close(d.stopCh)
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
