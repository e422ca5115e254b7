// Package debounce coalesces bursts of triggers into a single flush per key.
package debounce

import (
	"sync"
	"time"
)

type pending[T any] struct {
	item  T
	timer *time.Timer
}

// Debouncer holds the latest item per key and flushes it once no new
// trigger has arrived for the configured delay. A new trigger replaces the
// pending item and resets the timer; triggers never queue additional
// flushes.
type Debouncer[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pending[T]
	onFlush func(key string, item T)
	stopped bool
}

// New creates a debouncer. onFlush runs on the timer goroutine.
func New[T any](delay time.Duration, onFlush func(key string, item T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay:   delay,
		pending: make(map[string]*pending[T]),
		onFlush: onFlush,
	}
}

// Trigger records the latest item for key and restarts its quiet-period
// timer. With a non-positive delay the item is flushed immediately.
func (d *Debouncer[T]) Trigger(key string, item T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}

	if d.delay <= 0 {
		d.mu.Unlock()
		d.onFlush(key, item)
		return
	}

	if p, ok := d.pending[key]; ok {
		p.item = item
		p.timer.Stop()
		p.timer = time.AfterFunc(d.delay, func() { d.flush(key) })
		d.mu.Unlock()
		return
	}

	p := &pending[T]{item: item}
	p.timer = time.AfterFunc(d.delay, func() { d.flush(key) })
	d.pending[key] = p
	d.mu.Unlock()
}

// Flush forces an immediate flush of the pending item for key, if any.
func (d *Debouncer[T]) Flush(key string) {
	d.flush(key)
}

func (d *Debouncer[T]) flush(key string) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || d.stopped {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	p.timer.Stop()
	item := p.item
	d.mu.Unlock()

	d.onFlush(key, item)
}

// Stop cancels all pending timers. Further triggers are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// PendingCount reports how many keys await a flush.
func (d *Debouncer[T]) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
