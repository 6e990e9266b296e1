package watch

import (
	"slices"
	"sync"
	"time"
)

// Batcher collects changed paths and hands them to flush as one sorted,
// de-duplicated batch once no new path has arrived for the interval.
// Flushes run one at a time; paths added during a flush start a new batch.
type Batcher struct {
	interval time.Duration
	flush    func([]string)

	mu      sync.Mutex
	paths   map[string]struct{}
	timer   *time.Timer
	stopped bool

	flushMu sync.Mutex
}

// NewBatcher creates a batcher that calls flush after each quiet period.
func NewBatcher(interval time.Duration, flush func([]string)) *Batcher {
	return &Batcher{
		interval: interval,
		flush:    flush,
		paths:    make(map[string]struct{}),
	}
}

// Add records path and restarts the quiet period. It is a no-op after Stop.
func (b *Batcher) Add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}
	b.paths[path] = struct{}{}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.interval, b.fire)
		return
	}
	b.timer.Reset(b.interval)
}

// Pending returns the number of paths waiting for the next flush.
func (b *Batcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.paths)
}

func (b *Batcher) fire() {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	b.mu.Lock()
	if b.stopped || len(b.paths) == 0 {
		b.mu.Unlock()
		return
	}
	batch := make([]string, 0, len(b.paths))
	for p := range b.paths {
		batch = append(batch, p)
	}
	clear(b.paths)
	b.mu.Unlock()

	slices.Sort(batch)
	b.flush(batch)
}

// Stop drops pending paths and waits for a running flush to return.
func (b *Batcher) Stop() {
	b.mu.Lock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
	}
	clear(b.paths)
	b.mu.Unlock()

	b.flushMu.Lock()
	defer b.flushMu.Unlock()
}
