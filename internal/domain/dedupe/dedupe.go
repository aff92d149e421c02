// Package dedupe defines the interface for outcome-id seen tracking.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen outcome IDs so the same logical match is never folded
// into a rating twice, even when it surfaces from more than one underlying
// source.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// inMemorySeenSet implements Deduper with a map plus an insertion-order ring
// used for eviction in bounded mode (maxSize > 0). With maxSize <= 0 the set
// is unbounded, which is what per-fold callers want: an aggregation fold sees
// at most one id per outcome record and is discarded afterwards.
type inMemorySeenSet struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order, bounded mode only
	maxSize int
}

// NewSeenSet creates a seen set with configuration options.
func NewSeenSet(opts ...Option) Deduper {
	d := &inMemorySeenSet{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *inMemorySeenSet) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 {
		if len(d.seen) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, id)
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemorySeenSet) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; !ok {
		return
	}
	delete(d.seen, id)
	if d.maxSize > 0 {
		for i, v := range d.order {
			if v == id {
				d.order = append(d.order[:i], d.order[i+1:]...)
				break
			}
		}
	}
}

// evictOldest drops the earliest still-tracked insertion. Must be called with
// d.mu held.
func (d *inMemorySeenSet) evictOldest() {
	for len(d.order) > 0 {
		oldest := d.order[0]
		d.order = d.order[1:]
		if _, ok := d.seen[oldest]; ok {
			delete(d.seen, oldest)
			return
		}
	}
}

func (d *inMemorySeenSet) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
