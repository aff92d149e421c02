// Package refresh keeps leaderboard snapshots for active venues warm by
// re-deriving stale ones in the background.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/courtiq/skillrank/pkg/logger"
	"github.com/courtiq/skillrank/pkg/metrics"
)

// Default refresher configuration constants.
const (
	defaultInterval  = 5 * time.Minute
	defaultQueueSize = 1024
	defaultWorkers   = 2
)

// RecomputeFunc re-derives one venue's leaderboard.
type RecomputeFunc func(ctx context.Context, venueID string) error

// Refresher tracks venues that have been served recently and periodically
// pushes them through a bounded, coalescing queue to recompute workers.
// Coalescing means a venue already queued is not queued again, so a burst of
// traffic for one venue costs a single recompute.
type Refresher struct {
	recompute RecomputeFunc

	interval time.Duration
	workers  int

	mu      sync.Mutex
	tracked map[string]time.Time // venue id -> last served
	queued  map[string]struct{}
	queue   chan string

	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	log logger.Logger
}

// NewRefresher creates a refresher with configuration options.
func NewRefresher(recompute RecomputeFunc, opts ...Option) *Refresher {
	r := &Refresher{
		recompute: recompute,
		interval:  defaultInterval,
		workers:   defaultWorkers,
		tracked:   make(map[string]time.Time),
		queued:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.queue = make(chan string, defaultQueueSize)
	return r
}

// Note marks a venue as recently served, making it eligible for background
// refresh. Safe to call from request handlers.
func (r *Refresher) Note(venueID string) {
	if venueID == "" {
		return
	}
	r.mu.Lock()
	r.tracked[venueID] = time.Now()
	r.mu.Unlock()
}

// Start launches the tick loop and recompute workers.
func (r *Refresher) Start(ctx context.Context) {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return
	}
	r.started = true
	ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.work(ctx)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.enqueueTracked()
			}
		}
	}()
}

// Stop halts the tick loop and waits for in-flight recomputes.
func (r *Refresher) Stop() {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return
	}
	r.started = false
	cancel := r.cancel
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
}

// enqueueTracked pushes every tracked venue not already queued. Venues idle
// for two intervals fall out of tracking; their snapshots simply go stale.
func (r *Refresher) enqueueTracked() {
	cutoff := time.Now().Add(-2 * r.interval)

	r.mu.Lock()
	var due []string
	for venue, last := range r.tracked {
		if last.Before(cutoff) {
			delete(r.tracked, venue)
			continue
		}
		if _, ok := r.queued[venue]; ok {
			continue
		}
		due = append(due, venue)
	}
	for _, venue := range due {
		select {
		case r.queue <- venue:
			r.queued[venue] = struct{}{}
		default:
			// Queue full: drop, the next tick retries.
		}
	}
	metrics.UpdateRefreshQueueSize(len(r.queued))
	r.mu.Unlock()
}

func (r *Refresher) work(ctx context.Context) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case venue := <-r.queue:
			r.mu.Lock()
			delete(r.queued, venue)
			metrics.UpdateRefreshQueueSize(len(r.queued))
			r.mu.Unlock()

			if err := r.recompute(ctx, venue); err != nil && r.log != nil {
				r.log.Warn(ctx, "background refresh failed",
					logger.String("venue", venue),
					logger.Error(err),
				)
			}
		}
	}
}

// QueueLen reports how many venues are currently queued.
func (r *Refresher) QueueLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queued)
}

// Tracked reports how many venues are eligible for refresh.
func (r *Refresher) Tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tracked)
}
