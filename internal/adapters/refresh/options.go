package refresh

import (
	"time"

	"github.com/courtiq/skillrank/pkg/logger"
)

// Option applies a configuration option to the Refresher.
type Option func(*Refresher)

// WithInterval sets how often tracked venues are swept for refresh.
func WithInterval(d time.Duration) Option {
	return func(r *Refresher) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithWorkers sets the number of recompute workers.
func WithWorkers(n int) Option {
	return func(r *Refresher) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets a logger for refresh failures.
func WithLogger(log logger.Logger) Option {
	return func(r *Refresher) {
		r.log = log
	}
}
