// Package dedupe defines the interface for outcome-id seen tracking.
package dedupe

// Option applies a configuration option to the seen set.
type Option func(*inMemorySeenSet)

// WithMaxSize sets the maximum number of IDs to keep in memory.
// If maxSize > 0: bounded mode with oldest-first eviction.
// If maxSize <= 0: unbounded mode (no eviction, no size limit).
func WithMaxSize(maxSize int) Option {
	return func(d *inMemorySeenSet) {
		d.maxSize = maxSize
	}
}
