package outcomestore

import "github.com/courtiq/skillrank/pkg/logger"

// defaultMinConfidence drops heuristic pairs whose booking status is too
// weak a signal to synthesize an outcome from.
const defaultMinConfidence = 0.3

// Option applies a configuration option to the Adapter.
type Option func(*Adapter)

// WithStatusWeights replaces the booking-status confidence table. Statuses
// absent from the table weigh zero and are skipped.
func WithStatusWeights(weights map[string]float64) Option {
	return func(a *Adapter) {
		if len(weights) == 0 {
			return
		}
		a.statusWeights = make(map[string]float64, len(weights))
		for status, w := range weights {
			if w > 0 {
				a.statusWeights[status] = w
			}
		}
	}
}

// WithMinConfidence sets the minimum confidence a synthesized pair needs.
func WithMinConfidence(min float64) Option {
	return func(a *Adapter) {
		if min >= 0 && min <= 1 {
			a.minConfidence = min
		}
	}
}

// WithLogger sets a logger for tier fall-through warnings.
func WithLogger(log logger.Logger) Option {
	return func(a *Adapter) {
		a.log = log
	}
}
