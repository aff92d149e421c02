package outcomestore

import "errors"

// Sentinel kinds for outcome store errors.
var (
	// ErrAllTiersFailed means no tier could be queried at all. Retryable.
	ErrAllTiersFailed = errors.New("all outcome tiers failed")
)
