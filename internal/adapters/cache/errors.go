package cache

import "errors"

// Sentinel kinds for leaderboard cache errors.
var (
	// ErrNotFound means no snapshot was ever computed for the venue.
	ErrNotFound = errors.New("leaderboard not found")
	// ErrStoreWrite wraps a failed snapshot write. Non-fatal: the computed
	// leaderboard is still returned alongside it and can be served.
	ErrStoreWrite = errors.New("leaderboard store write failed")
)
