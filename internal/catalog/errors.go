package catalog

import "github.com/go-faster/errors"

var (
	// ErrConnectivityUnavailable is reported when the network is unreachable.
	ErrConnectivityUnavailable = errors.New("connectivity unavailable")
	// ErrFetchFailure covers timeouts, non-success statuses and undecodable bodies.
	ErrFetchFailure = errors.New("fetch failed")
	// ErrCacheMiss means the cache key is absent or holds a corrupt payload.
	ErrCacheMiss = errors.New("cache miss")
	// ErrPersistenceFailure means a cache write did not complete.
	ErrPersistenceFailure = errors.New("persistence failed")
)

// SyncError describes a synchronization that could neither reach fresh data
// nor fall back to the cache. It matches both underlying causes.
type SyncError struct {
	Msg   string
	Cause error
	Cache error
}

func (e *SyncError) Error() string {
	return e.Msg
}

func (e *SyncError) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	if e.Cache != nil {
		out = append(out, e.Cache)
	}
	return out
}
