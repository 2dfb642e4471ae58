// Package favourites owns the user's favourite product ids. Every mutation
// is persisted before it becomes visible in the shared state.
package favourites

import (
	"context"
	"log"
	"sync"

	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

// Ledger is the single writer of the USER_FAVOURITES cache key.
type Ledger struct {
	// mu spans read, persist and commit so overlapping toggles of the same
	// id cannot both start from the same prior set.
	mu    sync.Mutex
	cache cache.Store
	state *state.Store
}

// New returns a ledger writing through store and publishing to st.
func New(store cache.Store, st *state.Store) (*Ledger, error) {
	if store == nil {
		return nil, errors.New("favourites ledger requires a cache store")
	}
	if st == nil {
		return nil, errors.New("favourites ledger requires a state store")
	}
	return &Ledger{cache: store, state: st}, nil
}

// Load replaces the in-memory set with the persisted one. A missing record
// yields an empty set. A corrupt record also yields an empty set, but the
// decode error is returned so the caller can surface it.
func (l *Ledger) Load(ctx context.Context) (catalog.FavouriteSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, err := cache.LoadFavourites(ctx, l.cache)
	if err != nil {
		set = catalog.NewFavouriteSet()
		l.state.SetFavourites(set)
		var corrupt *cache.CorruptError
		if errors.Is(err, catalog.ErrCacheMiss) && !errors.As(err, &corrupt) {
			// First run: nothing has been persisted yet.
			return set, nil
		}
		log.Printf("favourites: load: %v", err)
		return set, errors.Wrap(err, "load favourites")
	}
	l.state.SetFavourites(set)
	return set, nil
}

// Toggle adds id when absent and removes it when present. The candidate set
// is persisted first; on failure the in-memory set is unchanged and the
// error (wrapping catalog.ErrPersistenceFailure) is returned.
func (l *Ledger) Toggle(ctx context.Context, id int64) (catalog.FavouriteSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.state.Favourites()
	candidate := current.Toggle(id)
	if err := cache.SaveFavourites(ctx, l.cache, candidate); err != nil {
		log.Printf("favourites: persist toggle of %d: %v", id, err)
		if !errors.Is(err, catalog.ErrPersistenceFailure) {
			err = errors.Wrapf(catalog.ErrPersistenceFailure, "%v", err)
		}
		l.state.FailFavourites(err)
		return current, err
	}
	l.state.SetFavourites(candidate)
	return candidate, nil
}

// Contains reports whether id is currently favourited.
func (l *Ledger) Contains(id int64) bool {
	return l.state.Favourites().Contains(id)
}
