package state

import (
	"sync"
	"time"

	"github.com/five82/shelf/internal/catalog"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Products       []catalog.Product
	ProductsStatus catalog.SyncStatus
	ProductsError  error
	IsOfflineData  bool
	CachedAt       time.Time // timestamp of the displayed product payload
	LastFetched    time.Time // last successful live products fetch

	Categories          catalog.CategoryList
	CategoriesStatus    catalog.SyncStatus
	CategoriesFromCache bool
	CategoriesLastLive  time.Time

	Favourites       catalog.FavouriteSet
	FavouritesStatus catalog.SyncStatus
	FavouritesError  error

	Version uint64
}

// NeedsRetry reports the state in which the UI offers only a retry action.
func (s Snapshot) NeedsRetry() bool {
	return s.ProductsStatus == catalog.StatusFailed && len(s.Products) == 0
}

// ProductsOutcome is what a products synchronization commits.
type ProductsOutcome struct {
	Items         []catalog.Product
	IsOfflineData bool
	CachedAt      time.Time
	FetchedAt     time.Time // zero unless the items came from a live fetch
}

// Store coordinates concurrent updates to the snapshot. The zero value is
// ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	changes  chan struct{}
}

// Changes returns a channel that receives a signal after every mutation.
// Signals coalesce; readers should call Snapshot when woken.
func (s *Store) Changes() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.changesLocked()
}

func (s *Store) changesLocked() chan struct{} {
	if s.changes == nil {
		s.changes = make(chan struct{}, 1)
	}
	return s.changes
}

// commit must be called with mu held.
func (s *Store) commit() {
	s.snapshot.Version++
	select {
	case s.changesLocked() <- struct{}{}:
	default:
	}
}

// BeginProducts marks products as loading. Displayed items are kept.
func (s *Store) BeginProducts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.ProductsStatus = catalog.StatusLoading
	s.commit()
}

// CompleteProducts replaces the displayed products with a successful outcome.
func (s *Store) CompleteProducts(out ProductsOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Products = catalog.CloneProducts(out.Items)
	s.snapshot.IsOfflineData = out.IsOfflineData
	s.snapshot.CachedAt = out.CachedAt
	if !out.FetchedAt.IsZero() {
		s.snapshot.LastFetched = out.FetchedAt
	}
	s.snapshot.ProductsStatus = catalog.StatusSucceeded
	s.snapshot.ProductsError = nil
	s.commit()
}

// FailProducts records err. Previously displayed data is kept.
func (s *Store) FailProducts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.ProductsStatus = catalog.StatusFailed
	s.snapshot.ProductsError = err
	s.commit()
}

// BeginCategories marks categories as loading.
func (s *Store) BeginCategories() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.CategoriesStatus = catalog.StatusLoading
	s.commit()
}

// CompleteCategories replaces the category list. liveAt is zero for lists
// that did not come from a live fetch.
func (s *Store) CompleteCategories(list catalog.CategoryList, fromCache bool, liveAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Categories = list.Clone()
	s.snapshot.CategoriesFromCache = fromCache
	if !liveAt.IsZero() {
		s.snapshot.CategoriesLastLive = liveAt
	}
	s.snapshot.CategoriesStatus = catalog.StatusSucceeded
	s.commit()
}

// SetFavourites replaces the in-memory favourites.
func (s *Store) SetFavourites(set catalog.FavouriteSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Favourites = set
	s.snapshot.FavouritesStatus = catalog.StatusSucceeded
	s.snapshot.FavouritesError = nil
	s.commit()
}

// FailFavourites records a favourites error without touching the set.
func (s *Store) FailFavourites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.FavouritesStatus = catalog.StatusFailed
	s.snapshot.FavouritesError = err
	s.commit()
}

// Favourites returns the current favourites set.
func (s *Store) Favourites() catalog.FavouriteSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Favourites
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Products = catalog.CloneProducts(s.snapshot.Products)
	snap.Categories = s.snapshot.Categories.Clone()
	if len(snap.Categories) == 0 {
		snap.Categories = catalog.DefaultCategories()
	}
	return snap
}
