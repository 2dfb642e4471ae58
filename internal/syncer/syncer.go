package syncer

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/netcheck"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/storeapi"
)

const (
	DefaultFreshnessWindow = 5 * time.Minute
	DefaultFetchTimeout    = 10 * time.Second

	cacheTimeout = 5 * time.Second
)

// Options configure a Synchronizer. Cache, Oracle, Fetcher and State are required.
type Options struct {
	Cache           cache.Store
	Oracle          netcheck.Oracle
	Fetcher         storeapi.Fetcher
	State           *state.Store
	Limit           int
	FreshnessWindow time.Duration
	FetchTimeout    time.Duration
	Now             func() time.Time
}

// Synchronizer decides, per resource, whether to serve network or cached
// data and commits the outcome to the shared state.
type Synchronizer struct {
	cache        cache.Store
	oracle       netcheck.Oracle
	fetcher      storeapi.Fetcher
	state        *state.Store
	limit        int
	window       time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
}

// New validates opts and fills defaults.
func New(opts Options) (*Synchronizer, error) {
	switch {
	case opts.Cache == nil:
		return nil, errors.New("synchronizer requires a cache store")
	case opts.Oracle == nil:
		return nil, errors.New("synchronizer requires a connectivity oracle")
	case opts.Fetcher == nil:
		return nil, errors.New("synchronizer requires a fetcher")
	case opts.State == nil:
		return nil, errors.New("synchronizer requires a state store")
	}
	s := &Synchronizer{
		cache:        opts.Cache,
		oracle:       opts.Oracle,
		fetcher:      opts.Fetcher,
		state:        opts.State,
		limit:        opts.Limit,
		window:       opts.FreshnessWindow,
		fetchTimeout: opts.FetchTimeout,
		now:          opts.Now,
	}
	if s.limit <= 0 {
		s.limit = catalog.DefaultProductLimit
	}
	if s.window <= 0 {
		s.window = DefaultFreshnessWindow
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = DefaultFetchTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// RefreshResult bundles the outcome of a full refresh.
type RefreshResult struct {
	Categories CategoriesResult
	Products   ProductsResult
}

// Refresh synchronizes categories, then products.
func (s *Synchronizer) Refresh(ctx context.Context, force bool) RefreshResult {
	cats := s.SynchronizeCategories(ctx, force)
	products := s.SynchronizeProducts(ctx, force)
	return RefreshResult{Categories: cats, Products: products}
}

// Retry re-runs the products synchronization that a failed screen offers.
func (s *Synchronizer) Retry(ctx context.Context) ProductsResult {
	return s.SynchronizeProducts(ctx, true)
}

func (s *Synchronizer) fresh(last, now time.Time) bool {
	if last.IsZero() {
		return false
	}
	age := now.Sub(last)
	return age >= 0 && age < s.window
}

func (s *Synchronizer) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.fetchTimeout)
}

// cacheContext bounds local cache IO independently of the caller, whose
// deadline may be what made the fetch fail in the first place.
func cacheContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cacheTimeout)
}

// asFetchFailure keeps the uniform failure signal even for fetchers that do
// not wrap their errors.
func asFetchFailure(err error) error {
	if errors.Is(err, catalog.ErrFetchFailure) {
		return err
	}
	return errors.Wrapf(catalog.ErrFetchFailure, "%v", err)
}

// asCacheMiss folds unreadable cache entries into the miss category.
func asCacheMiss(err error) error {
	if errors.Is(err, catalog.ErrCacheMiss) {
		return err
	}
	return errors.Wrapf(catalog.ErrCacheMiss, "%v", err)
}
