package syncer

import (
	"context"
	"log"
	"time"

	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/state"
)

const (
	msgOfflineNoCache = "no connectivity and no cache"
	msgFetchNoCache   = "fetch failed and no cache"
)

// ProductsResult is the outcome of one products synchronization.
type ProductsResult struct {
	Items         []catalog.Product
	IsOfflineData bool
	Status        catalog.SyncStatus
	Err           error
	CachedAt      time.Time
	// Skipped is set when the freshness window turned the call into a no-op.
	Skipped bool
	// fetchedAt is non-zero only for live fetches.
	fetchedAt time.Time
}

// SynchronizeProducts refreshes the product list. Unless force is set, a
// call within the freshness window of the last live fetch returns the
// in-memory state without touching the network or the cache.
func (s *Synchronizer) SynchronizeProducts(ctx context.Context, force bool) ProductsResult {
	now := s.now()
	if !force {
		snap := s.state.Snapshot()
		if snap.ProductsStatus == catalog.StatusSucceeded && s.fresh(snap.LastFetched, now) {
			return ProductsResult{
				Items:         snap.Products,
				IsOfflineData: snap.IsOfflineData,
				Status:        snap.ProductsStatus,
				CachedAt:      snap.CachedAt,
				Skipped:       true,
			}
		}
	}

	s.state.BeginProducts()
	res := s.resolveProducts(ctx, now)
	if res.Status == catalog.StatusFailed {
		s.state.FailProducts(res.Err)
		return res
	}
	s.state.CompleteProducts(state.ProductsOutcome{
		Items:         res.Items,
		IsOfflineData: res.IsOfflineData,
		CachedAt:      res.CachedAt,
		FetchedAt:     res.fetchedAt,
	})
	return res
}

func (s *Synchronizer) resolveProducts(ctx context.Context, now time.Time) ProductsResult {
	if !s.oracle.Reachable(ctx) {
		return s.productsFromCache(ctx, catalog.ErrConnectivityUnavailable, msgOfflineNoCache)
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	items, err := s.fetcher.FetchProducts(fetchCtx, s.limit)
	cancel()
	if err != nil {
		log.Printf("syncer: products fetch failed, trying cache: %v", err)
		return s.productsFromCache(ctx, asFetchFailure(err), msgFetchNoCache)
	}

	coll := catalog.NewProductCollection(items, now)
	saveCtx, cancelSave := cacheContext(ctx)
	defer cancelSave()
	if err := cache.SaveProducts(saveCtx, s.cache, coll); err != nil {
		// The live data is still good; the cache keeps its previous entry.
		log.Printf("syncer: persist products: %v", err)
	}
	return ProductsResult{
		Items:     coll.Data,
		Status:    catalog.StatusSucceeded,
		CachedAt:  coll.CachedAt,
		fetchedAt: coll.CachedAt,
	}
}

func (s *Synchronizer) productsFromCache(ctx context.Context, cause error, msg string) ProductsResult {
	loadCtx, cancel := cacheContext(ctx)
	defer cancel()
	coll, err := cache.LoadProducts(loadCtx, s.cache)
	if err != nil {
		var corrupt *cache.CorruptError
		if errors.As(err, &corrupt) || !errors.Is(err, catalog.ErrCacheMiss) {
			log.Printf("syncer: read products cache: %v", err)
		}
		return ProductsResult{
			Items:  []catalog.Product{},
			Status: catalog.StatusFailed,
			Err:    &catalog.SyncError{Msg: msg, Cause: cause, Cache: asCacheMiss(err)},
		}
	}
	items := coll.Data
	if items == nil {
		items = []catalog.Product{}
	}
	log.Printf("syncer: serving %d cached products from %s (%v)", len(items), coll.CachedAt.Format(time.RFC3339), cause)
	return ProductsResult{
		Items:         items,
		IsOfflineData: true,
		Status:        catalog.StatusSucceeded,
		CachedAt:      coll.CachedAt,
	}
}
