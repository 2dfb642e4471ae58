package syncer

import (
	"context"
	"log"
	"time"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/catalog"
)

// CategoriesResult is the outcome of one categories synchronization. Status
// is never failed: the sentinel-only list is always renderable.
type CategoriesResult struct {
	Categories catalog.CategoryList
	Status     catalog.SyncStatus
	FromCache  bool
	Skipped    bool
}

// SynchronizeCategories refreshes the category list, prepending the
// sentinel to live results.
func (s *Synchronizer) SynchronizeCategories(ctx context.Context, force bool) CategoriesResult {
	now := s.now()
	if !force {
		snap := s.state.Snapshot()
		if snap.CategoriesStatus == catalog.StatusSucceeded && s.fresh(snap.CategoriesLastLive, now) {
			return CategoriesResult{
				Categories: snap.Categories,
				Status:     catalog.StatusSucceeded,
				FromCache:  snap.CategoriesFromCache,
				Skipped:    true,
			}
		}
	}

	s.state.BeginCategories()

	if !s.oracle.Reachable(ctx) {
		return s.commitCategoriesFallback(ctx)
	}

	fetchCtx, cancel := s.fetchContext(ctx)
	fetched, err := s.fetcher.FetchCategories(fetchCtx)
	cancel()
	if err != nil {
		log.Printf("syncer: categories fetch failed, trying cache: %v", err)
		return s.commitCategoriesFallback(ctx)
	}

	list := catalog.WithSentinel(fetched)
	saveCtx, cancelSave := cacheContext(ctx)
	defer cancelSave()
	if err := cache.SaveCategories(saveCtx, s.cache, list); err != nil {
		log.Printf("syncer: persist categories: %v", err)
	}
	s.state.CompleteCategories(list, false, now)
	return CategoriesResult{Categories: list.Clone(), Status: catalog.StatusSucceeded}
}

func (s *Synchronizer) commitCategoriesFallback(ctx context.Context) CategoriesResult {
	loadCtx, cancel := cacheContext(ctx)
	defer cancel()
	list, err := cache.LoadCategories(loadCtx, s.cache)
	fromCache := err == nil && len(list) > 0
	if !fromCache {
		list = catalog.DefaultCategories()
	}
	s.state.CompleteCategories(list, fromCache, time.Time{})
	return CategoriesResult{Categories: list.Clone(), Status: catalog.StatusSucceeded, FromCache: fromCache}
}
