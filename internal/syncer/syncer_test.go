package syncer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/fakestore"
	"github.com/five82/shelf/internal/netcheck"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/storeapi"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFetcher struct {
	mu            sync.Mutex
	products      []catalog.Product
	categories    []string
	productErr    error
	categoryErr   error
	hang          bool
	productCalls  int
	categoryCalls int
	lastLimit     int
}

func (f *stubFetcher) FetchProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	f.mu.Lock()
	f.productCalls++
	f.lastLimit = limit
	hang, err, items := f.hang, f.productErr, catalog.CloneProducts(f.products)
	f.mu.Unlock()
	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (f *stubFetcher) FetchCategories(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.categoryCalls++
	hang, err, cats := f.hang, f.categoryErr, append([]string(nil), f.categories...)
	f.mu.Unlock()
	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func (f *stubFetcher) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productCalls, f.categoryCalls
}

type flakyStore struct {
	*cache.MemoryStore
	failSet bool
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	if s.failSet {
		return catalog.ErrPersistenceFailure
	}
	return s.MemoryStore.Set(ctx, key, value)
}

// cancellingStore cancels the caller's context just before a write lands.
type cancellingStore struct {
	*cache.MemoryStore
	cancel context.CancelFunc
}

func (s *cancellingStore) Set(ctx context.Context, key string, value []byte) error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.MemoryStore.Set(ctx, key, value)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func threeProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95"), Category: "men's clothing"},
		{ID: 5, Title: "Bracelet", Price: decimal.RequireFromString("695"), Category: "jewelery"},
		{ID: 9, Title: "Hard Drive", Price: decimal.RequireFromString("64.10"), Category: "electronics"},
	}
}

type harness struct {
	sync    *Synchronizer
	fetcher *stubFetcher
	store   cache.Store
	state   *state.Store
	online  *bool
	clock   *fakeClock
}

func newHarness(t *testing.T, store cache.Store) *harness {
	t.Helper()
	if store == nil {
		store = cache.NewMemoryStore()
	}
	online := true
	h := &harness{
		fetcher: &stubFetcher{products: threeProducts(), categories: []string{"electronics", "jewelery"}},
		store:   store,
		state:   &state.Store{},
		online:  &online,
		clock:   &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
	}
	s, err := New(Options{
		Cache:        store,
		Oracle:       netcheck.Func(func(context.Context) bool { return *h.online }),
		Fetcher:      h.fetcher,
		State:        h.state,
		FetchTimeout: 50 * time.Millisecond,
		Now:          h.clock.Now,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.sync = s
	return h
}

func assertSameProducts(t *testing.T, got, want []catalog.Product) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("products len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("product[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("New(empty) returned nil error")
	}
}

func TestProducts_FreshInstallOnline(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	res := h.sync.Refresh(ctx, false)

	if res.Products.Status != catalog.StatusSucceeded || res.Products.Err != nil {
		t.Fatalf("products status = %v err = %v, want succeeded", res.Products.Status, res.Products.Err)
	}
	if len(res.Products.Items) != 3 || res.Products.IsOfflineData {
		t.Fatalf("items = %d offline = %v, want 3/false", len(res.Products.Items), res.Products.IsOfflineData)
	}
	if !res.Products.CachedAt.Equal(h.clock.Now()) {
		t.Fatalf("CachedAt = %v, want %v", res.Products.CachedAt, h.clock.Now())
	}
	wantCats := catalog.CategoryList{"all", "electronics", "jewelery"}
	if !reflect.DeepEqual(res.Categories.Categories, wantCats) {
		t.Fatalf("categories = %v, want %v", res.Categories.Categories, wantCats)
	}

	// The cache holds exactly what was fetched.
	cached, err := cache.LoadProducts(ctx, h.store)
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}
	assertSameProducts(t, cached.Data, threeProducts())
	cachedCats, err := cache.LoadCategories(ctx, h.store)
	if err != nil || !reflect.DeepEqual(cachedCats, wantCats) {
		t.Fatalf("cached categories = %v (%v), want %v", cachedCats, err, wantCats)
	}

	snap := h.state.Snapshot()
	if snap.IsOfflineData || len(snap.Products) != 3 || !reflect.DeepEqual(snap.Categories, wantCats) {
		t.Fatalf("snapshot not committed: %#v", snap)
	}
	if h.fetcher.lastLimit != catalog.DefaultProductLimit {
		t.Fatalf("limit = %d, want %d", h.fetcher.lastLimit, catalog.DefaultProductLimit)
	}
}

func TestProducts_OfflineServesCache(t *testing.T) {
	store := cache.NewMemoryStore()
	first := newHarness(t, store)
	first.sync.SynchronizeProducts(context.Background(), false)

	// A new process: empty memory, same cache, no network.
	h := newHarness(t, store)
	*h.online = false
	h.clock.Advance(time.Hour)

	res := h.sync.SynchronizeProducts(context.Background(), false)

	if res.Status != catalog.StatusSucceeded || res.Err != nil {
		t.Fatalf("status = %v err = %v, want succeeded", res.Status, res.Err)
	}
	if !res.IsOfflineData {
		t.Fatalf("IsOfflineData = false, want true")
	}
	assertSameProducts(t, res.Items, threeProducts())
	if !res.CachedAt.Equal(first.clock.Now()) {
		t.Fatalf("CachedAt = %v, want original fetch time %v", res.CachedAt, first.clock.Now())
	}
	if pc, _ := h.fetcher.calls(); pc != 0 {
		t.Fatalf("fetcher called %d times while offline", pc)
	}
	if !h.state.Snapshot().IsOfflineData {
		t.Fatalf("snapshot IsOfflineData = false, want true")
	}
}

func TestProducts_OfflineWithoutCacheFails(t *testing.T) {
	h := newHarness(t, nil)
	*h.online = false

	res := h.sync.SynchronizeProducts(context.Background(), false)

	if res.Status != catalog.StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if res.Err == nil || res.Err.Error() != "no connectivity and no cache" {
		t.Fatalf("err = %v, want no connectivity and no cache", res.Err)
	}
	if !errors.Is(res.Err, catalog.ErrConnectivityUnavailable) || !errors.Is(res.Err, catalog.ErrCacheMiss) {
		t.Fatalf("err = %v, want connectivity + cache miss", res.Err)
	}
	if !h.state.Snapshot().NeedsRetry() {
		t.Fatalf("snapshot should be in retry state")
	}
}

func TestProducts_FetchTimeoutWithoutCache(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.hang = true

	started := time.Now()
	res := h.sync.SynchronizeProducts(context.Background(), false)
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("synchronize took %v, want it bounded by the fetch timeout", elapsed)
	}

	if res.Status != catalog.StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	if len(res.Items) != 0 {
		t.Fatalf("items = %v, want empty", res.Items)
	}
	if res.Err == nil || res.Err.Error() != "fetch failed and no cache" {
		t.Fatalf("err = %v, want fetch failed and no cache", res.Err)
	}
	if !errors.Is(res.Err, catalog.ErrFetchFailure) {
		t.Fatalf("err = %v, want it to match ErrFetchFailure", res.Err)
	}
}

func TestProducts_CallerDeadlineFallsBackToCache(t *testing.T) {
	backends := map[string]func(t *testing.T) cache.Store{
		"memory": func(*testing.T) cache.Store { return cache.NewMemoryStore() },
		"file": func(t *testing.T) cache.Store {
			store, err := cache.NewFileStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewFileStore: %v", err)
			}
			return store
		},
		"sqlite": func(t *testing.T) cache.Store {
			store, err := cache.NewSQLiteStore(t.TempDir())
			if err != nil {
				t.Fatalf("NewSQLiteStore: %v", err)
			}
			t.Cleanup(func() { _ = store.Close() })
			return store
		},
	}
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			store := open(t)
			seed := newHarness(t, store)
			seed.sync.Refresh(context.Background(), false)

			h := newHarness(t, store)
			h.fetcher.hang = true
			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()

			res := h.sync.SynchronizeProducts(ctx, true)
			if res.Status != catalog.StatusSucceeded || res.Err != nil || !res.IsOfflineData {
				t.Fatalf("status = %v offline = %v err = %v, want cached fallback", res.Status, res.IsOfflineData, res.Err)
			}
			assertSameProducts(t, res.Items, threeProducts())

			cats := h.sync.SynchronizeCategories(ctx, true)
			want := catalog.CategoryList{"all", "electronics", "jewelery"}
			if !cats.FromCache || !reflect.DeepEqual(cats.Categories, want) {
				t.Fatalf("categories = %#v, want cached %v", cats, want)
			}
		})
	}
}

func TestProducts_CancelledCallerStillPersistsLiveData(t *testing.T) {
	h := newHarness(t, &cancellingStore{MemoryStore: cache.NewMemoryStore()})
	ctx, cancel := context.WithCancel(context.Background())
	h.store.(*cancellingStore).cancel = cancel

	res := h.sync.SynchronizeProducts(ctx, false)
	if res.Status != catalog.StatusSucceeded || res.IsOfflineData {
		t.Fatalf("status = %v offline = %v, want live", res.Status, res.IsOfflineData)
	}
	cached, err := cache.LoadProducts(context.Background(), h.store)
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}
	assertSameProducts(t, cached.Data, threeProducts())
}

func TestProducts_FetchFailureKeepsCacheEntry(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()
	h.sync.SynchronizeProducts(ctx, false)
	before, err := cache.LoadProducts(ctx, h.store)
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}

	h.clock.Advance(10 * time.Minute)
	h.fetcher.productErr = errors.New("connection reset")
	res := h.sync.SynchronizeProducts(ctx, false)

	if res.Status != catalog.StatusSucceeded || !res.IsOfflineData {
		t.Fatalf("status = %v offline = %v, want succeeded/true", res.Status, res.IsOfflineData)
	}
	if !res.CachedAt.Equal(before.CachedAt) {
		t.Fatalf("CachedAt = %v, want unchanged %v", res.CachedAt, before.CachedAt)
	}
	after, err := cache.LoadProducts(ctx, h.store)
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}
	if !after.CachedAt.Equal(before.CachedAt) {
		t.Fatalf("cache rewritten on fallback: %v -> %v", before.CachedAt, after.CachedAt)
	}
}

func TestProducts_FreshnessWindowSkipsNetwork(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	first := h.sync.SynchronizeProducts(ctx, false)
	h.clock.Advance(time.Minute - time.Second)
	second := h.sync.SynchronizeProducts(ctx, false)

	if pc, _ := h.fetcher.calls(); pc != 1 {
		t.Fatalf("fetcher calls = %d, want 1", pc)
	}
	if !second.Skipped {
		t.Fatalf("second call Skipped = false, want true")
	}
	assertSameProducts(t, second.Items, first.Items)
	if second.IsOfflineData != first.IsOfflineData || !second.CachedAt.Equal(first.CachedAt) || second.Status != first.Status {
		t.Fatalf("second result %#v differs from first %#v", second, first)
	}
}

func TestProducts_FreshnessWindowExpiryAndForce(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.sync.SynchronizeProducts(ctx, false)
	if res := h.sync.SynchronizeProducts(ctx, true); res.Skipped {
		t.Fatalf("forced call was skipped")
	}
	h.clock.Advance(DefaultFreshnessWindow)
	if res := h.sync.SynchronizeProducts(ctx, false); res.Skipped {
		t.Fatalf("call after window expiry was skipped")
	}
	if pc, _ := h.fetcher.calls(); pc != 3 {
		t.Fatalf("fetcher calls = %d, want 3", pc)
	}
}

func TestProducts_CacheFallbackDoesNotStartFreshnessWindow(t *testing.T) {
	store := cache.NewMemoryStore()
	seed := newHarness(t, store)
	seed.sync.SynchronizeProducts(context.Background(), false)

	h := newHarness(t, store)
	*h.online = false
	h.sync.SynchronizeProducts(context.Background(), false)

	*h.online = true
	res := h.sync.SynchronizeProducts(context.Background(), false)
	if res.Skipped || res.IsOfflineData {
		t.Fatalf("skipped = %v offline = %v, want a live fetch after coming online", res.Skipped, res.IsOfflineData)
	}
}

func TestProducts_PersistenceFailureStillServesLiveData(t *testing.T) {
	store := &flakyStore{MemoryStore: cache.NewMemoryStore()}
	h := newHarness(t, store)
	ctx := context.Background()

	h.sync.SynchronizeProducts(ctx, false)
	before, _ := cache.LoadProducts(ctx, store)

	store.failSet = true
	h.fetcher.products = threeProducts()[:1]
	res := h.sync.SynchronizeProducts(ctx, true)
	if res.Status != catalog.StatusSucceeded || res.IsOfflineData || len(res.Items) != 1 {
		t.Fatalf("res = %#v, want live single product", res)
	}

	after, err := cache.LoadProducts(ctx, store)
	if err != nil {
		t.Fatalf("LoadProducts: %v", err)
	}
	assertSameProducts(t, after.Data, before.Data)
}

func TestProducts_FailureKeepsDisplayedProducts(t *testing.T) {
	store := &flakyStore{MemoryStore: cache.NewMemoryStore(), failSet: true}
	h := newHarness(t, store)
	ctx := context.Background()

	h.sync.SynchronizeProducts(ctx, false)
	*h.online = false
	res := h.sync.SynchronizeProducts(ctx, true)
	if res.Status != catalog.StatusFailed {
		t.Fatalf("status = %v, want failed (nothing was cached)", res.Status)
	}

	snap := h.state.Snapshot()
	if len(snap.Products) != 3 || snap.ProductsStatus != catalog.StatusFailed {
		t.Fatalf("snapshot = %d items status %v, want previous items kept", len(snap.Products), snap.ProductsStatus)
	}
	if snap.NeedsRetry() {
		t.Fatalf("NeedsRetry = true while items are displayed")
	}
}

func TestRetry_ForcesFetch(t *testing.T) {
	h := newHarness(t, nil)
	h.fetcher.productErr = errors.New("boom")
	if res := h.sync.SynchronizeProducts(context.Background(), false); res.Status != catalog.StatusFailed {
		t.Fatalf("status = %v, want failed", res.Status)
	}
	h.fetcher.productErr = nil
	if res := h.sync.Retry(context.Background()); res.Status != catalog.StatusSucceeded || len(res.Items) != 3 {
		t.Fatalf("Retry = %#v, want 3 live products", res)
	}
}

func TestCategories_NeverFail(t *testing.T) {
	ctx := context.Background()

	t.Run("offline no cache", func(t *testing.T) {
		h := newHarness(t, nil)
		*h.online = false
		res := h.sync.SynchronizeCategories(ctx, false)
		if res.Status != catalog.StatusSucceeded || !reflect.DeepEqual(res.Categories, catalog.DefaultCategories()) || res.FromCache {
			t.Fatalf("res = %#v, want [all] succeeded", res)
		}
	})

	t.Run("fetch error no cache", func(t *testing.T) {
		h := newHarness(t, nil)
		h.fetcher.categoryErr = errors.New("503")
		res := h.sync.SynchronizeCategories(ctx, false)
		if res.Status != catalog.StatusSucceeded || !reflect.DeepEqual(res.Categories, catalog.DefaultCategories()) {
			t.Fatalf("res = %#v, want [all] succeeded", res)
		}
	})

	t.Run("fetch timeout with cache", func(t *testing.T) {
		store := cache.NewMemoryStore()
		seed := newHarness(t, store)
		seed.sync.SynchronizeCategories(ctx, false)

		h := newHarness(t, store)
		h.fetcher.hang = true
		res := h.sync.SynchronizeCategories(ctx, false)
		want := catalog.CategoryList{"all", "electronics", "jewelery"}
		if res.Status != catalog.StatusSucceeded || !res.FromCache || !reflect.DeepEqual(res.Categories, want) {
			t.Fatalf("res = %#v, want cached %v", res, want)
		}
	})

	t.Run("empty cached list", func(t *testing.T) {
		store := cache.NewMemoryStore()
		if err := cache.SaveCategories(ctx, store, catalog.CategoryList{}); err != nil {
			t.Fatalf("SaveCategories: %v", err)
		}
		h := newHarness(t, store)
		*h.online = false
		res := h.sync.SynchronizeCategories(ctx, false)
		if !reflect.DeepEqual(res.Categories, catalog.DefaultCategories()) {
			t.Fatalf("categories = %v, want [all]", res.Categories)
		}
	})
}

func TestCategories_FreshnessWindow(t *testing.T) {
	h := newHarness(t, nil)
	ctx := context.Background()

	h.sync.SynchronizeCategories(ctx, false)
	if res := h.sync.SynchronizeCategories(ctx, false); !res.Skipped {
		t.Fatalf("second categories call was not skipped")
	}
	if res := h.sync.SynchronizeCategories(ctx, true); res.Skipped {
		t.Fatalf("forced categories call was skipped")
	}
	if _, cc := h.fetcher.calls(); cc != 2 {
		t.Fatalf("category fetches = %d, want 2", cc)
	}
}

func TestEndToEnd_FakeStoreFileCache(t *testing.T) {
	fs := fakestore.NewDefault()
	server := httptest.NewServer(fs.Handler())
	t.Cleanup(server.Close)

	client, err := storeapi.NewClient(server.URL, 200*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	dir := t.TempDir()
	store, err := cache.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	probe, err := netcheck.NewProbe(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewProbe: %v", err)
	}

	ctx := context.Background()
	s, err := New(Options{Cache: store, Oracle: probe, Fetcher: client, State: &state.Store{}, Limit: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res := s.Refresh(ctx, false)
	if len(res.Products.Items) != 4 || res.Products.IsOfflineData {
		t.Fatalf("products = %d offline = %v, want 4 live", len(res.Products.Items), res.Products.IsOfflineData)
	}
	if len(res.Categories.Categories) != 5 || res.Categories.Categories[0] != catalog.SentinelCategory {
		t.Fatalf("categories = %v, want sentinel + 4", res.Categories.Categories)
	}

	// Server up but failing: a restarted process falls back to the file cache.
	fs.SetFailStatus(http.StatusBadGateway)
	restarted, err := New(Options{Cache: store, Oracle: probe, Fetcher: client, State: &state.Store{}, Limit: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res = restarted.Refresh(ctx, false)
	if !res.Products.IsOfflineData || res.Products.Status != catalog.StatusSucceeded {
		t.Fatalf("products = %#v, want cached fallback", res.Products)
	}
	assertSameProducts(t, res.Products.Items, fakestore.FixtureProducts()[:4])
	if !res.Categories.FromCache {
		t.Fatalf("categories FromCache = false, want true")
	}
}
