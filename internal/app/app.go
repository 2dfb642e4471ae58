package app

import (
	"context"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/cache"
	"github.com/five82/shelf/internal/config"
	"github.com/five82/shelf/internal/favourites"
	"github.com/five82/shelf/internal/netcheck"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/storeapi"
	"github.com/five82/shelf/internal/syncer"
	"github.com/five82/shelf/internal/ui"
)

// Options configure the shelf application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/shelf/prefs.toml
	Offline    bool   // treat the network as unreachable
	PollEvery  int    // seconds; zero uses the configured poll_interval
}

// Run boots the shelf TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return errors.Wrap(err, "create data dir")
	}
	logFile, err := tea.LogToFile(cfg.LogPath(), "shelf")
	if err != nil {
		return errors.Wrap(err, "open log file")
	}
	defer func() { _ = logFile.Close() }()

	userPrefs := prefs.Load(opts.PrefsPath)

	env, err := build(cfg, opts.Offline)
	if err != nil {
		return err
	}
	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	ctx, stop := startBackground(ctx, env, interval)
	defer stop()

	return ui.Run(ui.Options{
		Context:    ctx,
		Store:      env.state,
		Sync:       env.sync,
		Favourites: env.ledger,
		ThemeName:  userPrefs.Theme,
		Category:   userPrefs.Category,
		PrefsPath:  opts.PrefsPath,
		LogPath:    cfg.LogPath(),
	})
}

// environment holds the wired components shared by the refresher and the UI.
type environment struct {
	cache  cache.Store
	state  *state.Store
	sync   *syncer.Synchronizer
	ledger *favourites.Ledger
}

func build(cfg config.Config, offline bool) (*environment, error) {
	store, err := cache.Open(cfg.CacheBackend, cfg.CacheDir())
	if err != nil {
		return nil, errors.Wrap(err, "open cache")
	}

	client, err := storeapi.NewClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "init store api client")
	}

	var oracle netcheck.Oracle = netcheck.Static(false)
	if !offline {
		probe, err := netcheck.NewProbe(cfg.APIURL, cfg.ProbeTimeout)
		if err != nil {
			_ = store.Close()
			return nil, errors.Wrap(err, "init connectivity probe")
		}
		oracle = probe
	}

	st := &state.Store{}
	sync, err := syncer.New(syncer.Options{
		Cache:           store,
		Oracle:          oracle,
		Fetcher:         client,
		State:           st,
		Limit:           cfg.ProductLimit,
		FreshnessWindow: cfg.FreshnessWindow,
		FetchTimeout:    cfg.RequestTimeout,
	})
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "init synchronizer")
	}

	ledger, err := favourites.New(store, st)
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "init favourites")
	}

	return &environment{cache: store, state: st, sync: sync, ledger: ledger}, nil
}

// startBackground runs startup and the refresher until stop is called. stop
// cancels the background work, waits for it to return and then closes the
// cache, so no sync touches a closed store.
func startBackground(parent context.Context, env *environment, interval time.Duration) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		startup(ctx, env)
		<-StartRefresher(ctx, env.sync, interval)
	}()
	return ctx, func() {
		cancel()
		<-done
		if err := env.cache.Close(); err != nil {
			log.Printf("close cache: %v", err)
		}
	}
}

// startup loads favourites, then categories, then products. Failures are
// already committed to the state store; they are only logged here.
func startup(ctx context.Context, env *environment) {
	if _, err := env.ledger.Load(ctx); err != nil {
		log.Printf("load favourites: %v", err)
	}
	cats := env.sync.SynchronizeCategories(ctx, false)
	products := env.sync.SynchronizeProducts(ctx, false)
	log.Printf("startup: %d categories (cached=%v), %d products (offline=%v, status=%s)",
		len(cats.Categories), cats.FromCache, len(products.Items), products.IsOfflineData, products.Status)
}
