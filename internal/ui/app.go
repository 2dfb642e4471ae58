package ui

import (
	"context"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/syncer"
)

// Synchronizer is the part of the resource synchronizer the UI drives.
type Synchronizer interface {
	Refresh(ctx context.Context, force bool) syncer.RefreshResult
	Retry(ctx context.Context) syncer.ProductsResult
}

// FavouriteToggler persists favourite toggles.
type FavouriteToggler interface {
	Toggle(ctx context.Context, id int64) (catalog.FavouriteSet, error)
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Store      *state.Store
	Sync       Synchronizer
	Favourites FavouriteToggler
	ThemeName  string
	Category   string
	PrefsPath  string
	LogPath    string
	Now        func() time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	sync      Synchronizer
	favs      FavouriteToggler
	prefsPath string
	logPath   string
	now       func() time.Time

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Browse state
	cursor         int
	category       string
	query          string
	favouritesOnly bool

	// Search input
	search    textinput.Model
	searching bool

	// Detail pane
	detail        viewport.Model
	detailFocused bool

	// Log view
	logViewport viewport.Model
	logEntries  []logtail.Entry
	logErr      error
	showLogs    bool

	// Help overlay
	help     help.Model
	showHelp bool

	// Pending actions and transient feedback
	busy     bool
	notice   string
	noticeAt time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	category := opts.Category
	if category == "" {
		category = catalog.SentinelCategory
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search titles"
	search.CharLimit = 64

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		sync:      opts.Sync,
		favs:      opts.Favourites,
		prefsPath: opts.PrefsPath,
		logPath:   opts.LogPath,
		now:       now,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		category:  category,
		search:    search,
		help:      help.New(),
	}
	if m.store != nil {
		m.applySnapshot(m.store.Snapshot())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(DefaultUIInterval)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store), watchCmd(m.ctx, m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.detail = viewport.New(0, 0)
			m.logViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.help.Width = msg.Width
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		if m.notice != "" && m.now().Sub(m.noticeAt) > NoticeTTL {
			m.notice = ""
		}
		var cmds []tea.Cmd
		cmds = append(cmds, tickCmd(DefaultUIInterval))
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.showLogs && m.logPath != "" {
			cmds = append(cmds, readLogCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case logLinesMsg:
		m.logEntries = msg.entries
		m.logErr = msg.err
		m.updateLogViewport()
		return m, nil

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case changeMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, watchCmd(m.ctx, m.store)

	case refreshDoneMsg:
		m.busy = false
		m.handleProductsResult(msg.result.Products)
		return m, m.snapshotCmd()

	case retryDoneMsg:
		m.busy = false
		m.handleProductsResult(msg.result)
		return m, m.snapshotCmd()

	case favouriteDoneMsg:
		if msg.err != nil {
			m.setNotice("Could not save favourite")
			log.Printf("toggle favourite %d: %v", msg.id, msg.err)
		}
		m.snapshot.Favourites = msg.set
		m.updateDetailViewport()
		return m, m.snapshotCmd()
	}

	if m.searching {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}
	if m.detailFocused {
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.query != "" {
			m.query = ""
			m.search.SetValue("")
			m.cursor = 0
			m.updateDetailViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.NextCategory):
		m.setCategory(cycleCategory(m.snapshot.Categories, m.category, 1))
		return m, nil

	case key.Matches(msg, m.keys.PrevCategory):
		m.setCategory(cycleCategory(m.snapshot.Categories, m.category, -1))
		return m, nil

	case key.Matches(msg, m.keys.FavouritesOnly):
		m.favouritesOnly = !m.favouritesOnly
		m.cursor = 0
		m.updateDetailViewport()
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.selectedProduct(); ok {
			m.detailFocused = true
			m.updateDetailViewport()
			m.detail.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Favourite):
		return m, m.toggleFavourite()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.startRefresh()

	case key.Matches(msg, m.keys.Retry):
		return m, m.startRetry()

	case key.Matches(msg, m.keys.Logs):
		m.showLogs = true
		m.updateLogViewport()
		if m.logPath == "" {
			return m, nil
		}
		return m, readLogCmd(m.logPath)
	}

	m.moveCursor(msg)
	return m, nil
}

// handleLogsKey scrolls the log view; l, esc or q close it.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit):
		m.showLogs = false
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

// handleSearchKey routes keys to the search input. The filter follows the
// input live; enter keeps it and esc restores the previous query.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue(m.query)
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		m.query = m.search.Value()
		m.cursor = 0
		m.updateDetailViewport()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// handleDetailKey scrolls the focused detail pane.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Detail), key.Matches(msg, m.keys.Quit):
		m.detailFocused = false
		return m, nil
	case key.Matches(msg, m.keys.Favourite):
		return m, m.toggleFavourite()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) moveCursor(msg tea.KeyMsg) {
	n := len(m.visible())
	page := max(m.listRows()-1, 1)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = n - 1
	case key.Matches(msg, m.keys.PageUp):
		m.cursor -= page
	case key.Matches(msg, m.keys.PageDown):
		m.cursor += page
	default:
		return
	}
	m.cursor = clampIndex(m.cursor, n)
	m.updateDetailViewport()
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.lastUpdated = m.now()
	if snap.CategoriesStatus == catalog.StatusSucceeded && !hasCategory(snap.Categories, m.category) {
		m.category = catalog.SentinelCategory
	}
	m.cursor = clampIndex(m.cursor, len(m.visible()))
	m.updateDetailViewport()
}

func (m *Model) handleProductsResult(res syncer.ProductsResult) {
	switch {
	case res.Status == catalog.StatusFailed:
		m.setNotice("Refresh failed")
	case res.IsOfflineData:
		m.setNotice("Offline: showing cached products")
	case res.Skipped:
	default:
		m.setNotice("Products updated")
	}
}

func (m *Model) setCategory(category string) {
	if category == m.category {
		return
	}
	m.category = category
	m.cursor = 0
	m.savePrefs()
	m.updateDetailViewport()
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeAt = m.now()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, Category: m.category}); err != nil {
		log.Printf("save prefs: %v", err)
	}
}

// visible returns the products after search, category and favourites filters.
func (m Model) visible() []catalog.Product {
	return visibleProducts(m.snapshot.Products, m.query, m.category, m.snapshot.Favourites, m.favouritesOnly)
}

func (m Model) selectedProduct() (catalog.Product, bool) {
	items := m.visible()
	if len(items) == 0 {
		return catalog.Product{}, false
	}
	return items[clampIndex(m.cursor, len(items))], true
}

func (m *Model) toggleFavourite() tea.Cmd {
	p, ok := m.selectedProduct()
	if !ok || m.favs == nil {
		return nil
	}
	return toggleFavouriteCmd(m.ctx, m.favs, p.ID)
}

func (m *Model) startRefresh() tea.Cmd {
	if m.busy || m.sync == nil {
		return nil
	}
	m.busy = true
	return refreshCmd(m.ctx, m.sync)
}

func (m *Model) startRetry() tea.Cmd {
	if m.busy || m.sync == nil {
		return nil
	}
	m.busy = true
	return retryCmd(m.ctx, m.sync)
}

func (m Model) snapshotCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	return fetchSnapshotCmd(m.store)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("ui requires a state store")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return errors.Wrap(err, "run ui")
	}
	return nil
}
