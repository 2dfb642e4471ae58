package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/logtail"
	"github.com/five82/shelf/internal/state"
	"github.com/five82/shelf/internal/syncer"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// changeMsg carries a snapshot taken after a state store mutation.
type changeMsg state.Snapshot

type refreshDoneMsg struct {
	result syncer.RefreshResult
}

type retryDoneMsg struct {
	result syncer.ProductsResult
}

type favouriteDoneMsg struct {
	id  int64
	set catalog.FavouriteSet
	err error
}

type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// watchCmd blocks until the store changes. The model re-arms it after every
// changeMsg.
func watchCmd(ctx context.Context, store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	changes := store.Changes()
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			return changeMsg(store.Snapshot())
		}
	}
}

func refreshCmd(ctx context.Context, sync Synchronizer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		return refreshDoneMsg{result: sync.Refresh(ctx, true)}
	}
}

func retryCmd(ctx context.Context, sync Synchronizer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		return retryDoneMsg{result: sync.Retry(ctx)}
	}
}

func toggleFavouriteCmd(ctx context.Context, favs FavouriteToggler, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		set, err := favs.Toggle(ctx, id)
		return favouriteDoneMsg{id: id, set: set, err: err}
	}
}

func readLogCmd(path string) tea.Cmd {
	return func() tea.Msg {
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{entries: logtail.ParseLines(lines, logPrefix), err: err}
	}
}
