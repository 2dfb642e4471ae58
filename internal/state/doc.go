// Package state holds the process-wide snapshot shared by the synchronizer,
// the favourites ledger and the UI.
//
// # Overview
//
// There is exactly one Store per process. It is created by the app package
// and handed by reference to every component that needs it; nothing reaches
// it through a global.
//
//	Writers:                          Reader:
//	┌──────────────────────┐          ┌──────────────────┐
//	│ syncer.Synchronizer  │          │                  │
//	│   BeginProducts      │          │                  │
//	│   CompleteProducts   │─────────→│ store.Snapshot() │
//	│   FailProducts       │ (mutex)  │       ↓          │
//	│   CompleteCategories │          │   render UI      │
//	│ favourites.Ledger    │          │                  │
//	│   SetFavourites      │          │                  │
//	└──────────────────────┘          └──────────────────┘
//
// # Thread Safety
//
// All methods take the store's RWMutex. Snapshot returns deep copies of the
// product and category slices so callers may keep or modify them freely.
// Favourite sets are immutable values and are shared.
//
// # Change Notification
//
// Changes returns a channel with a buffer of one. Every mutation performs a
// non-blocking send, so bursts of updates collapse into a single wake-up.
// The UI listens on it to redraw without polling; Version lets it detect
// stale snapshots.
//
// # Error Retention
//
// FailProducts keeps whatever was displayed before. A snapshot with a failed
// status and no products is the only state in which the UI shows the retry
// screen (NeedsRetry).
package state
