// Package app is the composition root for shelf.
//
// Run loads configuration and preferences, redirects the standard logger to
// <data_dir>/shelf.log, opens the configured cache backend and wires the
// store API client, connectivity oracle, state store, synchronizer and
// favourites ledger together. It then starts the UI.
//
// Startup runs off the UI goroutine in a fixed order:
//
//  1. load favourites from the cache
//  2. synchronize categories (non-forced)
//  3. synchronize products (non-forced)
//
// After that a background refresher asks for a non-forced refresh every
// poll interval. Ticks inside the freshness window are no-ops. Rounds that
// fail or fall back to cached data back off exponentially, capped at five
// minutes, until a live fetch succeeds again.
//
// Passing Options.Offline swaps the TCP probe for an oracle that always
// reports the network as unreachable.
package app
