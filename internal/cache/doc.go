// Package cache persists the last-known-good payload of each resource.
//
// Three logical keys exist: PRODUCTS_CACHE ({"data": [...], "cachedAt":
// epochMillis}), CATEGORIES_CACHE (a string array) and USER_FAVOURITES (a
// number array). Each key has a single owner: the synchronizer writes the
// first two, the favourites ledger the third. There are no cross-key
// transactions.
//
// Backends:
//
//   - FileStore: <dir>/<KEY>.json, written via temp file + rename
//   - SQLiteStore: one row per key in <dir>/shelf-cache.db
//   - MemoryStore: process-local map, for tests and throwaway sessions
//
// Entries never expire. The synchronizer decides freshness; the cache only
// stores what it is given.
package cache
