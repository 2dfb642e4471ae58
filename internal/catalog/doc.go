// Package catalog holds the domain types shared by the cache, the store API
// client, the synchronizer and the UI: products, categories, the favourites
// set, per-resource sync status and the error taxonomy.
package catalog
