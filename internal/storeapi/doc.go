// Package storeapi is the HTTP client for the remote store API.
//
// Only two endpoints are consumed:
//
//	GET /products?limit=<n>     -> []catalog.Product
//	GET /products/categories    -> []string
//
// Each call is bounded by the client timeout (10s by default). Transport
// errors, non-2xx statuses and undecodable bodies all wrap
// catalog.ErrFetchFailure; there is no retry. Falling back to cached data is
// the synchronizer's job.
//
// Every request carries an X-Request-ID header so failures logged here can
// be matched with server-side logs.
package storeapi
