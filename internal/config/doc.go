// Package config loads shelf's runtime settings.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file at the given path, or ~/.config/shelf/config.toml
//  3. A .env file in the working directory, if any (godotenv)
//  4. SHELF_* environment variables
//
// A missing config file is not an error. Empty values in the file fall back
// to defaults. Unparseable TOML, durations or limits are errors.
//
// # TOML Format
//
//	api_url = "https://fakestoreapi.com"
//	data_dir = "~/.local/share/shelf"
//	cache_backend = "file"      # file | sqlite | memory
//	product_limit = 30
//	request_timeout = "10s"
//	freshness_window = "5m"
//	poll_interval = "60s"
//	probe_timeout = "2s"
//
// # Environment
//
//	SHELF_API_URL, SHELF_DATA_DIR, SHELF_CACHE_BACKEND, SHELF_PRODUCT_LIMIT,
//	SHELF_REQUEST_TIMEOUT, SHELF_FRESHNESS_WINDOW, SHELF_POLL_INTERVAL,
//	SHELF_PROBE_TIMEOUT
//
// Paths accept a leading ~ and are made absolute.
package config
