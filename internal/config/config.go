package config

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shelf/internal/cache"
)

// Config captures the runtime settings for shelf.
type Config struct {
	APIURL          string
	DataDir         string
	CacheBackend    string
	ProductLimit    int
	RequestTimeout  time.Duration
	FreshnessWindow time.Duration
	PollInterval    time.Duration
	ProbeTimeout    time.Duration
}

const (
	defaultConfigPath      = "~/.config/shelf/config.toml"
	defaultDataDir         = "~/.local/share/shelf"
	defaultAPIURL          = "https://fakestoreapi.com"
	defaultCacheBackend    = cache.BackendFile
	defaultProductLimit    = 30
	defaultRequestTimeout  = 10 * time.Second
	defaultFreshnessWindow = 5 * time.Minute
	defaultPollInterval    = 60 * time.Second
	defaultProbeTimeout    = 2 * time.Second
)

// Default returns the configuration used when nothing is configured.
func Default() Config {
	return Config{
		APIURL:          defaultAPIURL,
		DataDir:         mustExpand(defaultDataDir),
		CacheBackend:    defaultCacheBackend,
		ProductLimit:    defaultProductLimit,
		RequestTimeout:  defaultRequestTimeout,
		FreshnessWindow: defaultFreshnessWindow,
		PollInterval:    defaultPollInterval,
		ProbeTimeout:    defaultProbeTimeout,
	}
}

// Load reads the config file at path (or the default location), then applies
// SHELF_* environment overrides. A .env file in the working directory is
// loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := cfg.applyFile(resolved); err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CacheDir returns the directory handed to the cache backend.
func (c Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// LogPath returns the file the TUI logs to.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir + "/shelf.log")
	}
	return filepath.Join(c.DataDir, "shelf.log")
}

type fileConfig struct {
	APIURL          string `toml:"api_url"`
	DataDir         string `toml:"data_dir"`
	CacheBackend    string `toml:"cache_backend"`
	ProductLimit    int    `toml:"product_limit"`
	RequestTimeout  string `toml:"request_timeout"`
	FreshnessWindow string `toml:"freshness_window"`
	PollInterval    string `toml:"poll_interval"`
	ProbeTimeout    string `toml:"probe_timeout"`
}

func (c *Config) applyFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "open config")
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return errors.Wrap(err, "read config")
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return errors.Wrap(err, "parse config")
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(raw.DataDir); v != "" {
		c.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.CacheBackend); v != "" {
		c.CacheBackend = strings.ToLower(v)
	}
	if raw.ProductLimit > 0 {
		c.ProductLimit = raw.ProductLimit
	}
	durations := []struct {
		name string
		raw  string
		dest *time.Duration
	}{
		{"request_timeout", raw.RequestTimeout, &c.RequestTimeout},
		{"freshness_window", raw.FreshnessWindow, &c.FreshnessWindow},
		{"poll_interval", raw.PollInterval, &c.PollInterval},
		{"probe_timeout", raw.ProbeTimeout, &c.ProbeTimeout},
	}
	for _, d := range durations {
		if err := setDuration(d.name, d.raw, d.dest); err != nil {
			return errors.Wrap(err, "parse config")
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv("SHELF_API_URL")); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(getenv("SHELF_DATA_DIR")); v != "" {
		c.DataDir = mustExpand(v)
	}
	if v := strings.TrimSpace(getenv("SHELF_CACHE_BACKEND")); v != "" {
		c.CacheBackend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(getenv("SHELF_PRODUCT_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return errors.Errorf("invalid SHELF_PRODUCT_LIMIT %q", v)
		}
		c.ProductLimit = n
	}
	durations := []struct {
		name string
		dest *time.Duration
	}{
		{"SHELF_REQUEST_TIMEOUT", &c.RequestTimeout},
		{"SHELF_FRESHNESS_WINDOW", &c.FreshnessWindow},
		{"SHELF_POLL_INTERVAL", &c.PollInterval},
		{"SHELF_PROBE_TIMEOUT", &c.ProbeTimeout},
	}
	for _, d := range durations {
		if err := setDuration(d.name, getenv(d.name), d.dest); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) validate() error {
	switch c.CacheBackend {
	case cache.BackendFile, cache.BackendSQLite, cache.BackendMemory:
	default:
		return errors.Errorf("unknown cache_backend %q", c.CacheBackend)
	}
	return nil
}

func setDuration(name, raw string, dest *time.Duration) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return errors.Wrapf(err, "invalid %s %q", name, trimmed)
	}
	if d <= 0 {
		return errors.Errorf("invalid %s %q: must be positive", name, trimmed)
	}
	*dest = d
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, "resolve home dir")
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
