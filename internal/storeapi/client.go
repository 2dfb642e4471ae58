package storeapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/five82/shelf/internal/catalog"
)

// Fetcher defines the two reads the synchronizer needs from the store API.
// This interface is implemented by *Client and can be replaced in tests.
type Fetcher interface {
	FetchProducts(ctx context.Context, limit int) ([]catalog.Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to a Fake-Store-compatible HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultBaseURL        = "https://fakestoreapi.com"
	DefaultRequestTimeout = 10 * time.Second
	defaultUserAgent      = "shelf/0.1"
	requestIDHeader       = "X-Request-ID"
)

// NewClient builds a Client for baseURL. A non-positive timeout uses
// DefaultRequestTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the normalised API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchProducts retrieves up to limit products. limit <= 0 requests the default page.
func (c *Client) FetchProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	if c == nil {
		return nil, errors.Wrap(catalog.ErrFetchFailure, "client is nil")
	}
	if limit <= 0 {
		limit = catalog.DefaultProductLimit
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	var payload []catalog.Product
	if err := c.get(ctx, "products", values, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = []catalog.Product{}
	}
	return payload, nil
}

// FetchCategories retrieves the category names as the API lists them.
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, errors.Wrap(catalog.ErrFetchFailure, "client is nil")
	}
	var payload []string
	if err := c.get(ctx, "products/categories", nil, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = []string{}
	}
	return payload, nil
}

// get wraps every failure with catalog.ErrFetchFailure so callers only need
// a single check.
func (c *Client) get(ctx context.Context, rel string, query url.Values, dest any) error {
	reqURL := *c.baseURL
	reqURL.Path = path.Join("/", c.baseURL.Path, rel)
	reqURL.RawQuery = query.Encode()

	requestID := uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return errors.Wrapf(catalog.ErrFetchFailure, "create request: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("storeapi: GET %s [%s] failed after %s: %v", reqURL.Path, requestID, time.Since(started).Round(time.Millisecond), err)
		return errors.Wrapf(catalog.ErrFetchFailure, "execute request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("storeapi: GET %s [%s] returned %d", reqURL.Path, requestID, resp.StatusCode)
		return errors.Wrapf(catalog.ErrFetchFailure, "api %s returned status %d", reqURL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Wrapf(catalog.ErrFetchFailure, "decode response: %v", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, errors.Wrapf(err, "parse api url %q", raw)
	}
	if u.Host == "" {
		return nil, errors.Errorf("api url %q has no host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
