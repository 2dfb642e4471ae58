package catalog

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultProductLimit is the page size requested when the caller passes none.
const DefaultProductLimit = 30

// Product mirrors a single entry of the store API's /products payload.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}

// FormattedPrice renders the price the way the list and detail views show it.
func (p Product) FormattedPrice() string {
	return "$" + p.Price.StringFixed(2)
}

// Equal reports whether two products carry identical values. Prices compare
// by decimal value, not by float approximation.
func (p Product) Equal(o Product) bool {
	return p.ID == o.ID &&
		p.Title == o.Title &&
		p.Price.Equal(o.Price) &&
		p.Description == o.Description &&
		p.Image == o.Image &&
		p.Category == o.Category
}

// MarshalJSON writes the price with as many decimal places as it was read
// with, so "64.10" is persisted as "64.10" rather than "64.1".
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain: plain(p), Price: p.Price.StringFixed(pricePlaces(p.Price))})
}

func pricePlaces(d decimal.Decimal) int32 {
	if exp := d.Exponent(); exp < 0 {
		return -exp
	}
	return 0
}

// ProductCollection is the last-known-good product payload kept in the cache.
type ProductCollection struct {
	Data     []Product
	CachedAt time.Time
}

// NewProductCollection stamps data with at, truncated to the persisted
// millisecond resolution.
func NewProductCollection(data []Product, at time.Time) ProductCollection {
	return ProductCollection{
		Data:     CloneProducts(data),
		CachedAt: at.Truncate(time.Millisecond),
	}
}

type productCollectionJSON struct {
	Data     []Product `json:"data"`
	CachedAt int64     `json:"cachedAt"`
}

// MarshalJSON encodes the collection as {"data": [...], "cachedAt": epochMillis}.
func (c ProductCollection) MarshalJSON() ([]byte, error) {
	data := c.Data
	if data == nil {
		data = []Product{}
	}
	var millis int64
	if !c.CachedAt.IsZero() {
		millis = c.CachedAt.UnixMilli()
	}
	return json.Marshal(productCollectionJSON{Data: data, CachedAt: millis})
}

// UnmarshalJSON decodes the epoch-millis layout written by MarshalJSON.
func (c *ProductCollection) UnmarshalJSON(b []byte) error {
	var raw productCollectionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Data = raw.Data
	c.CachedAt = time.Time{}
	if raw.CachedAt > 0 {
		c.CachedAt = time.UnixMilli(raw.CachedAt)
	}
	return nil
}

// CloneProducts returns an independent copy of items. Nil stays nil.
func CloneProducts(items []Product) []Product {
	if items == nil {
		return nil
	}
	dup := make([]Product, len(items))
	copy(dup, items)
	return dup
}

// Filter returns the products whose title contains query (case-insensitive,
// trimmed) and whose category matches. The sentinel or an empty category
// matches everything.
func Filter(items []Product, query, category string) []Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	category = strings.TrimSpace(category)
	out := make([]Product, 0, len(items))
	for _, p := range items {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if category != "" && category != SentinelCategory && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Lookup finds the product with the given id.
func Lookup(items []Product, id int64) (Product, bool) {
	for _, p := range items {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
