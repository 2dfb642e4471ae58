package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/five82/shelf/internal/catalog"
)

// SaveProducts overwrites the products record.
func SaveProducts(ctx context.Context, s Store, c catalog.ProductCollection) error {
	return saveJSON(ctx, s, KeyProducts, c)
}

// LoadProducts reads the products record. Absent and corrupt records both
// match catalog.ErrCacheMiss; corrupt ones are a *CorruptError.
func LoadProducts(ctx context.Context, s Store) (catalog.ProductCollection, error) {
	var c catalog.ProductCollection
	if err := loadJSON(ctx, s, KeyProducts, &c); err != nil {
		return catalog.ProductCollection{}, err
	}
	return c, nil
}

// SaveCategories overwrites the categories record.
func SaveCategories(ctx context.Context, s Store, list catalog.CategoryList) error {
	if list == nil {
		list = catalog.CategoryList{}
	}
	return saveJSON(ctx, s, KeyCategories, list)
}

// LoadCategories reads the categories record as stored.
func LoadCategories(ctx context.Context, s Store) (catalog.CategoryList, error) {
	var list catalog.CategoryList
	if err := loadJSON(ctx, s, KeyCategories, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SaveFavourites overwrites the favourites record.
func SaveFavourites(ctx context.Context, s Store, set catalog.FavouriteSet) error {
	return saveJSON(ctx, s, KeyFavourites, set)
}

// LoadFavourites reads the favourites record.
func LoadFavourites(ctx context.Context, s Store) (catalog.FavouriteSet, error) {
	var set catalog.FavouriteSet
	if err := loadJSON(ctx, s, KeyFavourites, &set); err != nil {
		return catalog.FavouriteSet{}, err
	}
	return set, nil
}

func saveJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(catalog.ErrPersistenceFailure, "encode %s: %v", key, err)
	}
	return s.Set(ctx, key, raw)
}

func loadJSON(ctx context.Context, s Store, key string, dest any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return &CorruptError{Key: key, Err: err}
	}
	return nil
}

// CorruptError reports an entry that exists but cannot be decoded. It
// matches catalog.ErrCacheMiss: callers treat it as absent data.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{catalog.ErrCacheMiss, e.Err}
}
