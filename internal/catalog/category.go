package catalog

import "strings"

// SentinelCategory is the synthetic "no category filter" entry.
const SentinelCategory = "all"

// CategoryList is an ordered list of category names.
type CategoryList []string

// DefaultCategories is the list shown when nothing better is known.
func DefaultCategories() CategoryList {
	return CategoryList{SentinelCategory}
}

// WithSentinel prepends the sentinel to a list fetched from the API. A
// sentinel already present in the payload is not repeated.
func WithSentinel(fetched []string) CategoryList {
	out := make(CategoryList, 0, len(fetched)+1)
	out = append(out, SentinelCategory)
	for _, c := range fetched {
		if c == SentinelCategory {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Clone returns an independent copy.
func (l CategoryList) Clone() CategoryList {
	if l == nil {
		return nil
	}
	dup := make(CategoryList, len(l))
	copy(dup, l)
	return dup
}

// Label returns the display label for a category name.
func Label(category string) string {
	if category == SentinelCategory {
		return "All Categories"
	}
	if category == "" {
		return ""
	}
	return strings.ToUpper(category[:1]) + category[1:]
}
