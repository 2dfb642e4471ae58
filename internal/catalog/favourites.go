package catalog

import "encoding/json"

// FavouriteSet is an insertion-ordered set of product identifiers. Values
// are immutable: Toggle returns a new set.
type FavouriteSet struct {
	ids []int64
}

// NewFavouriteSet builds a set from ids, dropping duplicates but keeping the
// first occurrence's position.
func NewFavouriteSet(ids ...int64) FavouriteSet {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return FavouriteSet{ids: out}
}

// Contains reports whether id is favourited.
func (s FavouriteSet) Contains(id int64) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Toggle removes id when present, otherwise appends it.
func (s FavouriteSet) Toggle(id int64) FavouriteSet {
	if s.Contains(id) {
		out := make([]int64, 0, len(s.ids)-1)
		for _, v := range s.ids {
			if v != id {
				out = append(out, v)
			}
		}
		return FavouriteSet{ids: out}
	}
	out := make([]int64, len(s.ids), len(s.ids)+1)
	copy(out, s.ids)
	return FavouriteSet{ids: append(out, id)}
}

// IDs returns a copy of the identifiers in insertion order.
func (s FavouriteSet) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of favourites.
func (s FavouriteSet) Len() int {
	return len(s.ids)
}

// Equal compares membership and order.
func (s FavouriteSet) Equal(o FavouriteSet) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != o.ids[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a plain number array.
func (s FavouriteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes a number array, dropping duplicates.
func (s *FavouriteSet) UnmarshalJSON(b []byte) error {
	var ids []int64
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}
	*s = NewFavouriteSet(ids...)
	return nil
}
