package maplog

import (
	"cmp"
	"sort"
)

// SortedContainer is a Container backed by a sorted slice of keys plus a
// side map of values. ForEach visits entries in ascending key order.
//
// original_source/src/map_trait.rs only ships a BTreeMap wrapper (Go's
// stdlib has no ordered map type), so this is the idiomatic Go rendition
// of a sorted-vector container. Insert/Remove are O(n) due to the slice
// shift; that is the accepted cost of the sorted-vector form.
type SortedContainer[K cmp.Ordered, V any] struct {
	keys   []K
	values map[K]V
}

// NewSortedContainer returns an empty sorted container.
func NewSortedContainer[K cmp.Ordered, V any]() *SortedContainer[K, V] {
	return &SortedContainer[K, V]{values: make(map[K]V)}
}

func (c *SortedContainer[K, V]) search(key K) int {
	return sort.Search(len(c.keys), func(i int) bool { return c.keys[i] >= key })
}

// Get returns the value for key and whether it was present.
func (c *SortedContainer[K, V]) Get(key K) (V, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetMut returns a pointer to a detached copy of the value for key, and
// whether it was present. Mutating through the pointer does not affect
// the container; call Insert to persist a change.
func (c *SortedContainer[K, V]) GetMut(key K) (*V, bool) {
	v, ok := c.values[key]
	if !ok {
		return nil, false
	}
	return &v, true
}

// Insert stores value under key, keeping keys in ascending order, and
// returns the previous value if any.
func (c *SortedContainer[K, V]) Insert(key K, value V) (V, bool) {
	old, had := c.values[key]
	c.values[key] = value
	if !had {
		i := c.search(key)
		c.keys = append(c.keys, key)
		copy(c.keys[i+1:], c.keys[i:])
		c.keys[i] = key
	}
	return old, had
}

// Remove deletes key, returning its value if it was present.
func (c *SortedContainer[K, V]) Remove(key K) (V, bool) {
	old, had := c.values[key]
	if !had {
		return old, false
	}
	delete(c.values, key)
	i := c.search(key)
	c.keys = append(c.keys[:i], c.keys[i+1:]...)
	return old, true
}

// ForEach visits every entry in ascending key order.
func (c *SortedContainer[K, V]) ForEach(visit func(key K, value V)) {
	for _, k := range c.keys {
		visit(k, c.values[k])
	}
}

// Len returns the number of entries currently stored.
func (c *SortedContainer[K, V]) Len() int { return len(c.keys) }
