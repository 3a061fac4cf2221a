package maplog

// HashContainer is a Container backed by a plain Go map. ForEach visits
// entries in map iteration order (unspecified, matching Go's map
// semantics), grounded on original_source/src/map_trait.rs's
// HashMapWrapper, which in turn just wraps std::collections::HashMap.
type HashContainer[K comparable, V any] struct {
	m map[K]V
}

// NewHashContainer returns an empty hash-backed container.
func NewHashContainer[K comparable, V any]() *HashContainer[K, V] {
	return &HashContainer[K, V]{m: make(map[K]V)}
}

// Get returns the value for key and whether it was present.
func (c *HashContainer[K, V]) Get(key K) (V, bool) {
	v, ok := c.m[key]
	return v, ok
}

// GetMut returns a pointer to a detached copy of the value for key, and
// whether it was present. Mutating through the pointer does not affect
// the container; call Insert to persist a change.
func (c *HashContainer[K, V]) GetMut(key K) (*V, bool) {
	v, ok := c.m[key]
	if !ok {
		return nil, false
	}
	return &v, true
}

// Insert stores value under key, returning the previous value if any.
func (c *HashContainer[K, V]) Insert(key K, value V) (V, bool) {
	old, had := c.m[key]
	c.m[key] = value
	return old, had
}

// Remove deletes key, returning its value if it was present.
func (c *HashContainer[K, V]) Remove(key K) (V, bool) {
	old, had := c.m[key]
	if had {
		delete(c.m, key)
	}
	return old, had
}

// ForEach visits every entry in unspecified (Go map) order.
func (c *HashContainer[K, V]) ForEach(visit func(key K, value V)) {
	for k, v := range c.m {
		visit(k, v)
	}
}

// Len returns the number of entries currently stored.
func (c *HashContainer[K, V]) Len() int { return len(c.m) }
