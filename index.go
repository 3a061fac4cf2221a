package maplog

import (
	"cmp"
	"sort"
	"sync"
)

// Index is a secondary index over a Log's entries, keyed by a value-derived
// function. Handles are cheap to copy: every copy shares the same
// underlying bucket map, guarded by a RWMutex, so the wrapper can push
// updates to live index handles without any back-pointer from index to
// wrapper. Grounded on original_source/src/index.rs's
// Arc<RwLock<dyn IndexMap<...>>> shape.
type Index[IK cmp.Ordered, K cmp.Ordered, V any] struct {
	state    *indexState[IK, K]
	deriveFn func(V) IK
}

type indexState[IK cmp.Ordered, K cmp.Ordered] struct {
	mu      sync.RWMutex
	buckets map[IK][]K
}

// newIndex builds an Index that derives an IK from each V via derive.
func newIndex[IK cmp.Ordered, K cmp.Ordered, V any](derive func(V) IK) *Index[IK, K, V] {
	return &Index[IK, K, V]{
		state:    &indexState[IK, K]{buckets: make(map[IK][]K)},
		deriveFn: derive,
	}
}

// Get returns the owner keys currently filed under indexKey, in ascending
// order. The returned slice is a copy; mutating it has no effect on the
// index.
func (idx *Index[IK, K, V]) Get(indexKey IK) []K {
	idx.state.mu.RLock()
	defer idx.state.mu.RUnlock()
	bucket := idx.state.buckets[indexKey]
	out := make([]K, len(bucket))
	copy(out, bucket)
	return out
}

// onInsert files key under the index key derived from value, removing it
// from its previous bucket (derived from oldValue) first if hadOld. An
// emptied bucket is deleted rather than left as an empty entry.
func (idx *Index[IK, K, V]) onInsert(key K, value V, oldValue V, hadOld bool) {
	newKey := idx.deriveFn(value)

	idx.state.mu.Lock()
	defer idx.state.mu.Unlock()

	if hadOld {
		oldKey := idx.deriveFn(oldValue)
		if oldKey != newKey {
			idx.removeFromBucket(oldKey, key)
		} else {
			// same bucket: nothing to move, but the bucket may already
			// contain key, so fall through without duplicating it.
			idx.insertIntoBucket(newKey, key)
			return
		}
	}
	idx.insertIntoBucket(newKey, key)
}

// onRemove removes key from the bucket derived from value.
func (idx *Index[IK, K, V]) onRemove(key K, value V) {
	indexKey := idx.deriveFn(value)
	idx.state.mu.Lock()
	defer idx.state.mu.Unlock()
	idx.removeFromBucket(indexKey, key)
}

func (idx *Index[IK, K, V]) insertIntoBucket(indexKey IK, key K) {
	bucket := idx.state.buckets[indexKey]
	i := sort.Search(len(bucket), func(i int) bool { return bucket[i] >= key })
	if i < len(bucket) && bucket[i] == key {
		return
	}
	bucket = append(bucket, key)
	copy(bucket[i+1:], bucket[i:])
	bucket[i] = key
	idx.state.buckets[indexKey] = bucket
}

func (idx *Index[IK, K, V]) removeFromBucket(indexKey IK, key K) {
	bucket, ok := idx.state.buckets[indexKey]
	if !ok {
		return
	}
	i := sort.Search(len(bucket), func(i int) bool { return bucket[i] >= key })
	if i >= len(bucket) || bucket[i] != key {
		return
	}
	bucket = append(bucket[:i], bucket[i+1:]...)
	if len(bucket) == 0 {
		delete(idx.state.buckets, indexKey)
		return
	}
	idx.state.buckets[indexKey] = bucket
}

// liveIndex is the type-erased handle a Log keeps in its index list so it
// can push updates without knowing each index's IK/V types.
type liveIndex[K any, V any] interface {
	onInsert(key K, value V, oldValue V, hadOld bool)
	onRemove(key K, value V)
}
