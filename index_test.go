package maplog

import "testing"

func TestIndex_OnInsertFilesUnderDerivedKey(t *testing.T) {
	idx := newIndex[int, string, int](func(v int) int { return v % 2 })

	idx.onInsert("a", 4, 0, false)
	idx.onInsert("b", 4, 0, false)
	idx.onInsert("c", 5, 0, false)

	even := idx.Get(0)
	if len(even) != 2 || even[0] != "a" || even[1] != "b" {
		t.Fatalf("Get(0) = %v; want [a b]", even)
	}
	odd := idx.Get(1)
	if len(odd) != 1 || odd[0] != "c" {
		t.Fatalf("Get(1) = %v; want [c]", odd)
	}
}

func TestIndex_OnInsertMovesKeyBetweenBuckets(t *testing.T) {
	idx := newIndex[int, string, int](func(v int) int { return v })
	idx.onInsert("a", 1, 0, false)

	idx.onInsert("a", 2, 1, true)
	if keys := idx.Get(1); len(keys) != 0 {
		t.Fatalf("Get(1) after move = %v; want empty (bucket deleted)", keys)
	}
	if keys := idx.Get(2); len(keys) != 1 || keys[0] != "a" {
		t.Fatalf("Get(2) after move = %v; want [a]", keys)
	}
}

func TestIndex_OnRemoveDeletesEmptyBucket(t *testing.T) {
	idx := newIndex[int, string, int](func(v int) int { return v })
	idx.onInsert("a", 1, 0, false)
	idx.onRemove("a", 1)

	if keys := idx.Get(1); len(keys) != 0 {
		t.Fatalf("Get(1) after Remove = %v; want empty", keys)
	}
	if _, ok := idx.state.buckets[1]; ok {
		t.Fatal("bucket for 1 should have been deleted, not left empty")
	}
}

func TestIndex_GetReturnsACopy(t *testing.T) {
	idx := newIndex[int, string, int](func(v int) int { return v })
	idx.onInsert("a", 1, 0, false)

	keys := idx.Get(1)
	keys[0] = "mutated"
	if fresh := idx.Get(1); fresh[0] != "a" {
		t.Fatalf("mutating Get's result affected the index: %v", fresh)
	}
}
