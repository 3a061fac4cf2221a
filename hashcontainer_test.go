package maplog

import "testing"

func TestHashContainer_InsertGetRemove(t *testing.T) {
	c := NewHashContainer[string, int]()

	if _, hadOld := c.Insert("a", 1); hadOld {
		t.Fatal("first Insert reported an old value")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", c.Len())
	}

	old, hadOld := c.Insert("a", 2)
	if !hadOld || old != 1 {
		t.Fatalf("Insert(a,2) = %d, %v; want 1, true", old, hadOld)
	}

	old, hadOld = c.Remove("a")
	if !hadOld || old != 2 {
		t.Fatalf("Remove(a) = %d, %v; want 2, true", old, hadOld)
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get(a) after Remove: still present")
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d; want 0", c.Len())
	}
}

func TestHashContainer_RemoveMissingKey(t *testing.T) {
	c := NewHashContainer[string, int]()
	if _, hadOld := c.Remove("missing"); hadOld {
		t.Fatal("Remove of a missing key reported hadOld=true")
	}
}

func TestHashContainer_ForEachVisitsEveryEntry(t *testing.T) {
	c := NewHashContainer[string, int]()
	c.Insert("a", 1)
	c.Insert("b", 2)
	c.Insert("c", 3)

	seen := map[string]int{}
	c.ForEach(func(key string, value int) { seen[key] = value })
	if len(seen) != 3 || seen["a"] != 1 || seen["b"] != 2 || seen["c"] != 3 {
		t.Fatalf("ForEach visited %v; want {a:1 b:2 c:3}", seen)
	}
}

func TestHashContainer_GetMutIsDetached(t *testing.T) {
	c := NewHashContainer[string, int]()
	c.Insert("a", 1)

	p, ok := c.GetMut("a")
	if !ok {
		t.Fatal("GetMut(a) not found")
	}
	*p = 99
	if v, _ := c.Get("a"); v != 1 {
		t.Fatalf("Get(a) after mutating GetMut's pointer = %d; want 1", v)
	}
}
