package maplog

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestSQLContainer(t *testing.T) *SQLContainer[string, int] {
	t.Helper()
	dir, err := os.MkdirTemp("", "maplog-sql-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	c, err := NewSQLContainer[string, int](filepath.Join(dir, "db.sqlite"), 8)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestSQLContainer_InsertGetRemove(t *testing.T) {
	c := openTestSQLContainer(t)

	if _, hadOld := c.Insert("a", 1); hadOld {
		t.Fatal("first Insert(a) reported an old value")
	}
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
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

func TestSQLContainer_ForEachVisitsAllInKeyOrder(t *testing.T) {
	c := openTestSQLContainer(t)
	c.Insert("b", 2)
	c.Insert("a", 1)
	c.Insert("c", 3)

	var keys []string
	c.ForEach(func(key string, value int) {
		keys = append(keys, key)
	})
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("ForEach visited %v; want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("ForEach order = %v; want %v", keys, want)
		}
	}
}

func TestSQLContainer_CacheServesRepeatedGets(t *testing.T) {
	c := openTestSQLContainer(t)
	c.Insert("a", 1)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := c.cache.Get(`"a"`); !ok {
		t.Fatal("expected a to be cached after Get")
	}

	c.Insert("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Fatalf("Get(a) after update = %d, %v; want 2, true", v, ok)
	}
}

func TestSQLContainer_GetMutReturnsDetachedCopy(t *testing.T) {
	c := openTestSQLContainer(t)
	c.Insert("a", 1)

	p, ok := c.GetMut("a")
	if !ok {
		t.Fatal("GetMut(a) not found")
	}
	*p = 99
	if v, _ := c.Get("a"); v != 1 {
		t.Fatalf("Get(a) after mutating GetMut's pointer = %d; want 1 (unaffected)", v)
	}
}
