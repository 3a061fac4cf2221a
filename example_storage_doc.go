package maplog

// Container Backend Comparison
//
// This package provides three Container[K, V] implementations for a Log:
//
// 1. HashContainer (hashcontainer.go) - DEFAULT & RECOMMENDED
//    - Plain Go map
//    - Zero external dependencies (stdlib only)
//    - Best for: most workloads; ForEach order is unspecified
//
// 2. SortedContainer (sortedcontainer.go) - ALTERNATIVE
//    - Sorted slice of keys plus a side value map
//    - ForEach visits entries in ascending key order
//    - Best for: small-to-medium maps where iteration order matters
//
// 3. SQLContainer (sqlcontainer.go) - ALTERNATIVE
//    - SQLite-backed, fronted by an LRU read cache
//    - Best for: datasets too large to comfortably hold twice in memory,
//      or applications that already embed SQLite elsewhere
//
// Usage Examples:
//
// === HashContainer (Default, Recommended) ===
//
//	import "github.com/arnevik/maplog"
//
//	db, err := maplog.OpenOrCreate[string, int]("db.log", maplog.Config{}, maplog.NewHashContainer[string, int]())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	db.Insert("visits", 1)
//	v, ok := db.Get("visits")
//
// === SortedContainer ===
//
//	log, err := maplog.OpenOrCreate[string, int]("db.log", maplog.Config{}, maplog.NewSortedContainer[string, int]())
//
// === SQLContainer ===
//
//	container, err := maplog.NewSQLContainer[string, int]("cache.sqlite", 1024)
//	log, err := maplog.OpenOrCreate[string, int]("db.log", maplog.Config{}, container)
