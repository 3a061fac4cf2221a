package maplog

// Example: History Compaction
//
// This example shows how RemoveHistory rewrites a log's accumulated
// Insert/Remove history down to the minimal sequence of Inserts needed to
// reconstruct the current in-memory state.
//
// Use case: a long-lived log where the same keys have been updated or
// removed many times accumulates a record per operation, not per live
// entry. RemoveHistory replaces that history with one Insert per entry
// currently in the map.
//
// Compaction steps (see wrapper.go's RemoveHistory):
//
//	drain the writer queue
//	  -> write every live entry as a fresh Insert into a uuid-suffixed
//	     temp file in the log's own directory (optionally under a new
//	     IntegrityConfig)
//	  -> fsync and close the temp file
//	  -> atomically rename it over the live log
//	  -> release and reacquire the exclusive lock across the swap
//	  -> start a new background writer against the reopened file
//
// Usage Example:
//
//	db, _ := maplog.OpenOrCreate[string, int]("db.log", maplog.Config{}, maplog.NewHashContainer[string, int]())
//	for i := 0; i < 1000; i++ {
//	    db.Insert("counter", i)
//	}
//	// db.log now holds 1000 Insert records for one live key.
//
//	if err := db.RemoveHistory(nil); err != nil {
//	    log.Fatal(err)
//	}
//	// db.log now holds exactly one Insert record: Insert("counter", 999).
//
// Passing a non-nil *maplog.IntegrityConfig re-tags the compacted log under
// a different integrity scheme, the same migration Convert performs
// across two distinct files.
