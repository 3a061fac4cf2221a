package maplog

// Example: Integrity Configuration
//
// This example demonstrates the three integrity mechanisms a Config can
// select, and what each one buys you on top of FormatText/FormatBinary.
//
// Security properties:
// 1. IntegrityNone: no tag. Truncation, reordering, and tampering of
//    individual records are all undetectable.
// 2. IntegrityCRC32: a per-record checksum. Detects accidental corruption
//    of a single record; does not chain records together, so a truncated
//    or reordered log is not detected.
// 3. IntegritySHA1Chain / IntegritySHA256Chain: each record's tag folds in
//    the previous record's tag (H_i = H(H_{i-1} || H(data_i))), so
//    altering or reordering records breaks the chain at the first altered
//    record — replay reports the exact 1-based record index where
//    verification failed. A log cut short after a whole record still
//    replays cleanly: each tag binds a record only to those before it.
//
// Usage:
//
//	cfg := maplog.Config{Integrity: maplog.IntegrityConfig{Kind: maplog.IntegritySHA256Chain}}
//	log, _ := maplog.OpenOrCreate[string, int]("db.log", cfg, maplog.NewHashContainer[string, int]())
//
//	log.Insert("a", 1)
//	log.Insert("b", 2)
//	log.Close()
//
//	// Reopening with the same Kind replays and re-verifies every record;
//	// any corruption surfaces as a *maplog.LoadError naming the record.
//	reopened, err := maplog.OpenOrCreate[string, int]("db.log", cfg, maplog.NewHashContainer[string, int]())
