// Package maplog is an embedded, single-writer, append-only key-value
// store. In-memory state is a generic Container[K, V]; durable state is a
// replayable operation log on a local file. Opening a log replays it to
// rebuild the container; every mutation appends a record describing the
// mutation. Records may carry an integrity tag (CRC-32, or a SHA-1/SHA-256
// hash chain) to detect corruption or tampering.
package maplog
