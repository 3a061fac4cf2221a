package maplog

// Example: Binary Format with Protobuf-Serialized Values
//
// This example demonstrates FormatBinary, the length-prefixed binary wire
// format, and how record values are serialized.
//
// Why protobuf-serialized values?
// 1. Compact: length-prefixed framing avoids delimiter scanning entirely
// 2. Schema-less: structpb.Value accepts any JSON-shaped Go value, so no
//    .proto file or generated package is required for arbitrary K/V types
// 3. Consistent with FormatText's integrity story: the same CRC-32/SHA
//    chain tags apply to a binary record's bytes as apply to a text line
//
// Record shape (see codec_binary.go):
//
//	len_prefix (1/2/4/8-byte class, little-endian) | op_byte | payload | tag?
//
// Usage:
//
//	cfg := maplog.Config{
//	    Format:    maplog.FormatBinary,
//	    Integrity: maplog.IntegrityConfig{Kind: maplog.IntegritySHA256Chain},
//	}
//	db, err := maplog.OpenOrCreate[int, User]("users.bin", cfg, maplog.NewHashContainer[int, User]())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	db.Insert(1, User{Name: "Masha", Age: 23})
//
// Reopening replays every binary record, verifying its integrity tag (if
// configured) and reconstructing the in-memory container before the first
// Insert/Get/Remove call returns.
