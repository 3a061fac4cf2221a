package maplog

// Format selects the on-disk record encoding. The zero value is FormatText.
type Format int

const (
	// FormatText encodes records as newline-terminated JSON lines
	// ("ins "/"rem " prefixed), human-readable and diffable.
	FormatText Format = iota
	// FormatBinary encodes records as length-prefixed protobuf-serialized
	// blocks, more compact than FormatText.
	FormatBinary
)

// Config is the closed set of options for opening a log: the wire format,
// the integrity mechanism, and a pair of optional hooks plus an error sink
// for the background writer. The zero Config is valid: FormatText,
// IntegrityNone, no hooks, no sink.
type Config struct {
	Format    Format
	Integrity IntegrityConfig

	// BeforeWrite, if set, is called on the caller's goroutine with each
	// record's already-encoded payload (framing and integrity tag
	// included) just before it is enqueued for the background writer, and
	// returns the payload that is actually written — the extension point
	// for compression, encryption, or mirroring. The returned bytes must
	// still satisfy the wire format's framing: a single '\n'-terminated
	// line for FormatText, a well-formed len_prefix+block for
	// FormatBinary. An error aborts the write as a SerializeError; nothing
	// is applied in memory or enqueued.
	BeforeWrite func(payload []byte) ([]byte, error)

	// AfterRead, if set, is called once per record with the bytes read
	// from disk during OpenOrCreate or Convert (integrity tag included,
	// not yet verified or decoded; for FormatText the line without its
	// trailing '\n', for FormatBinary the block without its len_prefix),
	// and returns the bytes that are actually verified and decoded — the
	// inverse of BeforeWrite, for decryption or decompression. Any error
	// it returns, ErrCancelled included, aborts replay with a LoadError
	// for that record.
	AfterRead func(raw []byte) ([]byte, error)

	// WriteErrorSink, if set, receives every error the background writer
	// goroutine encounters (I/O failures writing or flushing). The writer
	// keeps running after reporting; it never aborts because of a write
	// failure. When nil, write errors are dropped after being logged.
	WriteErrorSink func(error)
}
