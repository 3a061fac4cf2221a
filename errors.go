package maplog

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by a replay sink to stop replay cooperatively
// without that being treated as a decode failure.
var ErrCancelled = errors.New("replay cancelled by sink")

// ErrUnknownOpcode is wrapped into a LoadError when a binary block's op
// byte is outside {Insert, Remove}. Unknown opcodes fail by default; there
// is no forward-compat escape hatch yet.
var ErrUnknownOpcode = errors.New("unknown opcode")

// ErrMissingTag is wrapped into a LoadError when integrity is configured
// but a record carries no recognizable tag.
var ErrMissingTag = errors.New("missing integrity tag")

// ErrCRCMismatch, ErrChainMismatch indicate tag verification failed.
var (
	ErrCRCMismatch   = errors.New("crc32 mismatch: corrupt or tampered record")
	ErrChainMismatch = errors.New("hash chain mismatch: corrupt or tampered record")
)

// ErrUnterminatedLine is wrapped into a LoadError when a trailing text
// line has no terminating newline.
var ErrUnterminatedLine = errors.New("unterminated trailing line")

// ErrZeroLengthBlock indicates a binary length prefix decoded to zero.
var ErrZeroLengthBlock = errors.New("zero-length binary block")

// ErrLocked is returned when the log file is already exclusively locked
// by another process or handle.
var ErrLocked = errors.New("log file is locked by another handle")

// LoadError is returned by the replay loader and by OpenOrCreate when
// replay fails. Index is the 1-based record number being processed when
// the error was detected.
type LoadError struct {
	Index uint64
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SerializeError wraps a failure to encode the current operation. The
// in-memory container and indexes are left untouched, and nothing is
// enqueued to the writer.
type SerializeError struct {
	Err error
}

func (e *SerializeError) Error() string { return fmt.Sprintf("serialize record: %v", e.Err) }
func (e *SerializeError) Unwrap() error { return e.Err }

// OpenError wraps a file-system or locking failure encountered while
// opening or creating a log.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string { return fmt.Sprintf("open %s: %v", e.Path, e.Err) }
func (e *OpenError) Unwrap() error { return e.Err }

// ConvertError wraps a failure encountered by Convert: opening/locking
// the source, creating the destination directory, a wrapped LoadError
// from the source, a write failure on the destination, or a temp-file
// failure.
type ConvertError struct {
	Stage string // "open-src", "open-dst", "load", "write", "tempfile"
	Err   error
}

func (e *ConvertError) Error() string { return fmt.Sprintf("convert (%s): %v", e.Stage, e.Err) }
func (e *ConvertError) Unwrap() error { return e.Err }
