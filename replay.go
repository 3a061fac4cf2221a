package maplog

import (
	"bufio"
	"errors"
	"io"
)

// replay streams every record out of r in order. Each record's raw framed
// bytes are read first, passed through afterRead (if non-nil) to reverse
// any BeforeWrite transform, then verified and decoded according to format
// and integrity, and finally handed to sink. sink is expected to apply the
// operation (to a container, to indexes, ...) and may return ErrCancelled
// to stop replay early without that counting as a failure. Any other error
// from sink, or any decode/integrity error, aborts replay and is returned
// wrapped with the 1-based index of the record being processed when it
// happened.
//
// Grounded on original_source/src/text_format.rs's load_from_text_file and
// src/bin_format.rs's analogous binary load loop, unified here behind one
// function parameterized on Format since both share the same
// decode-verify-apply-advance shape.
func replay[K any, V any](r io.Reader, format Format, integrity *IntegrityConfig, afterRead func(raw []byte) ([]byte, error), sink func(MapOperation[K, V]) error) (count uint64, err error) {
	br := bufio.NewReader(r)
	var index uint64
	for {
		index++
		var op MapOperation[K, V]
		var eof bool

		switch format {
		case FormatText:
			var line []byte
			line, err = readTextLine(br, index)
			if err != nil {
				if err == io.EOF {
					eof = true
				}
				break
			}
			if afterRead != nil {
				if line, err = afterRead(line); err != nil {
					err = &LoadError{Index: index, Err: err}
					break
				}
			}
			var significant []byte
			significant, err = verifyTextLine(line, integrity, index)
			if err != nil {
				break
			}
			op, err = decodeTextLine[K, V](significant, index)
		case FormatBinary:
			var block []byte
			block, eof, err = readBinaryBlock(br, index)
			if eof || err != nil {
				break
			}
			if afterRead != nil {
				if block, err = afterRead(block); err != nil {
					err = &LoadError{Index: index, Err: err}
					break
				}
			}
			var data []byte
			data, err = verifyBinaryBlock(block, integrity, index)
			if err != nil {
				break
			}
			op, err = decodeBinaryData[K, V](data, index)
		default:
			return count, &LoadError{Index: index, Err: errors.New("unknown log format")}
		}

		if eof {
			return count, nil
		}
		if err != nil {
			return count, err
		}

		if sinkErr := sink(op); sinkErr != nil {
			if errors.Is(sinkErr, ErrCancelled) {
				return count, nil
			}
			return count, &LoadError{Index: index, Err: sinkErr}
		}
		count++
	}
}

// encodeInsert and encodeRemove dispatch to the text or binary codec
// according to format, producing the exact bytes Insert/Remove append to
// the log file. Both advance integrity's chain seed in place when
// configured, which is why they must run synchronously on the caller's
// goroutine during Insert/Remove rather than inside the background
// writer, preserving encode-apply-enqueue ordering for every write.
func encodeInsert[K any, V any](format Format, key K, value V, integrity *IntegrityConfig) ([]byte, error) {
	switch format {
	case FormatText:
		return textLineOfInsert(key, value, integrity)
	case FormatBinary:
		return binaryBlockOfInsert(key, value, integrity)
	default:
		return nil, errors.New("unknown log format")
	}
}

func encodeRemove[K any](format Format, key K, integrity *IntegrityConfig) ([]byte, error) {
	switch format {
	case FormatText:
		return textLineOfRemove(key, integrity)
	case FormatBinary:
		return binaryBlockOfRemove(key, integrity)
	default:
		return nil, errors.New("unknown log format")
	}
}
