package maplog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Convert re-encodes the log at srcPath (read under srcCfg) into a log at
// dstPath (written under dstCfg), piping every decoded operation through
// transform, which may change the key/value types. The destination's
// format and integrity tags come from dstCfg alone.
// Grounded on original_source/examples/convert.rs, which performs the same
// migrate-then-recompress walkthrough (default format to Sha256Chain, then
// struct-to-struct with Crc32) via diskomap::format::convert.
//
// dstPath may equal srcPath: the destination is always built in a
// uuid-suffixed temporary file in dstPath's directory first, then
// atomically renamed over dstPath once fully written, so the rewrite
// cannot observe its own output and a same-path conversion is safe. This
// mirrors Log[K,V].RemoveHistory's compaction swap.
func Convert[SK comparable, SV any, DK comparable, DV any](
	srcPath string, srcCfg Config,
	dstPath string, dstCfg Config,
	transform func(MapOperation[SK, SV]) MapOperation[DK, DV],
) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return &ConvertError{Stage: "open-src", Err: err}
	}
	defer src.Close()
	if err := unix.Flock(int(src.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		return &ConvertError{Stage: "open-src", Err: fmt.Errorf("%w: %v", ErrLocked, err)}
	}
	defer unix.Flock(int(src.Fd()), unix.LOCK_UN)

	dstDir := filepath.Dir(dstPath)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return &ConvertError{Stage: "open-dst", Err: err}
	}
	tmpPath := filepath.Join(dstDir, fmt.Sprintf(".%s-%s.tmp", filepath.Base(dstPath), uuid.NewString()))
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &ConvertError{Stage: "tempfile", Err: err}
	}

	_, loadErr := replay[SK, SV](src, srcCfg.Format, &srcCfg.Integrity, srcCfg.AfterRead, func(op MapOperation[SK, SV]) error {
		dop := transform(op)
		var payload []byte
		var err error
		switch dop.Kind {
		case OpInsert:
			payload, err = encodeInsert(dstCfg.Format, dop.Key, dop.Value, &dstCfg.Integrity)
		case OpRemove:
			payload, err = encodeRemove(dstCfg.Format, dop.Key, &dstCfg.Integrity)
		}
		if err != nil {
			return err
		}
		if dstCfg.BeforeWrite != nil {
			if payload, err = dstCfg.BeforeWrite(payload); err != nil {
				return err
			}
		}
		_, err = tmp.Write(payload)
		return err
	})
	if loadErr != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &ConvertError{Stage: "load", Err: loadErr}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &ConvertError{Stage: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &ConvertError{Stage: "write", Err: err}
	}
	if err := os.Rename(tmpPath, dstPath); err != nil {
		os.Remove(tmpPath)
		return &ConvertError{Stage: "write", Err: err}
	}
	return nil
}
