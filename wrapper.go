package maplog

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// Log is an embedded, single-writer, append-only key-value store: an
// exclusively-locked file, an in-memory Container, a background writer,
// the live integrity chain state, and the list of secondary indexes
// currently attached. The file is held under an exclusive advisory lock
// via golang.org/x/sys/unix.Flock for the lifetime of the Log.
type Log[K comparable, V any] struct {
	mu sync.RWMutex

	path string
	file *os.File
	cfg  Config

	container Container[K, V]
	indexes   []liveIndex[K, V]

	w      *writer
	closed bool
}

// OpenOrCreate opens path, creating it if absent, takes an exclusive
// advisory lock, replays any existing records into container, and starts
// the background writer. container should be empty; OpenOrCreate populates
// it from the log.
func OpenOrCreate[K comparable, V any](path string, cfg Config, container Container[K, V]) (*Log[K, V], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		return nil, &OpenError{Path: path, Err: fmt.Errorf("%w: %v", ErrLocked, err)}
	}

	log := &Log[K, V]{path: path, file: file, cfg: cfg, container: container}

	if _, err := replay[K, V](file, cfg.Format, &cfg.Integrity, cfg.AfterRead, func(op MapOperation[K, V]) error {
		switch op.Kind {
		case OpInsert:
			container.Insert(op.Key, op.Value)
		case OpRemove:
			container.Remove(op.Key)
		}
		return nil
	}); err != nil {
		unix.Flock(int(file.Fd()), unix.LOCK_UN)
		file.Close()
		return nil, err
	}
	log.cfg = cfg

	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		unix.Flock(int(file.Fd()), unix.LOCK_UN)
		file.Close()
		return nil, &OpenError{Path: path, Err: err}
	}

	log.w = newWriter(file, cfg.WriteErrorSink)
	return log, nil
}

// Get returns the value for key and whether it is present. It never
// touches the log file.
func (l *Log[K, V]) Get(key K) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.container.Get(key)
}

// Len returns the number of entries currently held in memory.
func (l *Log[K, V]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.container.Len()
}

// ReadOnlyContainer is the read-only subset of Container that Map exposes:
// lookup, enumeration, and size, but no mutation. The container's own read
// API is the contract; Log does not re-export these operations
// individually beyond Get and Len.
type ReadOnlyContainer[K comparable, V any] interface {
	Get(key K) (V, bool)
	ForEach(visit func(key K, value V))
	Len() int
}

// Map returns a read-only view over log's in-memory container — the way
// to iterate, range over, or otherwise inspect a SortedContainer or any
// other backing Container through the public API. Each call on the
// returned view takes log's internal read lock for its own duration, so a
// single ForEach cannot interleave with a concurrent Insert/Remove, though
// two separate calls on the view may.
func (l *Log[K, V]) Map() ReadOnlyContainer[K, V] {
	return &logMapView[K, V]{log: l}
}

type logMapView[K comparable, V any] struct {
	log *Log[K, V]
}

func (m *logMapView[K, V]) Get(key K) (V, bool) {
	m.log.mu.RLock()
	defer m.log.mu.RUnlock()
	return m.log.container.Get(key)
}

func (m *logMapView[K, V]) Len() int {
	m.log.mu.RLock()
	defer m.log.mu.RUnlock()
	return m.log.container.Len()
}

func (m *logMapView[K, V]) ForEach(visit func(key K, value V)) {
	m.log.mu.RLock()
	defer m.log.mu.RUnlock()
	m.log.container.ForEach(visit)
}

// Insert stores value under key, applying it to the in-memory container
// immediately and enqueuing the encoded record for the background writer.
// Once Insert returns without error, the map reflects the write, the
// record is enqueued, and every live index has been updated — disk
// durability follows later (or immediately via InsertSync).
func (l *Log[K, V]) Insert(key K, value V) (old V, hadOld bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload, err := encodeInsert(l.cfg.Format, key, value, &l.cfg.Integrity)
	if err != nil {
		var zero V
		return zero, false, &SerializeError{Err: err}
	}
	if l.cfg.BeforeWrite != nil {
		if payload, err = l.cfg.BeforeWrite(payload); err != nil {
			var zero V
			return zero, false, &SerializeError{Err: err}
		}
	}

	old, hadOld = l.container.Insert(key, value)
	for _, idx := range l.indexes {
		idx.onInsert(key, value, old, hadOld)
	}
	l.w.enqueue(payload)
	return old, hadOld, nil
}

// Remove deletes key if present, applying it to the in-memory container and
// every live index before enqueuing the encoded record. A missing key is a
// no-op: nothing is encoded, nothing is enqueued, and the integrity chain
// is not advanced.
func (l *Log[K, V]) Remove(key K) (old V, hadOld bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	old, hadOld = l.container.Get(key)
	if !hadOld {
		return old, false, nil
	}

	payload, err := encodeRemove(l.cfg.Format, key, &l.cfg.Integrity)
	if err != nil {
		return old, false, &SerializeError{Err: err}
	}
	if l.cfg.BeforeWrite != nil {
		if payload, err = l.cfg.BeforeWrite(payload); err != nil {
			return old, false, &SerializeError{Err: err}
		}
	}

	l.container.Remove(key)
	for _, idx := range l.indexes {
		idx.onRemove(key, old)
	}
	l.w.enqueue(payload)
	return old, true, nil
}

// InsertSync behaves like Insert, but drains the asynchronous write queue
// and then writes the record inline on the caller's goroutine, reporting
// any file I/O error synchronously. Draining first guarantees no
// interleaving between the sync and async write paths.
func (l *Log[K, V]) InsertSync(key K, value V) (old V, hadOld bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload, err := encodeInsert(l.cfg.Format, key, value, &l.cfg.Integrity)
	if err != nil {
		var zero V
		return zero, false, &SerializeError{Err: err}
	}
	if l.cfg.BeforeWrite != nil {
		if payload, err = l.cfg.BeforeWrite(payload); err != nil {
			var zero V
			return zero, false, &SerializeError{Err: err}
		}
	}

	old, hadOld = l.container.Insert(key, value)
	for _, idx := range l.indexes {
		idx.onInsert(key, value, old, hadOld)
	}

	l.w.drain()
	if _, err := l.file.Write(payload); err != nil {
		return old, hadOld, err
	}
	if err := l.file.Sync(); err != nil {
		return old, hadOld, err
	}
	return old, hadOld, nil
}

// RemoveSync behaves like Remove, draining the asynchronous queue and
// writing inline.
func (l *Log[K, V]) RemoveSync(key K) (old V, hadOld bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	old, hadOld = l.container.Get(key)
	if !hadOld {
		return old, false, nil
	}

	payload, err := encodeRemove(l.cfg.Format, key, &l.cfg.Integrity)
	if err != nil {
		return old, false, &SerializeError{Err: err}
	}
	if l.cfg.BeforeWrite != nil {
		if payload, err = l.cfg.BeforeWrite(payload); err != nil {
			return old, false, &SerializeError{Err: err}
		}
	}

	l.container.Remove(key)
	for _, idx := range l.indexes {
		idx.onRemove(key, old)
	}

	l.w.drain()
	if _, err := l.file.Write(payload); err != nil {
		return old, true, err
	}
	if err := l.file.Sync(); err != nil {
		return old, true, err
	}
	return old, true, nil
}

// CreateIndex attaches a secondary index to log, keyed by the value
// derived from each entry's current V via derive, and populates it from
// the entries already present. The returned handle stays live: every
// subsequent Insert/Remove on log updates it. A free function rather than
// a method, since Go methods cannot introduce new type parameters (IK).
func CreateIndex[K cmp.Ordered, V any, IK cmp.Ordered](log *Log[K, V], derive func(V) IK) *Index[IK, K, V] {
	log.mu.Lock()
	defer log.mu.Unlock()

	idx := newIndex[IK, K, V](derive)
	log.container.ForEach(func(key K, value V) {
		idx.onInsert(key, value, value, false)
	})
	log.indexes = append(log.indexes, idx)
	return idx
}

// RemoveHistory compacts the log: it rewrites it from the current
// in-memory state as a fresh sequence of Insert records, optionally under
// a new integrity configuration, then atomically swaps it in. The writer
// queue is drained first. The exclusive lock is not held across the swap:
// after the rename the old file is unlocked and closed, and the path is
// reopened and locked again, so the path is briefly unlocked in between.
// Grounded on original_source's remove_history concept (examples/convert.rs
// shares the same rewrite-into-temp-file shape).
func (l *Log[K, V]) RemoveHistory(newIntegrity *IntegrityConfig) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.w.drain()

	dir := filepath.Dir(l.path)
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s-%s.tmp", filepath.Base(l.path), uuid.NewString()))

	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return &ConvertError{Stage: "tempfile", Err: err}
	}

	integrity := l.cfg.Integrity
	if newIntegrity != nil {
		integrity = *newIntegrity
	} else {
		integrity = IntegrityConfig{Kind: integrity.Kind}
	}

	var encodeErr error
	l.container.ForEach(func(key K, value V) {
		if encodeErr != nil {
			return
		}
		payload, err := encodeInsert(l.cfg.Format, key, value, &integrity)
		if err != nil {
			encodeErr = err
			return
		}
		if l.cfg.BeforeWrite != nil {
			if payload, err = l.cfg.BeforeWrite(payload); err != nil {
				encodeErr = err
				return
			}
		}
		if _, err := tmp.Write(payload); err != nil {
			encodeErr = err
		}
	})
	if encodeErr != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &ConvertError{Stage: "write", Err: encodeErr}
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

	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return &ConvertError{Stage: "write", Err: err}
	}

	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	l.file.Close()

	file, err := os.OpenFile(l.path, os.O_RDWR, 0o644)
	if err != nil {
		return &OpenError{Path: l.path, Err: err}
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		return &OpenError{Path: l.path, Err: fmt.Errorf("%w: %v", ErrLocked, err)}
	}
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		file.Close()
		return &OpenError{Path: l.path, Err: err}
	}

	l.file = file
	l.cfg.Integrity = integrity
	l.w = newWriter(file, l.cfg.WriteErrorSink)
	return nil
}

// Close drains and stops the background writer, releases the exclusive
// lock, and closes the file handle. Close is idempotent.
func (l *Log[K, V]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.w.close()
	unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	return l.file.Close()
}
