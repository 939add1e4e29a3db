package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/eapache/channels"

	"caskdb/internal/index"
	"caskdb/internal/segment"
)

const (
	MetaFilename    = "db.meta"
	KeysFilename    = "keys.idx"
	LiveSetFilename = "live.idx"
	LockFilename    = "db.lock"

	// DefaultCheckpointInterval is how often the checkpoint worker
	// persists all state between the one-shot checkpoint at shutdown.
	DefaultCheckpointInterval = 60 * time.Second
)

// DB is the log-structured storage engine. Values are appended to a single
// growing segment file; the key directory maps each key to the location of
// its latest value, and an independently persisted live set records which
// locations currently hold live data. A read is only served when the key
// directory's location is corroborated by the live set.
//
// Deletes drop the key from both indexes synchronously and hand the
// vacated byte range to a background worker, which scrubs it in place.
// Durability is bounded by the periodic checkpoint: appends reach the OS
// immediately, but the indexes only reach disk when a checkpoint runs.
//
// The engine holds two distinct locks: mu serializes mutations (Put,
// Delete, Checkpoint) against each other, rmu serializes reads against
// each other. Reads are deliberately not excluded against mutations; a
// reader may observe a location while a concurrent delete is retiring it,
// with bounded staleness.
type DB struct {
	dir string

	segment *segment.Segment
	meta    segment.Meta
	keys    *index.KeyDir
	live    *index.LiveSet

	mu  sync.Mutex // mutations: Put, Delete, Checkpoint
	rmu sync.Mutex // reads: Get

	tombstones *channels.InfiniteChannel

	checkpointInterval time.Duration
	lockFile           *os.File
	shutdown           chan struct{}
	closed             atomic.Bool
	workers            sync.WaitGroup
}

// Open opens (or creates) the database in the given directory, recovers
// the persisted state, and starts the deletion and checkpoint workers.
func Open(directory string, options ...Option) (*DB, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("caskdb: create database directory: %w", err)
	}

	// Lockfile guards against a second process opening the same directory.
	lockFile, err := os.OpenFile(
		filepath.Join(directory, LockFilename),
		os.O_CREATE|os.O_RDWR,
		0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("caskdb: create lock file: %w", err)
	}
	if err = syscall.Flock(int(lockFile.Fd()), syscall.LOCK_EX); err != nil {
		_ = lockFile.Close()
		return nil, fmt.Errorf("caskdb: lock database directory: %w", err)
	}

	db := &DB{
		dir:                directory,
		keys:               index.NewKeyDir(),
		live:               index.NewLiveSet(),
		tombstones:         channels.NewInfiniteChannel(),
		checkpointInterval: DefaultCheckpointInterval,
		lockFile:           lockFile,
		shutdown:           make(chan struct{}),
	}
	for _, option := range options {
		option.apply(db)
	}

	db.segment, err = segment.Open(directory, segment.DefaultID)
	if err != nil {
		_ = lockFile.Close()
		return nil, err
	}
	if err = db.recover(); err != nil {
		_ = lockFile.Close()
		return nil, err
	}

	db.workers.Add(2)
	go db.deletionWorker()
	go db.checkpointWorker()

	return db, nil
}

// recover loads segment metadata, the live set, and the key directory
// snapshot. Missing or empty files leave the corresponding structure in
// its empty state; this is how a fresh directory starts.
func (db *DB) recover() error {
	meta, err := segment.LoadMeta(filepath.Join(db.dir, MetaFilename))
	if err != nil {
		return err
	}
	db.meta = meta

	if err := db.live.Load(filepath.Join(db.dir, LiveSetFilename)); err != nil {
		return err
	}
	return db.keys.Load(filepath.Join(db.dir, KeysFilename))
}

// Put appends value to the segment and records its location under key.
// Any location previously recorded for key is orphaned, not reclaimed.
func (db *DB) Put(key string, value []byte) error {
	if db.closed.Load() {
		return ErrClosed
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	offset, length, err := db.segment.Append(value)
	if err != nil {
		return err
	}
	db.meta.FileOffset = offset + int64(length)

	loc := index.Location{
		SegmentID: db.segment.ID(),
		Offset:    offset,
		Length:    length,
	}
	db.live.Insert(loc)
	db.keys.Set(key, loc)

	return nil
}

// Get returns the value stored under key, or ErrNotFound. The key
// directory's location is corroborated against the live set before the
// segment is read; a location the live set does not corroborate is
// treated as logically deleted.
func (db *DB) Get(key string) ([]byte, error) {
	if db.closed.Load() {
		return nil, ErrClosed
	}

	db.rmu.Lock()
	defer db.rmu.Unlock()

	loc, ok := db.keys.Get(key)
	if !ok {
		return nil, ErrNotFound
	}

	live, ok, err := db.live.Search(loc)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	return db.segment.ReadAt(live.Offset, live.Length)
}

// Delete removes key from both indexes and schedules its byte range for
// physical erasure. Deleting an absent key is a no-op.
func (db *DB) Delete(key string) error {
	if db.closed.Load() {
		return ErrClosed
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	loc, ok := db.keys.Delete(key)
	if !ok {
		return nil
	}
	db.live.Delete(loc)
	db.tombstones.In() <- loc

	return nil
}

// Checkpoint persists the segment metadata, the live set, and the key
// directory snapshot to their files.
func (db *DB) Checkpoint() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return errors.Join(
		db.meta.Save(filepath.Join(db.dir, MetaFilename)),
		db.live.Save(filepath.Join(db.dir, LiveSetFilename)),
		db.keys.Save(filepath.Join(db.dir, KeysFilename)),
	)
}

// Close stops the background workers, runs a final checkpoint, and
// releases the directory lock. Callers must not issue further operations
// once Close has begun; there is no drain barrier for in-flight calls.
func (db *DB) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	close(db.shutdown)
	db.workers.Wait()
	db.tombstones.Close()

	var errs []error
	if err := db.Checkpoint(); err != nil {
		errs = append(errs, err)
	}
	if err := syscall.Flock(int(db.lockFile.Fd()), syscall.LOCK_UN); err != nil {
		errs = append(errs, fmt.Errorf("caskdb: unlock database directory: %w", err))
	}
	if err := db.lockFile.Close(); err != nil {
		errs = append(errs, fmt.Errorf("caskdb: close lock file: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("caskdb: close database: %w", errors.Join(errs...))
	}
	return nil
}
