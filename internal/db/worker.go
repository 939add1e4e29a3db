package db

import (
	"time"

	"caskdb/internal/index"
	"caskdb/internal/log"
)

// deletionWorker drains the tombstone queue one record at a time and
// scrubs each byte range in the segment file. Erase failures are logged
// and dropped; the Delete call that produced the tombstone has long since
// returned. Tombstones still queued at shutdown are skipped: the space is
// already untracked, just not yet zeroed.
func (db *DB) deletionWorker() {
	defer db.workers.Done()

	for {
		select {
		case <-db.shutdown:
			return
		case v, ok := <-db.tombstones.Out():
			if !ok {
				return
			}
			loc := v.(index.Location)
			if err := db.segment.Erase(loc.Offset, loc.Length); err != nil {
				log.Error("erase tombstone %s: %v", loc, err)
			}
		}
	}
}

// checkpointWorker persists all engine state at a fixed interval. Errors
// are logged only; the final synchronous checkpoint happens in Close.
func (db *DB) checkpointWorker() {
	defer db.workers.Done()

	ticker := time.NewTicker(db.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-db.shutdown:
			return
		case <-ticker.C:
			if err := db.Checkpoint(); err != nil {
				log.Error("periodic checkpoint: %v", err)
			}
		}
	}
}
