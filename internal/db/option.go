package db

import "time"

type Option interface {
	apply(*DB)
}

type OptionFunc func(*DB)

func (f OptionFunc) apply(db *DB) {
	f(db)
}

// WithCheckpointInterval overrides how often the background worker
// persists the indexes and segment metadata.
func WithCheckpointInterval(interval time.Duration) Option {
	return OptionFunc(func(db *DB) {
		db.checkpointInterval = interval
	})
}
