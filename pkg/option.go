package pkg

import (
	"time"

	"caskdb/internal/db"
)

// Option configures the underlying engine at Open time.
type Option = db.Option

// WithCheckpointInterval overrides the periodic checkpoint interval.
func WithCheckpointInterval(interval time.Duration) Option {
	return db.WithCheckpointInterval(interval)
}
