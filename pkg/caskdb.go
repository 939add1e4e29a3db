package pkg

import (
	"caskdb/internal/db"
)

var _ ReadWriterCloser = (*Cask)(nil)

// Cask is a handle to an open database. All methods are safe for
// concurrent use, with the staleness caveats documented on the engine.
type Cask struct {
	db *db.DB
}

// Open opens the database whose files reside in the given directory,
// recovering any previously checkpointed state.
func Open(directory string, options ...Option) (*Cask, error) {
	database, err := db.Open(directory, options...)
	if err != nil {
		return nil, err
	}
	return &Cask{db: database}, nil
}

func (c *Cask) Get(key string) ([]byte, error) {
	return c.db.Get(key)
}

func (c *Cask) Put(key string, value []byte) error {
	return c.db.Put(key, value)
}

func (c *Cask) Delete(key string) error {
	return c.db.Delete(key)
}

// Checkpoint forces a synchronous persistence of all index and metadata
// state, independent of the periodic background checkpoint.
func (c *Cask) Checkpoint() error {
	return c.db.Checkpoint()
}

func (c *Cask) Close() error {
	return c.db.Close()
}
