package pkg

import "io"

type ReadWriterCloser interface {
	Reader
	Writer
	io.Closer
}

type Reader interface {
	// Get gets the value for the given key. It returns db.ErrNotFound if
	// the database does not contain the key or no longer considers its
	// recorded location live.
	Get(key string) (value []byte, err error)
}

type Writer interface {
	// Put sets the value for the given key, overwriting any previous value
	// for that key if it exists. The byte range holding a previous value
	// is orphaned, never reclaimed.
	Put(key string, value []byte) error

	// Delete deletes the value for the given key. It is a blind delete,
	// i.e. it does not return an error if the key does not exist. The
	// vacated byte range is scrubbed asynchronously.
	Delete(key string) error
}
