package segment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// FillerByte is what Erase overwrites tombstoned ranges with. The file
// keeps its length; only the content is scrubbed.
const FillerByte = ' '

// DefaultID is the id of the single data segment. The engine never rolls
// to a second segment.
const DefaultID = 1

var ErrShortRead = errors.New("caskdb: short segment read")

// Segment manages the single append-only data file of a database
// directory. Values are written back-to-back with no framing; their
// offsets and lengths are tracked by the indexes, never by the file
// itself. Files are opened per operation, so a Segment carries no open
// handles of its own.
//
// Appends must be serialized by the caller (the engine's write lock);
// reads and erases are plain positional I/O.
type Segment struct {
	dir string
	id  int
}

// Open ensures the segment file exists in dir and returns a handle for it.
func Open(dir string, id int) (*Segment, error) {
	s := &Segment{dir: dir, id: id}
	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("caskdb: open segment %d: %w", id, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("caskdb: open segment %d: %w", id, err)
	}
	return s, nil
}

// ID returns the segment's id.
func (s *Segment) ID() int {
	return s.id
}

// Path returns the segment's file path ("db-<id>" inside the database
// directory).
func (s *Segment) Path() string {
	return filepath.Join(s.dir, "db-"+strconv.Itoa(s.id))
}

// Append writes value at the end of the segment file and returns the
// offset it was written at together with the byte count.
func (s *Segment) Append(value []byte) (offset int64, length int, err error) {
	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, 0, fmt.Errorf("caskdb: append to segment %d: %w", s.id, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("caskdb: append to segment %d: %w", s.id, cerr)
		}
	}()

	offset, err = f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, 0, fmt.Errorf("caskdb: append to segment %d: %w", s.id, err)
	}
	length, err = f.Write(value)
	if err != nil {
		return 0, 0, fmt.Errorf("caskdb: append to segment %d: %w", s.id, err)
	}

	return offset, length, nil
}

// ReadAt reads exactly length bytes starting at offset. A read that comes
// up short (truncated or corrupted file) fails with ErrShortRead.
func (s *Segment) ReadAt(offset int64, length int) ([]byte, error) {
	f, err := os.Open(s.Path())
	if err != nil {
		return nil, fmt.Errorf("caskdb: read segment %d: %w", s.id, err)
	}
	defer f.Close()

	value := make([]byte, length)
	n, err := f.ReadAt(value, offset)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("caskdb: read segment %d at %d+%d, got %d bytes: %w",
				s.id, offset, length, n, ErrShortRead)
		}
		return nil, fmt.Errorf("caskdb: read segment %d: %w", s.id, err)
	}

	return value, nil
}

// Erase overwrites length bytes at offset with the filler byte. The file
// is not shrunk; the range has already been dropped from the indexes and
// this only scrubs its content.
func (s *Segment) Erase(offset int64, length int) (err error) {
	f, err := os.OpenFile(s.Path(), os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("caskdb: erase segment %d: %w", s.id, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("caskdb: erase segment %d: %w", s.id, cerr)
		}
	}()

	filler := bytes.Repeat([]byte{FillerByte}, length)
	if _, err = f.WriteAt(filler, offset); err != nil {
		return fmt.Errorf("caskdb: erase segment %d at %d+%d: %w", s.id, offset, length, err)
	}
	return nil
}
