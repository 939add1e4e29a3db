package index

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"caskdb/internal/radix"
)

// recordsPerLine is how many serialized records are written before a
// newline is inserted in the persisted live set file. The newline is
// purely for readability of the file.
const recordsPerLine = 40

// LiveSet tracks which on-disk locations currently hold live values. It is
// persisted independently of the key index, so a reader can corroborate a
// key's recorded location against it before trusting the location for a
// read.
//
// The set is backed by a radix tree over the serialized record strings. An
// auxiliary map of the inserted strings is kept purely for iteration
// during persistence; the tree's traversal order is not exposed.
//
// Individual operations are guarded by an internal lock; the engine-level
// read and write locks decide which operations are mutually excluded
// against each other.
type LiveSet struct {
	mu       sync.RWMutex
	tree     *radix.Tree
	inserted map[string]struct{}
}

func NewLiveSet() *LiveSet {
	return &LiveSet{
		tree:     radix.New(),
		inserted: make(map[string]struct{}),
	}
}

// Insert adds the location's serialized form to the set.
func (s *LiveSet) Insert(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := loc.String()
	s.tree.Insert(key)
	s.inserted[key] = struct{}{}
}

// Delete removes the location from the set if present.
func (s *LiveSet) Delete(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := loc.String()
	if s.tree.Find(key) {
		s.tree.Delete(key)
	}
	delete(s.inserted, key)
}

// Search performs the coarse liveness check for loc. The query record is
// serialized and matched against the tree root; every non-empty fragment
// of the resulting (common, remaining-prefix, remaining-word) triple is
// re-parsed as a candidate record and compared to the query with
// Location.SameExtent. The first candidate that matches is returned.
//
// Note this is an existence check over serialized fragments, not an exact
// point lookup; callers depend on its current semantics.
func (s *LiveSet) Search(loc Location) (Location, bool, error) {
	s.mu.RLock()
	key := loc.String()
	common, restPrefix, restWord := s.tree.Match(key)
	s.mu.RUnlock()

	for _, fragment := range []string{common, restPrefix, restWord} {
		if fragment == "" {
			continue
		}
		candidate, err := ParseLocation(fragment)
		if err != nil {
			return Location{}, false, err
		}
		if loc.SameExtent(candidate) {
			return candidate, true, nil
		}
	}

	return Location{}, false, nil
}

// Len returns the number of records in the set.
func (s *LiveSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.inserted)
}

// Load reads the persisted set from path. A missing or empty file is not
// an error; it leaves the set empty. Records are comma-separated with
// occasional newlines; empty fields are skipped.
func (s *LiveSet) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("caskdb: load live set: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		for _, field := range strings.Split(strings.TrimSpace(line), ",") {
			if field == "" {
				continue
			}
			loc, err := ParseLocation(field)
			if err != nil {
				return fmt.Errorf("caskdb: load live set %s: %w", path, err)
			}
			s.Insert(loc)
		}
	}

	return nil
}

// Save truncates path and rewrites the whole set as comma-separated
// records, inserting a newline after every recordsPerLine-th record.
func (s *LiveSet) Save(path string) error {
	s.mu.RLock()
	var b strings.Builder
	written := 0
	for key := range s.inserted {
		b.WriteString(key)
		b.WriteByte(',')
		written++
		if written%recordsPerLine == 0 {
			b.WriteByte('\n')
		}
	}
	s.mu.RUnlock()

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("caskdb: save live set: %w", err)
	}
	return nil
}
