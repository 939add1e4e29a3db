package index

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// KeyDir is the authoritative in-memory mapping from logical key to the
// location of its latest value. Unique keys, last put wins; the location
// superseded by an overwrite is orphaned, not reclaimed.
//
// The whole mapping is persisted as a single msgpack blob at checkpoint
// time and reloaded on startup.
//
// Individual operations are guarded by an internal lock so that readers
// and writers running under the engine's separate read and write locks
// cannot fault the map; the engine-level locks still decide which
// operations are mutually excluded.
type KeyDir struct {
	mu      sync.RWMutex
	entries map[string]Location
}

func NewKeyDir() *KeyDir {
	return &KeyDir{entries: make(map[string]Location)}
}

// Get returns the location recorded for key.
func (d *KeyDir) Get(key string) (Location, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	loc, ok := d.entries[key]
	return loc, ok
}

// Set records loc as the current location for key, replacing any previous
// entry.
func (d *KeyDir) Set(key string, loc Location) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[key] = loc
}

// Delete removes key and returns the location it mapped to, if any.
func (d *KeyDir) Delete(key string) (Location, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	loc, ok := d.entries[key]
	if ok {
		delete(d.entries, key)
	}
	return loc, ok
}

// Len returns the number of keys in the directory.
func (d *KeyDir) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.entries)
}

// Load reads the snapshot blob from path. A missing or empty file leaves
// the directory empty.
func (d *KeyDir) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("caskdb: load key directory: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	entries := make(map[string]Location)
	if err := msgpack.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("caskdb: decode key directory %s: %w", path, err)
	}

	d.mu.Lock()
	d.entries = entries
	d.mu.Unlock()
	return nil
}

// Save truncates path and writes the whole mapping as one blob.
func (d *KeyDir) Save(path string) error {
	d.mu.RLock()
	data, err := msgpack.Marshal(d.entries)
	d.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("caskdb: encode key directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("caskdb: save key directory: %w", err)
	}
	return nil
}
