package segment

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// sizeUnit is the scale of the persisted db_file_size field: the file
// stores the size in 1024-byte units, and loading multiplies it back out
// to bytes. Saving must mirror the division exactly.
const sizeUnit = 1024

// Meta is the segment metadata record: the segment's byte size and the
// next write position. In memory both fields are plain byte counts.
type Meta struct {
	FileSize   int64 `json:"db_file_size"`
	FileOffset int64 `json:"db_file_offset"`
}

// LoadMeta reads the metadata JSON from path, scaling the stored size
// unit back to bytes. A missing or empty file yields the zero Meta.
func LoadMeta(path string) (Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Meta{}, nil
		}
		return Meta{}, fmt.Errorf("caskdb: load segment metadata: %w", err)
	}
	if len(data) == 0 {
		return Meta{}, nil
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, fmt.Errorf("caskdb: decode segment metadata %s: %w", path, err)
	}
	m.FileSize *= sizeUnit
	return m, nil
}

// Save writes the metadata to path, storing the size in 1024-byte units.
func (m Meta) Save(path string) error {
	onDisk := Meta{
		FileSize:   m.FileSize / sizeUnit,
		FileOffset: m.FileOffset,
	}
	data, err := json.Marshal(onDisk)
	if err != nil {
		return fmt.Errorf("caskdb: encode segment metadata: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("caskdb: save segment metadata: %w", err)
	}
	return nil
}
