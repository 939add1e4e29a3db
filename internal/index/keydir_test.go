package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyDirSetGetDelete(t *testing.T) {
	dir := NewKeyDir()

	_, ok := dir.Get("missing")
	require.False(t, ok)

	a := Location{SegmentID: 1, Offset: 0, Length: 3}
	b := Location{SegmentID: 1, Offset: 3, Length: 4}

	dir.Set("k", a)
	loc, ok := dir.Get("k")
	require.True(t, ok)
	require.Equal(t, a, loc)

	// Last put wins.
	dir.Set("k", b)
	loc, ok = dir.Get("k")
	require.True(t, ok)
	require.Equal(t, b, loc)
	require.Equal(t, 1, dir.Len())

	removed, ok := dir.Delete("k")
	require.True(t, ok)
	require.Equal(t, b, removed)

	_, ok = dir.Delete("k")
	require.False(t, ok)
	require.Equal(t, 0, dir.Len())
}

func TestKeyDirSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.idx")

	dir := NewKeyDir()
	dir.Set("a", Location{SegmentID: 1, Offset: 0, Length: 1})
	dir.Set("ab", Location{SegmentID: 1, Offset: 1, Length: 1})
	dir.Set("abc", Location{SegmentID: 1, Offset: 2, Length: 1})
	require.NoError(t, dir.Save(path))

	loaded := NewKeyDir()
	require.NoError(t, loaded.Load(path))
	require.Equal(t, dir.Len(), loaded.Len())

	for _, key := range []string{"a", "ab", "abc"} {
		want, _ := dir.Get(key)
		got, ok := loaded.Get(key)
		require.True(t, ok, "expected %q after reload", key)
		require.Equal(t, want, got)
	}
}

func TestKeyDirLoadMissingFile(t *testing.T) {
	dir := NewKeyDir()
	require.NoError(t, dir.Load(filepath.Join(t.TempDir(), "absent.idx")))
	require.Equal(t, 0, dir.Len())
}
