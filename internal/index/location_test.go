package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocationString(t *testing.T) {
	loc := Location{SegmentID: 1, Offset: 128, Length: 42}
	require.Equal(t, "1:128:42", loc.String())
}

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("1:128:42")
	require.NoError(t, err)
	require.Equal(t, Location{SegmentID: 1, Offset: 128, Length: 42}, loc)

	roundTrip, err := ParseLocation(loc.String())
	require.NoError(t, err)
	require.Equal(t, loc, roundTrip)
}

func TestParseLocationMalformed(t *testing.T) {
	for _, s := range []string{"", "1:2", "1:2:3:4", "a:b:c", "1:", "1:x:3"} {
		_, err := ParseLocation(s)
		require.ErrorIs(t, err, ErrMalformedRecord, "input %q", s)
	}
}

func TestSameExtentIgnoresOffset(t *testing.T) {
	a := Location{SegmentID: 1, Offset: 0, Length: 5}
	b := Location{SegmentID: 1, Offset: 512, Length: 5}
	c := Location{SegmentID: 1, Offset: 0, Length: 6}
	d := Location{SegmentID: 2, Offset: 0, Length: 5}

	require.True(t, a.SameExtent(b))
	require.False(t, a.SameExtent(c))
	require.False(t, a.SameExtent(d))

	// Full structural equality still distinguishes offsets.
	require.NotEqual(t, a, b)
}
