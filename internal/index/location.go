package index

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedRecord is returned when a serialized location record cannot
// be parsed back into a Location. It indicates corrupt index state rather
// than a missing entry.
var ErrMalformedRecord = fmt.Errorf("caskdb: malformed location record")

// Location identifies a contiguous byte range within one data segment.
type Location struct {
	SegmentID int
	Offset    int64
	Length    int
}

// String serializes the location as "segmentId:offset:length". This form
// is what the live set stores and what the index files persist.
func (l Location) String() string {
	return strconv.Itoa(l.SegmentID) + ":" +
		strconv.FormatInt(l.Offset, 10) + ":" +
		strconv.Itoa(l.Length)
}

// ParseLocation parses the "segmentId:offset:length" form produced by
// Location.String.
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Location{}, fmt.Errorf("%w: %q", ErrMalformedRecord, s)
	}

	segment, err := strconv.Atoi(parts[0])
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q", ErrMalformedRecord, s)
	}
	offset, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q", ErrMalformedRecord, s)
	}
	length, err := strconv.Atoi(parts[2])
	if err != nil {
		return Location{}, fmt.Errorf("%w: %q", ErrMalformedRecord, s)
	}

	return Location{SegmentID: segment, Offset: offset, Length: length}, nil
}

// SameExtent reports whether two locations describe the same segment and
// byte length. Offset is not part of the comparison: the live set uses
// this as a coarse liveness check against serialized records, not as an
// exact point lookup. Full structural equality is the ordinary == on
// Location values.
func (l Location) SameExtent(other Location) bool {
	return l.SegmentID == other.SegmentID && l.Length == other.Length
}
