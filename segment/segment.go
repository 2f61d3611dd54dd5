package segment

import (
	"fmt"

	cerrors "github.com/cockroachdb/errors"
	"github.com/segviz/segmentation/memutils"
)

// Segment is a logical unit of memory with a name, a requested size, and (once it has been
// placed) a base and limit address within main memory.
//
// Number, name and size are fixed at creation. Base and limit are written by the placement
// engine; before that the segment is unplaced and both read as 0.
type Segment struct {
	number int
	name   string
	size   int

	base   int
	limit  int
	placed bool
}

// New creates an unplaced segment. The size must be a positive integer; anything else is a
// caller input error and memutils.InvalidSizeError is returned.
func New(number int, name string, size int) (*Segment, error) {
	err := memutils.CheckPositive(size, fmt.Sprintf("size of segment %d", number))
	if err != nil {
		return nil, err
	}
	if number < 0 {
		return nil, cerrors.Newf("segment number must not be negative, got %d", number)
	}

	return &Segment{
		number: number,
		name:   name,
		size:   size,
	}, nil
}

// Number returns the 0-based sequence index assigned when the segment was created
func (s *Segment) Number() int { return s.number }

// Name returns the display name of the segment
func (s *Segment) Name() string { return s.name }

// SetName changes the display name of the segment
func (s *Segment) SetName(name string) { s.name = name }

// Size returns the requested size of the segment in bytes
func (s *Segment) Size() int { return s.size }

// Base returns the offset of the start of the segment within main memory
func (s *Segment) Base() int { return s.base }

// Limit returns the offset one past the end of the segment within main memory
func (s *Segment) Limit() int { return s.limit }

// Placed returns true once the segment has been assigned a base and limit
func (s *Segment) Placed() bool { return s.placed }

// Place assigns the segment to start at base. Limit is always base + size.
func (s *Segment) Place(base int) {
	memutils.DebugCheckPositive(s.size, "segment size")
	s.base = base
	s.limit = base + s.size
	s.placed = true
}

// Reset returns the segment to its unplaced state
func (s *Segment) Reset() {
	s.base = 0
	s.limit = 0
	s.placed = false
}

// Overlaps returns true if both segments are placed and their [base, limit) intervals
// share at least one address
func (s *Segment) Overlaps(other *Segment) bool {
	if !s.placed || !other.placed {
		return false
	}

	return s.base < other.limit && other.base < s.limit
}

// CompareTo orders segments by base address. It returns a negative value when s starts
// before other, a positive value when it starts after, and 0 otherwise. A nil other
// sorts first.
func (s *Segment) CompareTo(other *Segment) int {
	if s == other {
		return 0
	}
	if other == nil {
		return 1
	}
	if s.base > other.base {
		return 1
	}
	if s.base < other.base {
		return -1
	}
	return 0
}

// Compare is CompareTo in the two-argument form expected by slices.SortFunc
func Compare(a, b *Segment) int {
	if a == nil {
		if b == nil {
			return 0
		}
		return -1
	}
	return a.CompareTo(b)
}

func (s *Segment) String() string {
	if !s.placed {
		return fmt.Sprintf("%d:%s (%d bytes, unplaced)", s.number, s.name, s.size)
	}
	return fmt.Sprintf("%d:%s (%d bytes, %d - %d)", s.number, s.name, s.size, s.base, s.limit)
}
