package segment

import (
	"fmt"
	"math"

	cerrors "github.com/cockroachdb/errors"
	"github.com/segviz/segmentation/memutils"
	"golang.org/x/exp/slices"
)

// Table is the segment table: the collection of segments that are placed together into
// one main memory. Its order is the order the segments were requested in; use Sorted
// or SortByBase to iterate by address.
type Table []*Segment

// Request is a caller's request for a single segment
type Request struct {
	Name string
	Size int
}

// NewTable builds count segments of the same size, named "Segment 0", "Segment 1" and so on
func NewTable(count int, size int) (Table, error) {
	if count < 0 {
		return nil, cerrors.Newf("segment count must not be negative, got %d", count)
	}

	requests := make([]Request, 0, count)
	for i := 0; i < count; i++ {
		requests = append(requests, Request{
			Name: fmt.Sprintf("Segment %d", i),
			Size: size,
		})
	}

	return FromRequests(requests)
}

// FromRequests builds a fresh table from a list of requests. Each segment is numbered
// with its index in requests. Unnamed requests receive the name "Segment <number>".
func FromRequests(requests []Request) (Table, error) {
	table := make(Table, 0, len(requests))
	for number, request := range requests {
		name := request.Name
		if name == "" {
			name = fmt.Sprintf("Segment %d", number)
		}

		seg, err := New(number, name, request.Size)
		if err != nil {
			return nil, err
		}
		table = append(table, seg)
	}

	return table, nil
}

// RequiredTotal returns the sum of all segment sizes in the table. A sum that does not fit
// in an int saturates at math.MaxInt.
func (t Table) RequiredTotal() int {
	total, ok := t.SumSizes()
	if !ok {
		return math.MaxInt
	}
	return total
}

// SumSizes returns the sum of all segment sizes in the table. ok is false when the sum
// does not fit in an int.
func (t Table) SumSizes() (total int, ok bool) {
	for _, seg := range t {
		if seg == nil || seg.size <= 0 {
			continue
		}
		if total > math.MaxInt-seg.size {
			return math.MaxInt, false
		}
		total += seg.size
	}
	return total, true
}

// CheckRequests verifies that every entry in the table is non-nil and has a positive size
func (t Table) CheckRequests() error {
	for index, seg := range t {
		if seg == nil {
			return cerrors.Wrapf(memutils.NilSegmentError, "entry %d", index)
		}
		err := memutils.CheckPositive(seg.size, fmt.Sprintf("size of segment %d", seg.number))
		if err != nil {
			return err
		}
	}

	return nil
}

// Reset returns every segment in the table to its unplaced state
func (t Table) Reset() {
	for _, seg := range t {
		if seg != nil {
			seg.Reset()
		}
	}
}

// AllPlaced returns true if every segment in the table has a base and limit
func (t Table) AllPlaced() bool {
	for _, seg := range t {
		if seg == nil || !seg.placed {
			return false
		}
	}
	return true
}

// SortByBase sorts the table in place by base address. Segments sharing a base keep
// their relative order.
func (t Table) SortByBase() {
	slices.SortStableFunc(t, Compare)
}

// Sorted returns a copy of the table ordered by base address, leaving t untouched
func (t Table) Sorted() Table {
	sorted := slices.Clone(t)
	sorted.SortByBase()
	return sorted
}

// Validate checks that every segment is placed inside [0, capacity), that its width
// matches its size, and that no two segments overlap.
func (t Table) Validate(capacity int) error {
	err := t.CheckRequests()
	if err != nil {
		return err
	}

	sorted := t.Sorted()
	previousLimit := 0
	for index, seg := range sorted {
		if !seg.placed {
			return cerrors.Newf("segment %d (%s) has not been placed", seg.number, seg.name)
		}
		if seg.limit-seg.base != seg.size {
			return cerrors.Newf("segment %d (%s) spans %d - %d but has size %d", seg.number, seg.name, seg.base, seg.limit, seg.size)
		}
		if seg.base < 0 || seg.limit > capacity {
			return cerrors.Wrapf(memutils.OutOfRangeError, "segment %d (%s) spans %d - %d in a memory of %d bytes", seg.number, seg.name, seg.base, seg.limit, capacity)
		}
		if index > 0 && seg.base < previousLimit {
			return cerrors.Wrapf(memutils.OverlapError, "segment %d (%s) starts at %d, before the previous segment ends at %d", seg.number, seg.name, seg.base, previousLimit)
		}
		previousLimit = seg.limit
	}

	return nil
}
