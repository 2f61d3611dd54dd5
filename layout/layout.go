package layout

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/pkg/errors"
	"github.com/segviz/segmentation/memutils"
	"github.com/segviz/segmentation/segment"
)

// EntryKind distinguishes segments from free space within a Layout
type EntryKind uint32

const (
	EntrySegment EntryKind = iota
	EntryFree
)

// FreeSpaceName is the display name given to every free entry
const FreeSpaceName = "Free Space"

var entryKindMapping = map[EntryKind]string{
	EntrySegment: "Segment",
	EntryFree:    "Free",
}

func (k EntryKind) String() string {
	return entryKindMapping[k]
}

// Entry is a single contiguous region of main memory, either a placed segment or a run
// of free space
type Entry struct {
	Kind EntryKind
	// Number is the segment number, or -1 for free space
	Number int
	Name   string
	Offset int
	Size   int
}

// End returns the offset one past the end of the entry
func (e Entry) End() int { return e.Offset + e.Size }

// IsFree returns true if the entry is free space
func (e Entry) IsFree() bool { return e.Kind == EntryFree }

// Layout is main memory drawn as an ordered list of segment and free entries that cover
// [0, capacity) exactly once
type Layout struct {
	capacity int
	entries  []Entry
}

var _ memutils.Validatable = &Layout{}

// Build reconstructs the layout of main memory from a placed segment table. The segments are
// walked in base order and every gap before a segment, plus any space after the last one, is
// recorded as a free entry. The table itself is not reordered.
func Build(capacity int, segments segment.Table) (*Layout, error) {
	err := memutils.CheckCapacity(capacity)
	if err != nil {
		return nil, err
	}

	err = segments.Validate(capacity)
	if err != nil {
		return nil, err
	}

	layout := &Layout{
		capacity: capacity,
		entries:  make([]Entry, 0, len(segments)*2+1),
	}

	pointer := 0
	for _, seg := range segments.Sorted() {
		if seg.Base() != pointer {
			layout.entries = append(layout.entries, Entry{
				Kind:   EntryFree,
				Number: -1,
				Name:   FreeSpaceName,
				Offset: pointer,
				Size:   seg.Base() - pointer,
			})
			pointer = seg.Base()
		}

		layout.entries = append(layout.entries, Entry{
			Kind:   EntrySegment,
			Number: seg.Number(),
			Name:   seg.Name(),
			Offset: seg.Base(),
			Size:   seg.Size(),
		})
		pointer += seg.Size()
	}

	if pointer < capacity {
		layout.entries = append(layout.entries, Entry{
			Kind:   EntryFree,
			Number: -1,
			Name:   FreeSpaceName,
			Offset: pointer,
			Size:   capacity - pointer,
		})
	}

	memutils.DebugValidate(layout)

	return layout, nil
}

// Capacity returns the size of main memory in bytes
func (l *Layout) Capacity() int { return l.capacity }

// Entries returns the entries of the layout in address order
func (l *Layout) Entries() []Entry {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Len returns the number of entries in the layout
func (l *Layout) Len() int { return len(l.entries) }

// VisitAllRegions will call the provided callback once for each segment and free region in
// address order, stopping at the first error
func (l *Layout) VisitAllRegions(handleRegion func(entry Entry) error) error {
	for _, entry := range l.entries {
		err := handleRegion(entry)
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate performs internal consistency checks on the layout: entries must be contiguous,
// non-empty, free runs must never be adjacent, and together they must cover exactly
// [0, capacity).
func (l *Layout) Validate() error {
	offset := 0
	for index, entry := range l.entries {
		if entry.Offset != offset {
			return errors.Errorf("entry %d (%s) starts at %d, expected %d", index, entry.Name, entry.Offset, offset)
		}
		if entry.Size <= 0 {
			return errors.Errorf("entry %d (%s) has size %d", index, entry.Name, entry.Size)
		}
		if entry.IsFree() && index > 0 && l.entries[index-1].IsFree() {
			return errors.Errorf("entries %d and %d are both free space and should have been merged", index-1, index)
		}
		offset = entry.End()
	}

	if offset != l.capacity {
		return errors.Errorf("layout covers %d bytes, but main memory is %d bytes", offset, l.capacity)
	}

	return nil
}

// AddStatistics sums this layout's occupancy into the statistics currently present in the
// provided memutils.Statistics object
func (l *Layout) AddStatistics(stats *memutils.Statistics) {
	stats.MemoryBytes += l.capacity

	_ = l.VisitAllRegions(func(entry Entry) error {
		if !entry.IsFree() {
			stats.SegmentCount++
			stats.SegmentBytes += entry.Size
		}
		return nil
	})
}

// AddDetailedStatistics sums this layout's segment and free range statistics into the
// statistics currently present in the provided memutils.DetailedStatistics object
func (l *Layout) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	stats.MemoryBytes += l.capacity

	_ = l.VisitAllRegions(func(entry Entry) error {
		if entry.IsFree() {
			stats.AddFreeRange(entry.Size)
		} else {
			stats.AddSegment(entry.Size)
		}
		return nil
	})
}

// PrintDetailedMap writes the whole layout as a single json object
func (l *Layout) PrintDetailedMap(writer *jwriter.Writer) {
	objState := writer.Object()
	defer objState.End()

	l.WriteJSON(objState)
}

// WriteJSON populates a json object with summary information and every region of the layout
func (l *Layout) WriteJSON(json jwriter.ObjectState) {
	var stats memutils.DetailedStatistics
	stats.Clear()
	l.AddDetailedStatistics(&stats)

	json.Name("TotalBytes").Int(l.capacity)
	json.Name("UnusedBytes").Int(stats.FreeBytes())
	json.Name("Segments").Int(stats.SegmentCount)
	json.Name("UnusedRanges").Int(stats.FreeRangeCount)
	json.Name("Fragmentation").Float64(stats.Fragmentation())

	arrayState := json.Name("Regions").Array()
	defer arrayState.End()

	_ = l.VisitAllRegions(func(entry Entry) error {
		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Offset").Int(entry.Offset)
		obj.Name("Type").String(entry.Kind.String())
		obj.Name("Size").Int(entry.Size)

		if !entry.IsFree() {
			obj.Name("Number").Int(entry.Number)
			obj.Name("Name").String(entry.Name)
			obj.Name("Limit").Int(entry.End())
		}

		return nil
	})
}
