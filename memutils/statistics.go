package memutils

import "math"

// Statistics summarizes how much of main memory is occupied by placed segments
type Statistics struct {
	MemoryBytes  int
	SegmentCount int
	SegmentBytes int
}

func (s *Statistics) Clear() {
	s.MemoryBytes = 0
	s.SegmentCount = 0
	s.SegmentBytes = 0
}

// FreeBytes returns the number of bytes of main memory not covered by a segment
func (s *Statistics) FreeBytes() int {
	return s.MemoryBytes - s.SegmentBytes
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.MemoryBytes += other.MemoryBytes
	s.SegmentCount += other.SegmentCount
	s.SegmentBytes += other.SegmentBytes
}

// DetailedStatistics extends Statistics with information about the shape of the free space
// left between segments. Call Clear before accumulating into a fresh value so that the
// minimums start at math.MaxInt.
type DetailedStatistics struct {
	Statistics
	FreeRangeCount   int
	SegmentSizeMin   int
	SegmentSizeMax   int
	FreeRangeSizeMin int
	FreeRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreeRangeCount = 0
	s.SegmentSizeMin = math.MaxInt
	s.SegmentSizeMax = 0
	s.FreeRangeSizeMin = math.MaxInt
	s.FreeRangeSizeMax = 0
}

func (s *DetailedStatistics) AddFreeRange(size int) {
	s.FreeRangeCount++

	if size < s.FreeRangeSizeMin {
		s.FreeRangeSizeMin = size
	}

	if size > s.FreeRangeSizeMax {
		s.FreeRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddSegment(size int) {
	s.SegmentCount++
	s.SegmentBytes += size

	if size < s.SegmentSizeMin {
		s.SegmentSizeMin = size
	}

	if size > s.SegmentSizeMax {
		s.SegmentSizeMax = size
	}
}

// Fragmentation returns a value between 0 and 1 describing how scattered the free space is.
// A single free range (or no free space at all) is 0; many small ranges approach 1.
func (s *DetailedStatistics) Fragmentation() float64 {
	free := s.FreeBytes()
	if free <= 0 || s.FreeRangeCount <= 1 {
		return 0
	}

	return 1 - float64(s.FreeRangeSizeMax)/float64(free)
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreeRangeCount += other.FreeRangeCount

	if other.FreeRangeSizeMin < s.FreeRangeSizeMin {
		s.FreeRangeSizeMin = other.FreeRangeSizeMin
	}

	if other.FreeRangeSizeMax > s.FreeRangeSizeMax {
		s.FreeRangeSizeMax = other.FreeRangeSizeMax
	}

	if other.SegmentSizeMin < s.SegmentSizeMin {
		s.SegmentSizeMin = other.SegmentSizeMin
	}

	if other.SegmentSizeMax > s.SegmentSizeMax {
		s.SegmentSizeMax = other.SegmentSizeMax
	}
}
