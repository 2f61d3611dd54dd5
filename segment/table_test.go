package segment_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/segviz/segmentation/memutils"
	"github.com/segviz/segmentation/segment"
	"github.com/stretchr/testify/require"
)

func placedTable(t *testing.T, bases []int, sizes []int) segment.Table {
	requests := make([]segment.Request, 0, len(sizes))
	for _, size := range sizes {
		requests = append(requests, segment.Request{Size: size})
	}

	table, err := segment.FromRequests(requests)
	require.NoError(t, err)

	for index, base := range bases {
		table[index].Place(base)
	}
	return table
}

func TestNewTable(t *testing.T) {
	table, err := segment.NewTable(3, 200)
	require.NoError(t, err)
	require.Len(t, table, 3)

	for index, seg := range table {
		require.Equal(t, index, seg.Number())
		require.Equal(t, 200, seg.Size())
	}
	require.Equal(t, "Segment 0", table[0].Name())
	require.Equal(t, "Segment 2", table[2].Name())
	require.Equal(t, 600, table.RequiredTotal())

	empty, err := segment.NewTable(0, 200)
	require.NoError(t, err)
	require.Empty(t, empty)
	require.Equal(t, 0, empty.RequiredTotal())

	_, err = segment.NewTable(2, 0)
	require.True(t, errors.Is(err, memutils.InvalidSizeError))

	_, err = segment.NewTable(-1, 100)
	require.Error(t, err)
}

func TestRequiredTotalOverflow(t *testing.T) {
	table, err := segment.FromRequests([]segment.Request{
		{Name: "A", Size: math.MaxInt},
		{Name: "B", Size: 100},
	})
	require.NoError(t, err)

	total, ok := table.SumSizes()
	require.False(t, ok)
	require.Equal(t, math.MaxInt, total)
	require.Equal(t, math.MaxInt, table.RequiredTotal())

	total, ok = table[:1].SumSizes()
	require.True(t, ok)
	require.Equal(t, math.MaxInt, total)
}

func TestFromRequests(t *testing.T) {
	table, err := segment.FromRequests([]segment.Request{
		{Name: "A", Size: 300},
		{Size: 200},
		{Name: "C", Size: 100},
	})
	require.NoError(t, err)
	require.Equal(t, "A", table[0].Name())
	require.Equal(t, "Segment 1", table[1].Name())
	require.Equal(t, 2, table[2].Number())
	require.Equal(t, 600, table.RequiredTotal())
}

func TestSorted(t *testing.T) {
	table := placedTable(t, []int{700, 0, 300}, []int{100, 200, 300})

	sorted := table.Sorted()
	require.Equal(t, []int{1, 2, 0}, []int{sorted[0].Number(), sorted[1].Number(), sorted[2].Number()})
	// Request order is untouched
	require.Equal(t, 0, table[0].Number())

	table.SortByBase()
	require.Equal(t, 1, table[0].Number())
	require.Equal(t, 0, table[2].Number())
}

func TestValidate(t *testing.T) {
	table := placedTable(t, []int{700, 0, 300}, []int{100, 200, 300})
	require.NoError(t, table.Validate(1000))
	require.True(t, table.AllPlaced())

	err := table.Validate(750)
	require.True(t, errors.Is(err, memutils.OutOfRangeError))

	overlapping := placedTable(t, []int{0, 100}, []int{200, 200})
	err = overlapping.Validate(1000)
	require.True(t, errors.Is(err, memutils.OverlapError))

	unplaced := placedTable(t, []int{0}, []int{200, 200})
	require.False(t, unplaced.AllPlaced())
	require.Error(t, unplaced.Validate(1000))

	withNil := segment.Table{nil}
	err = withNil.Validate(1000)
	require.True(t, errors.Is(err, memutils.NilSegmentError))
}

func TestReset(t *testing.T) {
	table := placedTable(t, []int{0, 200}, []int{200, 200})
	require.True(t, table.AllPlaced())

	table.Reset()
	for _, seg := range table {
		require.False(t, seg.Placed())
		require.Equal(t, 0, seg.Base())
		require.Equal(t, 0, seg.Limit())
	}
}
