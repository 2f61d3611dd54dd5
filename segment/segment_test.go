package segment_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/segviz/segmentation/memutils"
	"github.com/segviz/segmentation/segment"
	"github.com/stretchr/testify/require"
)

func TestNewSegment(t *testing.T) {
	seg, err := segment.New(3, "Code", 400)
	require.NoError(t, err)
	require.Equal(t, 3, seg.Number())
	require.Equal(t, "Code", seg.Name())
	require.Equal(t, 400, seg.Size())
	require.Equal(t, 0, seg.Base())
	require.Equal(t, 0, seg.Limit())
	require.False(t, seg.Placed())

	_, err = segment.New(0, "Empty", 0)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.InvalidSizeError))

	_, err = segment.New(0, "Negative", -100)
	require.True(t, errors.Is(err, memutils.InvalidSizeError))

	_, err = segment.New(-1, "Numberless", 100)
	require.Error(t, err)
}

func TestPlaceAndReset(t *testing.T) {
	seg, err := segment.New(0, "Stack", 300)
	require.NoError(t, err)

	seg.Place(200)
	require.True(t, seg.Placed())

	// Reads must not mutate
	for i := 0; i < 3; i++ {
		require.Equal(t, 200, seg.Base())
		require.Equal(t, 500, seg.Limit())
		require.Equal(t, 300, seg.Size())
	}
	require.Equal(t, "0:Stack (300 bytes, 200 - 500)", seg.String())

	seg.Reset()
	require.False(t, seg.Placed())
	require.Equal(t, 0, seg.Base())
	require.Equal(t, 0, seg.Limit())
	require.Equal(t, "0:Stack (300 bytes, unplaced)", seg.String())
}

func TestSetName(t *testing.T) {
	seg, err := segment.New(2, "Segment 2", 100)
	require.NoError(t, err)
	seg.Place(300)

	seg.SetName("Heap")
	require.Equal(t, "Heap", seg.Name())
	require.Equal(t, 2, seg.Number())
	require.Equal(t, 300, seg.Base())
	require.Equal(t, 400, seg.Limit())
	require.Equal(t, "2:Heap (100 bytes, 300 - 400)", seg.String())
}

func TestCompareTo(t *testing.T) {
	a, _ := segment.New(0, "A", 100)
	b, _ := segment.New(1, "B", 100)
	a.Place(500)
	b.Place(100)

	require.Positive(t, a.CompareTo(b))
	require.Negative(t, b.CompareTo(a))
	require.Zero(t, a.CompareTo(a))
	require.Positive(t, a.CompareTo(nil))

	b.Place(500)
	require.Zero(t, a.CompareTo(b))

	require.Negative(t, segment.Compare(nil, a))
	require.Zero(t, segment.Compare(nil, nil))
}

func TestOverlaps(t *testing.T) {
	a, _ := segment.New(0, "A", 100)
	b, _ := segment.New(1, "B", 100)
	require.False(t, a.Overlaps(b))

	a.Place(0)
	b.Place(100)
	require.False(t, a.Overlaps(b))
	require.False(t, b.Overlaps(a))

	b.Place(50)
	require.True(t, a.Overlaps(b))
	require.True(t, b.Overlaps(a))
}
