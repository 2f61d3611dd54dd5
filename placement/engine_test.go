package placement_test

import (
	"io"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/segviz/segmentation/memutils"
	"github.com/segviz/segmentation/placement"
	mock_placement "github.com/segviz/segmentation/placement/mocks"
	"github.com/segviz/segmentation/segment"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/exp/slog"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func requireTable(t *testing.T, requests ...segment.Request) segment.Table {
	table, err := segment.FromRequests(requests)
	require.NoError(t, err)
	return table
}

func seededEngine(t *testing.T, capacity int, seed int64) *placement.Engine {
	engine, err := placement.New(testLogger(), capacity, placement.CreateOptions{Seed: &seed})
	require.NoError(t, err)
	return engine
}

func TestNewRejectsInvalidCapacity(t *testing.T) {
	_, err := placement.New(testLogger(), 0, placement.CreateOptions{})
	require.True(t, errors.Is(err, memutils.InvalidCapacityError))

	_, err = placement.New(nil, -100, placement.CreateOptions{})
	require.True(t, errors.Is(err, memutils.InvalidCapacityError))

	engine, err := placement.New(nil, 1000, placement.CreateOptions{})
	require.NoError(t, err)
	require.Equal(t, 1000, engine.Capacity())
}

func TestAllocateScriptedDraws(t *testing.T) {
	ctrl := gomock.NewController(t)
	random := mock_placement.NewMockRandomSource(ctrl)

	gomock.InOrder(
		// Free run of 149, rounded to 100
		random.EXPECT().Coin().Return(true),
		random.EXPECT().Intn(3).Return(1),
		random.EXPECT().Intn(400).Return(149),
		// B at 100
		random.EXPECT().Coin().Return(false),
		random.EXPECT().Intn(3).Return(1),
		// B is already placed, redraw to A at 300
		random.EXPECT().Coin().Return(false),
		random.EXPECT().Intn(3).Return(1),
		random.EXPECT().Intn(3).Return(0),
		// Free run of 250 rounds to 300, which consumes all the free space
		random.EXPECT().Coin().Return(true),
		random.EXPECT().Intn(3).Return(2),
		random.EXPECT().Intn(300).Return(250),
		// Heads is ignored once no free space remains: C at 900
		random.EXPECT().Coin().Return(true),
		random.EXPECT().Intn(3).Return(0),
		random.EXPECT().Intn(3).Return(2),
	)

	engine, err := placement.New(testLogger(), 1000, placement.CreateOptions{Random: random})
	require.NoError(t, err)

	table := requireTable(t,
		segment.Request{Name: "A", Size: 300},
		segment.Request{Name: "B", Size: 200},
		segment.Request{Name: "C", Size: 100},
	)

	err = engine.Allocate(table)
	require.NoError(t, err)

	require.Equal(t, 300, table[0].Base())
	require.Equal(t, 600, table[0].Limit())
	require.Equal(t, 100, table[1].Base())
	require.Equal(t, 300, table[1].Limit())
	require.Equal(t, 900, table[2].Base())
	require.Equal(t, 1000, table[2].Limit())

	require.Equal(t, placement.RunStatistics{
		CoinTosses:        5,
		RejectedDraws:     2,
		FreeRuns:          2,
		FreeBytesInserted: 400,
		TrailingFreeBytes: 0,
	}, engine.Stats())
	require.NoError(t, engine.Validate())
}

func TestAllocateClampsRoundedFreeRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	random := mock_placement.NewMockRandomSource(ctrl)

	gomock.InOrder(
		random.EXPECT().Coin().Return(true),
		random.EXPECT().Intn(1).Return(0),
		// 55 rounds up to 100, which is more than the 60 free bytes
		random.EXPECT().Intn(60).Return(55),
		random.EXPECT().Coin().Return(false),
		random.EXPECT().Intn(1).Return(0),
	)

	engine, err := placement.New(testLogger(), 1060, placement.CreateOptions{Random: random})
	require.NoError(t, err)

	table := requireTable(t, segment.Request{Name: "A", Size: 1000})
	require.NoError(t, engine.Allocate(table))
	require.Equal(t, 60, table[0].Base())
	require.Equal(t, 1060, table[0].Limit())
	require.Equal(t, 0, engine.Stats().TrailingFreeBytes)
}

func TestAllocateZeroSizedFreeRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	random := mock_placement.NewMockRandomSource(ctrl)

	gomock.InOrder(
		random.EXPECT().Coin().Return(true),
		random.EXPECT().Intn(1).Return(0),
		// 30 rounds down to nothing
		random.EXPECT().Intn(500).Return(30),
		random.EXPECT().Coin().Return(false),
		random.EXPECT().Intn(1).Return(0),
	)

	engine, err := placement.New(testLogger(), 1000, placement.CreateOptions{Random: random})
	require.NoError(t, err)

	table := requireTable(t, segment.Request{Name: "A", Size: 500})
	require.NoError(t, engine.Allocate(table))
	require.Equal(t, 0, table[0].Base())
	require.Equal(t, placement.RunStatistics{
		CoinTosses:        2,
		TrailingFreeBytes: 500,
	}, engine.Stats())
}

func TestAllocateInsufficientMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	random := mock_placement.NewMockRandomSource(ctrl)

	engine, err := placement.New(testLogger(), 500, placement.CreateOptions{Random: random})
	require.NoError(t, err)

	table := requireTable(t,
		segment.Request{Name: "A", Size: 300},
		segment.Request{Name: "B", Size: 300},
	)

	err = engine.Allocate(table)
	require.Error(t, err)
	require.True(t, errors.Is(err, memutils.InsufficientMemoryError))
	require.Contains(t, err.Error(), "600 bytes required, 500 bytes available")

	for _, seg := range table {
		require.False(t, seg.Placed())
		require.Equal(t, 0, seg.Base())
		require.Equal(t, 0, seg.Limit())
	}
}

func TestAllocateInsufficientMemoryLeavesPreviousPlacement(t *testing.T) {
	small := seededEngine(t, 500, 7)
	large := seededEngine(t, 1000, 7)

	table := requireTable(t,
		segment.Request{Name: "A", Size: 300},
		segment.Request{Name: "B", Size: 300},
	)
	require.NoError(t, large.Allocate(table))

	bases := []int{table[0].Base(), table[1].Base()}
	require.Error(t, small.Allocate(table))
	require.Equal(t, bases, []int{table[0].Base(), table[1].Base()})
}

func TestAllocateOverflowingSizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	random := mock_placement.NewMockRandomSource(ctrl)

	for _, capacity := range []int{1000, math.MaxInt} {
		engine, err := placement.New(testLogger(), capacity, placement.CreateOptions{Random: random})
		require.NoError(t, err)

		table := requireTable(t,
			segment.Request{Name: "A", Size: math.MaxInt},
			segment.Request{Name: "B", Size: math.MaxInt},
		)

		err = engine.Allocate(table)
		require.Error(t, err)
		require.True(t, errors.Is(err, memutils.InsufficientMemoryError))

		err = engine.AllocateRequired(table, capacity)
		require.True(t, errors.Is(err, memutils.InsufficientMemoryError))

		for _, seg := range table {
			require.False(t, seg.Placed())
			require.Equal(t, 0, seg.Base())
			require.Equal(t, 0, seg.Limit())
		}
	}
}

func TestAllocateEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	random := mock_placement.NewMockRandomSource(ctrl)

	engine, err := placement.New(testLogger(), 1000, placement.CreateOptions{Random: random})
	require.NoError(t, err)

	require.NoError(t, engine.Allocate(segment.Table{}))
	require.Equal(t, 1000, engine.Stats().TrailingFreeBytes)
}

func TestAllocateExactFit(t *testing.T) {
	engine := seededEngine(t, 1000, 42)

	table := requireTable(t, segment.Request{Name: "A", Size: 1000})
	require.NoError(t, engine.Allocate(table))
	require.Equal(t, 0, table[0].Base())
	require.Equal(t, 1000, table[0].Limit())
	require.Equal(t, 0, engine.Stats().FreeRuns)
}

func TestAllocateRequired(t *testing.T) {
	engine := seededEngine(t, 1000, 3)

	table := requireTable(t,
		segment.Request{Name: "A", Size: 300},
		segment.Request{Name: "B", Size: 200},
	)

	err := engine.AllocateRequired(table, 1200)
	require.True(t, errors.Is(err, memutils.InsufficientMemoryError))
	require.False(t, table[0].Placed())

	err = engine.AllocateRequired(table, 400)
	require.True(t, errors.Is(err, memutils.InconsistentTotalError))
	require.False(t, table[0].Placed())

	require.NoError(t, engine.AllocateRequired(table, 500))
	require.True(t, table.AllPlaced())
}

func TestAllocateRejectsInvalidTables(t *testing.T) {
	engine := seededEngine(t, 1000, 3)

	err := engine.Allocate(segment.Table{nil})
	require.True(t, errors.Is(err, memutils.NilSegmentError))
}

func TestAllocateSameSeedSameLayout(t *testing.T) {
	first := requireTable(t,
		segment.Request{Size: 100},
		segment.Request{Size: 200},
		segment.Request{Size: 300},
		segment.Request{Size: 400},
	)
	second := requireTable(t,
		segment.Request{Size: 100},
		segment.Request{Size: 200},
		segment.Request{Size: 300},
		segment.Request{Size: 400},
	)

	require.NoError(t, seededEngine(t, 5000, 99).Allocate(first))
	require.NoError(t, seededEngine(t, 5000, 99).Allocate(second))

	for index := range first {
		require.Equal(t, first[index].Base(), second[index].Base())
	}
}

func TestAllocateProperties(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		capacity := 1000 + int(seed%7)*900 + int(seed%3)*37

		requests := make([]segment.Request, 0, 8)
		for index := 0; index < int(seed%8)+1; index++ {
			requests = append(requests, segment.Request{Size: 50 + (index*131+int(seed)*17)%400})
		}
		table := requireTable(t, requests...)
		if table.RequiredTotal() > capacity {
			continue
		}

		engine := seededEngine(t, capacity, seed)
		require.NoError(t, engine.Allocate(table), "seed %d", seed)

		// Coverage and completeness
		maxLimit := 0
		for _, seg := range table {
			require.True(t, seg.Placed())
			require.GreaterOrEqual(t, seg.Base(), 0)
			require.Equal(t, seg.Size(), seg.Limit()-seg.Base())
			if seg.Limit() > maxLimit {
				maxLimit = seg.Limit()
			}
		}
		require.LessOrEqual(t, maxLimit, capacity)
		require.Equal(t, capacity-maxLimit, engine.Stats().TrailingFreeBytes)

		// No overlap
		for i := range table {
			for j := i + 1; j < len(table); j++ {
				require.False(t, table[i].Overlaps(table[j]), "seed %d: %s overlaps %s", seed, table[i], table[j])
			}
		}

		stats := engine.Stats()
		require.Equal(t, capacity-table.RequiredTotal(), stats.FreeBytesInserted+stats.TrailingFreeBytes)
		require.NoError(t, engine.Validate())
	}
}
