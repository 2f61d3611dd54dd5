package placement

import (
	"context"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/segviz/segmentation/memutils"
	"github.com/segviz/segmentation/segment"
	"golang.org/x/exp/slog"
)

// RunStatistics describes the random decisions made during the most recent successful
// call to Allocate
type RunStatistics struct {
	// CoinTosses is the number of loop iterations, one coin toss each
	CoinTosses int
	// RejectedDraws counts index draws that landed on an already-placed segment
	RejectedDraws int
	// FreeRuns is the number of free-space runs inserted between segments
	FreeRuns int
	// FreeBytesInserted is the total size of those runs
	FreeBytesInserted int
	// TrailingFreeBytes is the free space left after the last segment
	TrailingFreeBytes int
}

// Engine arranges a segment table within main memory. Segments are placed in a random
// order at increasing addresses with randomly-sized runs of free space between them, which
// produces the kind of fragmented layout a segmented memory would show after some time in use.
//
// An Engine is bound to a single capacity. It holds no state between calls to Allocate other
// than the statistics and table of the last run, and it is not safe for concurrent use.
type Engine struct {
	logger      *slog.Logger
	capacity    int
	granularity int
	random      RandomSource

	lastTable segment.Table
	stats     RunStatistics
}

var _ memutils.Validatable = &Engine{}

// Capacity returns the size of main memory in bytes
func (e *Engine) Capacity() int { return e.capacity }

// Stats returns the statistics of the most recent successful call to Allocate
func (e *Engine) Stats() RunStatistics { return e.stats }

// Allocate assigns a base and limit to every segment in the table. The required total is
// computed from the segment sizes.
//
// If the segments do not fit in main memory, an error wrapping memutils.InsufficientMemoryError
// is returned and no segment is modified. An empty table is a successful no-op.
func (e *Engine) Allocate(segments segment.Table) error {
	err := segments.CheckRequests()
	if err != nil {
		return err
	}

	required, ok := segments.SumSizes()
	if !ok {
		return e.sizeOverflow()
	}

	return e.allocate(segments, required)
}

// AllocateRequired is Allocate with a caller-supplied required total, which must be the sum of
// the segment sizes. A total that exceeds capacity fails with memutils.InsufficientMemoryError;
// a total that disagrees with the segment sizes fails with memutils.InconsistentTotalError.
func (e *Engine) AllocateRequired(segments segment.Table, requiredTotal int) error {
	err := segments.CheckRequests()
	if err != nil {
		return err
	}

	if requiredTotal > e.capacity {
		return e.insufficientMemory(requiredTotal)
	}

	actualTotal, ok := segments.SumSizes()
	if !ok {
		return e.sizeOverflow()
	}
	if actualTotal != requiredTotal {
		return cerrors.Wrapf(memutils.InconsistentTotalError, "caller supplied %d bytes, segments require %d bytes", requiredTotal, actualTotal)
	}

	return e.allocate(segments, requiredTotal)
}

func (e *Engine) insufficientMemory(required int) error {
	e.logger.LogAttrs(context.Background(), slog.LevelDebug, "Engine::Allocate rejected",
		slog.Int("Required", required),
		slog.Int("Capacity", e.capacity))
	return cerrors.Wrapf(memutils.InsufficientMemoryError, "%d bytes required, %d bytes available", required, e.capacity)
}

// sizeOverflow reports a table whose sizes sum past the largest int, which can never fit
func (e *Engine) sizeOverflow() error {
	e.logger.LogAttrs(context.Background(), slog.LevelDebug, "Engine::Allocate rejected overflowing sizes",
		slog.Int("Capacity", e.capacity))
	return cerrors.Wrapf(memutils.InsufficientMemoryError, "segment sizes sum past the largest representable size, %d bytes available", e.capacity)
}

func (e *Engine) allocate(segments segment.Table, required int) error {
	if required > e.capacity {
		return e.insufficientMemory(required)
	}

	e.logger.Debug("Engine::Allocate", slog.Int("SegmentCount", len(segments)), slog.Int("Required", required), slog.Int("Capacity", e.capacity))

	var stats RunStatistics
	free := e.capacity - required
	pointer := 0
	count := len(segments)
	allocated := swiss.NewMap[int, struct{}](uint32(count))

	segments.Reset()

	for allocated.Count() < count {
		stats.CoinTosses++
		coin := e.random.Coin()

		picker := e.random.Intn(count)
		for allocated.Has(picker) {
			stats.RejectedDraws++
			picker = e.random.Intn(count)
		}

		if coin && free > 0 {
			space := memutils.RoundToMultiple(e.random.Intn(free), e.granularity)
			if space > free {
				space = free
			}

			if space > 0 {
				stats.FreeRuns++
				stats.FreeBytesInserted += space
				e.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Inserted free space",
					slog.Int("Offset", pointer),
					slog.Int("Size", space))
			}

			pointer += space
			free -= space
			continue
		}

		seg := segments[picker]
		seg.Place(pointer)
		pointer += seg.Size()
		allocated.Put(picker, struct{}{})

		e.logger.LogAttrs(context.Background(), slog.LevelDebug, "    Placed segment",
			slog.Int("Number", seg.Number()),
			slog.String("Name", seg.Name()),
			slog.Int("Base", seg.Base()),
			slog.Int("Limit", seg.Limit()))
	}

	stats.TrailingFreeBytes = e.capacity - pointer
	e.stats = stats
	e.lastTable = segments

	memutils.DebugValidate(e)

	return nil
}

// Validate checks that the table placed by the most recent call to Allocate lies entirely
// inside main memory without overlaps
func (e *Engine) Validate() error {
	if e.lastTable == nil {
		return nil
	}
	return e.lastTable.Validate(e.capacity)
}
