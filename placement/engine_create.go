package placement

import (
	"io"

	"github.com/segviz/segmentation/memutils"
	"golang.org/x/exp/slog"
)

const (
	// DefaultGranularity is the value that is used as the Granularity when none is provided via
	// CreateOptions. Free runs are rounded to multiples of 100 bytes.
	DefaultGranularity int = 100
)

// CreateOptions contains optional settings when creating an Engine
type CreateOptions struct {
	// Random is the source of coin tosses and index draws. If it is nil, a math/rand source
	// is built from Seed, or from the current time when Seed is also nil.
	Random RandomSource
	// Seed makes the default random source deterministic, which allows a layout to be
	// reproduced. It is ignored when Random is provided.
	Seed *int64
	// Granularity is the step that randomly-sized free runs are rounded to. 0 selects
	// DefaultGranularity and 1 disables rounding.
	Granularity int
}

// New creates a new Engine that places segments into a main memory of capacity bytes
//
// logger - Receives a debug record for every placement decision. It may be nil.
//
// capacity - The size of main memory in bytes. It must be a positive integer.
//
// options - Optional parameters: it is valid to leave all the fields blank
func New(logger *slog.Logger, capacity int, options CreateOptions) (*Engine, error) {
	err := memutils.CheckCapacity(capacity)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := &Engine{
		logger:      logger,
		capacity:    capacity,
		granularity: options.Granularity,
		random:      options.Random,
	}

	if engine.granularity <= 0 {
		engine.granularity = DefaultGranularity
	}

	if engine.random == nil {
		if options.Seed != nil {
			engine.random = NewRandomSource(*options.Seed)
		} else {
			engine.random = newUnseededRandomSource()
		}
	}

	return engine, nil
}
