package main

import (
	"fmt"
	"strconv"
	"strings"

	cerrors "github.com/cockroachdb/errors"
	"github.com/segviz/segmentation/layout"
	"github.com/segviz/segmentation/memutils"
	"github.com/segviz/segmentation/placement"
	"github.com/segviz/segmentation/segment"
	"golang.org/x/exp/slog"
)

// inputStep is the multiple that memory and segment sizes typed by the user are rounded to
const inputStep = 100

// simulationOptions are the user inputs shared by the place and explore commands
type simulationOptions struct {
	Memory   int
	Count    int
	Size     int
	Segments []string
	Seed     *int64
}

// simulation owns one segment table and the engine that places it
type simulation struct {
	memory int
	table  segment.Table
	engine *placement.Engine
	layout *layout.Layout
	runs   int
}

// normalizeInput rounds a value typed by the user to the nearest multiple of 100, with
// halfway values going to the even multiple
func normalizeInput(value int) int {
	return memutils.RoundToMultipleEven(value, inputStep)
}

// parseSegment parses a "name=size" or bare "size" segment flag
func parseSegment(value string) (segment.Request, error) {
	name, sizeText, found := strings.Cut(value, "=")
	if !found {
		sizeText = name
		name = ""
	}

	size, err := strconv.Atoi(strings.TrimSpace(sizeText))
	if err != nil {
		return segment.Request{}, cerrors.Wrapf(err, "invalid segment %q, expected name=size", value)
	}

	return segment.Request{Name: strings.TrimSpace(name), Size: normalizeInput(size)}, nil
}

func (o simulationOptions) requests() ([]segment.Request, error) {
	if len(o.Segments) == 0 {
		if o.Count < 0 {
			return nil, cerrors.Newf("segment count must not be negative, got %d", o.Count)
		}

		size := normalizeInput(o.Size)
		requests := make([]segment.Request, 0, o.Count)
		for i := 0; i < o.Count; i++ {
			requests = append(requests, segment.Request{Name: fmt.Sprintf("Segment %d", i), Size: size})
		}
		return requests, nil
	}

	requests := make([]segment.Request, 0, len(o.Segments))
	for _, value := range o.Segments {
		request, err := parseSegment(value)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func newSimulation(logger *slog.Logger, options simulationOptions) (*simulation, error) {
	memory := normalizeInput(options.Memory)

	requests, err := options.requests()
	if err != nil {
		return nil, err
	}

	table, err := segment.FromRequests(requests)
	if err != nil {
		return nil, err
	}

	engine, err := placement.New(logger, memory, placement.CreateOptions{Seed: options.Seed})
	if err != nil {
		return nil, err
	}

	return &simulation{
		memory: memory,
		table:  table,
		engine: engine,
	}, nil
}

// place runs the engine over the table and rebuilds the layout. On failure the previous
// layout is left in place.
func (s *simulation) place() error {
	err := s.engine.Allocate(s.table)
	if err != nil {
		return err
	}

	l, err := layout.Build(s.memory, s.table)
	if err != nil {
		return err
	}

	s.layout = l
	s.runs++
	return nil
}
