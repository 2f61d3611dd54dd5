package main

import (
	"fmt"
	"io"
	"os"

	cerrors "github.com/cockroachdb/errors"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/segviz/segmentation/memutils"
	"github.com/segviz/segmentation/render"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
)

type placeOptions struct {
	simulationOptions
	JSON     bool
	SVGPath  string
	BarWidth int
}

func init() {
	rootCmd.AddCommand(newPlaceCmd())
}

func newPlaceCmd() *cobra.Command {
	var options placeOptions

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place segments in main memory and draw the layout",
		Long: `The place command creates a segment table, places every segment at a
random address in main memory and prints the table together with the
resulting memory layout. Memory and segment sizes are rounded to the nearest
multiple of 100 bytes.

Example:
  segsim place --memory 1000 --count 3 --size 200
  segsim place --memory 4000 --segment Code=1200 --segment Stack=500
  segsim place --memory 4000 --count 5 --size 300 --svg layout.svg --seed 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Seed = seedFlag(cmd)
			options.JSON = jsonOut
			return runPlace(cmd.OutOrStdout(), newLogger(cmd.ErrOrStderr()), options)
		},
	}

	cmd.Flags().IntVarP(&options.Memory, "memory", "m", 1000, "Main memory size in bytes")
	cmd.Flags().IntVarP(&options.Count, "count", "n", 3, "Number of equally sized segments to create")
	cmd.Flags().IntVarP(&options.Size, "size", "s", 200, "Size in bytes of each segment created with --count")
	cmd.Flags().StringArrayVar(&options.Segments, "segment", nil, "A segment as name=size; repeat for more (overrides --count)")
	cmd.Flags().StringVar(&options.SVGPath, "svg", "", "Also write the layout as an SVG chart to this path")
	cmd.Flags().IntVar(&options.BarWidth, "width", 72, "Width of the terminal bar in columns")

	return cmd
}

func runPlace(out io.Writer, logger *slog.Logger, options placeOptions) error {
	sim, err := newSimulation(logger, options.simulationOptions)
	if err != nil {
		return err
	}

	err = sim.place()
	if err != nil {
		return err
	}

	if options.SVGPath != "" {
		err = writeSVG(options.SVGPath, sim)
		if err != nil {
			return err
		}
	}

	if options.JSON {
		return printPlacementJSON(out, sim)
	}

	var stats memutils.DetailedStatistics
	stats.Clear()
	sim.layout.AddDetailedStatistics(&stats)

	fmt.Fprintf(out, "Main memory: %d bytes, %d segment(s), %d bytes free in %d range(s), fragmentation %.2f\n\n",
		sim.memory, stats.SegmentCount, stats.FreeBytes(), stats.FreeRangeCount, stats.Fragmentation())
	fmt.Fprintln(out, render.Table(sim.table))
	fmt.Fprintln(out)
	fmt.Fprintln(out, render.Bar(sim.layout, options.BarWidth))
	fmt.Fprintln(out)
	fmt.Fprintln(out, render.Regions(sim.layout))

	return nil
}

func writeSVG(path string, sim *simulation) error {
	file, err := os.Create(path)
	if err != nil {
		return cerrors.Wrapf(err, "failed to create %s", path)
	}

	render.SVG(file, sim.layout, render.SVGOptions{})

	return cerrors.Wrapf(file.Close(), "failed to write %s", path)
}

func printPlacementJSON(out io.Writer, sim *simulation) error {
	writer := jwriter.NewWriter()

	objState := writer.Object()
	objState.Name("Memory").Int(sim.memory)

	segments := objState.Name("Segments").Array()
	for _, seg := range sim.table.Sorted() {
		obj := segments.Object()
		obj.Name("Number").Int(seg.Number())
		obj.Name("Name").String(seg.Name())
		obj.Name("Size").Int(seg.Size())
		obj.Name("Base").Int(seg.Base())
		obj.Name("Limit").Int(seg.Limit())
		obj.End()
	}
	segments.End()

	layoutObj := objState.Name("Layout").Object()
	sim.layout.WriteJSON(layoutObj)
	layoutObj.End()

	objState.End()

	if err := writer.Error(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(out, string(writer.Bytes()))
	return err
}
