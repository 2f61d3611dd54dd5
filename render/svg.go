package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/segviz/segmentation/layout"
)

// SVGOptions controls the size of the chart drawn by SVG
type SVGOptions struct {
	// Width is the width of the whole image in pixels. 0 selects 960.
	Width int
	// RowHeight is the height of the memory bar in pixels. 0 selects 64.
	RowHeight int
	// Title is written into the document title. Empty selects "Main Memory".
	Title string
}

const (
	labelWidth  = 120
	chartMargin = 16
	legendRow   = 22
)

func (o SVGOptions) withDefaults() SVGOptions {
	if o.Width <= 0 {
		o.Width = 960
	}
	if o.RowHeight <= 0 {
		o.RowHeight = 64
	}
	if o.Title == "" {
		o.Title = "Main Memory"
	}
	return o
}

// SVG draws the layout as a single stacked row: one rectangle per segment or free run,
// left to right in address order, followed by a legend listing each region's address range.
func SVG(w io.Writer, l *layout.Layout, options SVGOptions) {
	options = options.withDefaults()
	entries := l.Entries()

	barWidth := options.Width - labelWidth - 2*chartMargin
	barTop := chartMargin
	legendTop := barTop + options.RowHeight + 2*chartMargin
	height := legendTop + legendRow*len(entries) + chartMargin

	canvas := svg.New(w)
	canvas.Start(options.Width, height)
	canvas.Title(options.Title)
	canvas.Rect(0, 0, options.Width, height, "fill:white")

	canvas.Text(chartMargin, barTop+options.RowHeight/2, options.Title,
		"font-family:sans-serif;font-size:13px;dominant-baseline:middle")

	canvas.Gstyle("stroke:white;stroke-width:1")
	for _, entry := range entries {
		start, end := span(entry, l.Capacity(), barWidth)
		if end <= start {
			continue
		}

		x := chartMargin + labelWidth + start
		canvas.Rect(x, barTop, end-start, options.RowHeight, "fill:"+entryColor(entry))
	}
	canvas.Gend()

	canvas.Gstyle(fmt.Sprintf("font-family:sans-serif;font-size:11px;fill:%s;text-anchor:middle;dominant-baseline:middle", textColor))
	for _, entry := range entries {
		start, end := span(entry, l.Capacity(), barWidth)
		// Only label regions wide enough to hold some text
		if entry.IsFree() || end-start < 40 {
			continue
		}

		x := chartMargin + labelWidth + (start+end)/2
		canvas.Text(x, barTop+options.RowHeight/2, entry.Name)
	}
	canvas.Gend()

	canvas.Gstyle("font-family:sans-serif;font-size:12px;fill:black")
	for index, entry := range entries {
		y := legendTop + index*legendRow
		canvas.Rect(chartMargin, y, 14, 14, "fill:"+entryColor(entry))
		canvas.Text(chartMargin+22, y+11, regionLabel(entry))
	}
	canvas.Gend()

	canvas.End()
}

func regionLabel(entry layout.Entry) string {
	return fmt.Sprintf("%s: %d - %d (%d bytes)", entry.Name, entry.Offset, entry.End(), entry.Size)
}
