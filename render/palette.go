package render

import "github.com/segviz/segmentation/layout"

// segmentColors cycles through a fixed palette so that a segment keeps its color
// between re-placements
var segmentColors = []string{
	"#7D56F4",
	"#00A6D6",
	"#04B575",
	"#FFA500",
	"#FF4B4B",
	"#C061CB",
	"#3DDBD9",
	"#B8BB26",
}

const (
	freeColor   = "#3A3A3A"
	borderColor = "#383838"
	textColor   = "#FFFFFF"
	mutedColor  = "#666666"
)

func entryColor(entry layout.Entry) string {
	if entry.IsFree() {
		return freeColor
	}
	return segmentColors[entry.Number%len(segmentColors)]
}

// span returns the [start, end) columns an entry occupies in a bar of width columns. Columns
// are computed from cumulative offsets so that the spans tile the bar without gaps.
func span(entry layout.Entry, capacity int, width int) (int, int) {
	start := entry.Offset * width / capacity
	end := entry.End() * width / capacity
	return start, end
}
