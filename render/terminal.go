package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/segviz/segmentation/layout"
	"github.com/segviz/segmentation/segment"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(segmentColors[0]))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(mutedColor))

	barFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(borderColor))
)

// Bar draws the layout as a single row of colored cells, width columns wide, with the
// address scale underneath
func Bar(l *layout.Layout, width int) string {
	if width < 10 {
		width = 10
	}

	var bar strings.Builder
	for _, entry := range l.Entries() {
		start, end := span(entry, l.Capacity(), width)
		if end <= start {
			continue
		}

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(entryColor(entry))).
			Foreground(lipgloss.Color(textColor))
		bar.WriteString(style.Render(fitLabel(entry, end-start)))
	}

	scaleLeft := "0"
	scaleRight := fmt.Sprintf("%d", l.Capacity())
	padding := width - len(scaleLeft) - len(scaleRight)
	if padding < 1 {
		padding = 1
	}
	scale := mutedStyle.Render(scaleLeft + strings.Repeat(" ", padding) + scaleRight)

	return lipgloss.JoinVertical(lipgloss.Left, barFrameStyle.Render(bar.String()), " "+scale)
}

func fitLabel(entry layout.Entry, columns int) string {
	label := entry.Name
	if entry.IsFree() {
		label = ""
	}

	runes := []rune(label)
	if len(runes) > columns {
		runes = runes[:columns]
	}

	return string(runes) + strings.Repeat(" ", columns-len(runes))
}

// Regions lists every entry of the layout, one per line, in address order
func Regions(l *layout.Layout) string {
	lines := make([]string, 0, l.Len()+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("  %-16s %10s %10s %10s", "Region", "From", "To", "Bytes")))

	for _, entry := range l.Entries() {
		line := fmt.Sprintf("%-16s %10d %10d %10d", entry.Name, entry.Offset, entry.End(), entry.Size)
		if entry.IsFree() {
			line = "  " + mutedStyle.Render(line)
		} else {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(entryColor(entry))).Render("■")
			line = swatch + " " + line
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// Table lists the segment table in request order with each segment's base and limit
func Table(segments segment.Table) string {
	lines := make([]string, 0, len(segments)+1)
	lines = append(lines, headerStyle.Render(fmt.Sprintf("%-4s %-16s %10s %10s %10s", "No.", "Name", "Size", "Base", "Limit")))

	for _, seg := range segments {
		if seg == nil {
			continue
		}

		base, limit := "-", "-"
		if seg.Placed() {
			base = fmt.Sprintf("%d", seg.Base())
			limit = fmt.Sprintf("%d", seg.Limit())
		}
		lines = append(lines, fmt.Sprintf("%-4d %-16s %10d %10s %10s", seg.Number(), seg.Name(), seg.Size(), base, limit))
	}

	return strings.Join(lines, "\n")
}
