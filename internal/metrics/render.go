package metrics

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	summaryTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7"))
	summaryHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#c0caf5"))
	summaryDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
)

var summaryLabels = map[string]string{
	FieldAvgDelay:   "avg delay (s)",
	FieldJitter:     "jitter (s)",
	FieldAvgBitrate: "bitrate (Kbit/s)",
	FieldPacketLoss: "dropped (pkt)",
}

// FormatSummary renders group summaries as an aligned console table. Each
// cell holds the group mean and, when values vary, their min..max range.
func FormatSummary(title string, groups []GroupSummary) string {
	var b strings.Builder
	b.WriteString(summaryTitleStyle.Render(title))
	b.WriteString("\n")

	if len(groups) == 0 {
		b.WriteString(summaryDimStyle.Render("  no records"))
		b.WriteString("\n")
		return b.String()
	}

	header := []string{"protocol", "size", "rows"}
	for _, f := range SummaryFields {
		header = append(header, summaryLabels[f])
	}
	rows := [][]string{header}
	for _, g := range groups {
		row := []string{g.Protocol, g.PacketSize, fmt.Sprintf("%d", g.Records)}
		for _, f := range SummaryFields {
			fs, ok := g.Fields[f]
			if !ok || fs.Count == 0 {
				row = append(row, "-")
				continue
			}
			row = append(row, formatStats(fs))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			style := lipgloss.NewStyle().Width(widths[j] + 2)
			if i == 0 {
				style = summaryHeaderStyle.Width(widths[j] + 2)
			}
			cells[j] = style.Render(cell)
		}
		b.WriteString("  ")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

// formatStats shows the mean, plus the range when the group's values differ.
func formatStats(fs FieldStats) string {
	if fs.Min == fs.Max {
		return fmt.Sprintf("%.4g", fs.Avg)
	}
	return fmt.Sprintf("%.4g (%.4g..%.4g)", fs.Avg, fs.Min, fs.Max)
}
