// Package report renders selection statistics for the terminal.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olehluchkiv/brandgraph/internal/analytics"
	"github.com/olehluchkiv/brandgraph/internal/graph"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#2374ab")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Width(18)

	valueStyle = lipgloss.NewStyle().Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0AF")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("#666666"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#664d03", Dark: "#ffcc66"})

	boxStyle = lipgloss.NewStyle().Padding(1, 2)
)

// Stats is everything the stats command prints for one selection.
type Stats struct {
	Selection    string // human-readable filter description
	Overview     analytics.Overview
	TopMentioned []graph.Ranked
	Topics       []analytics.LabelCount
}

// Render lays out the stats as styled text blocks.
func Render(s Stats) string {
	blocks := []string{
		titleStyle.Render("brandgraph · " + s.Selection),
		metricRows(s.Overview),
	}
	if s.Overview.Posts == 0 {
		blocks = append(blocks, noticeStyle.Render("No posts match the selected filters."))
		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	}

	if len(s.TopMentioned) > 0 {
		rows := make([][2]string, 0, len(s.TopMentioned))
		for _, r := range s.TopMentioned {
			rows = append(rows, [2]string{"@" + r.Handle, strconv.Itoa(r.InDegree)})
		}
		blocks = append(blocks, table("Most mentioned", "Mentions", rows))
	}
	if len(s.Topics) > 0 {
		rows := make([][2]string, 0, len(s.Topics))
		for _, t := range s.Topics {
			rows = append(rows, [2]string{t.Label, fmt.Sprintf("%d (%.1f%%)", t.Count, t.Share*100)})
		}
		blocks = append(blocks, table("Topic", "Tweets", rows))
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}

func metricRows(o analytics.Overview) string {
	pairs := [][2]string{
		{"Tweets analysed", strconv.Itoa(o.Posts)},
		{"Unique users", strconv.Itoa(o.UniqueUsers)},
		{"Interactions", strconv.Itoa(o.Interactions)},
		{"Network density", strconv.FormatFloat(o.Density, 'f', 4, 64)},
	}
	lines := make([]string, 0, len(pairs))
	for _, p := range pairs {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(p[0]), valueStyle.Render(p[1])))
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

// table renders a two-column table with the first column sized to its
// widest cell.
func table(left, right string, rows [][2]string) string {
	width := lipgloss.Width(left)
	for _, r := range rows {
		if w := lipgloss.Width(r[0]); w > width {
			width = w
		}
	}
	col := lipgloss.NewStyle().Width(width + 2)

	var b strings.Builder
	b.WriteString(headerStyle.Render(col.Render(left) + right))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(col.Render(r[0]) + r[1])
	}
	b.WriteString("\n")
	return b.String()
}
