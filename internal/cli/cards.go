package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/schemagraph/pkg/view"
)

// Card section titles.
const (
	sectionPK         = "PK"
	sectionTimestamps = "TIMESTAMPS"
	sectionAttributes = "ATTRIBUTES"
)

var (
	cardSectionStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cardItemStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	cardEmptyStyle   = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

// cardWidth is the width of a node card inside its border, padding included.
const cardWidth = 32

// renderCard draws one entity node. Attributes are listed only when the card
// is expanded. Highlighted and selected nodes get a heavier border.
func renderCard(n view.Node, collapsed, focused bool) string {
	color := lipgloss.Color(n.Color)

	marker := "-"
	if collapsed {
		marker = "+"
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(color).
		Width(cardWidth - 4).
		Render(truncate(n.Label, cardWidth-6))
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, StyleDim.Render(" "+marker))

	lines := []string{header}
	lines = append(lines, section(sectionPK, n.Keys)...)
	lines = append(lines, section(sectionTimestamps, n.Timestamps)...)
	if !collapsed {
		lines = append(lines, section(sectionAttributes, n.Fields)...)
	}

	border := lipgloss.RoundedBorder()
	borderColor := colorDim
	switch {
	case n.Selected:
		border = lipgloss.DoubleBorder()
		borderColor = color
	case view.IsHighlighted(n.ClassName):
		border = lipgloss.ThickBorder()
		borderColor = color
	}

	card := lipgloss.NewStyle().
		Border(border).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(cardWidth).
		Render(strings.Join(lines, "\n"))

	cursor := "  "
	if focused {
		cursor = StyleTitle.Render("▸ ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cursor, card)
}

func section(name string, items []string) []string {
	out := []string{cardSectionStyle.Render(name)}
	if len(items) == 0 {
		return append(out, cardEmptyStyle.Render("  none"))
	}
	for _, it := range items {
		out = append(out, cardItemStyle.Render("  "+truncate(it, cardWidth-6)))
	}
	return out
}

// renderDetails draws the details panel of the selected node.
func renderDetails(n view.Node) string {
	rows := [][]string{
		{"Label", n.Label},
		{sectionPK, joinOrNone(n.Keys)},
		{sectionTimestamps, joinOrNone(n.Timestamps)},
		{sectionAttributes, joinOrNone(n.Fields)},
		{"ID", n.ID},
	}

	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color))).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return keyStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1).Width(40)
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Details"))
	b.WriteString("\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("esc close"))
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
