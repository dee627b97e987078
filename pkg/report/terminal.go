package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorNeonGreen  = lipgloss.Color("#00FF99")
	colorNeonPurple = lipgloss.Color("#874BFD")
	colorTextSub    = lipgloss.Color("#64748B")
	colorDanger     = lipgloss.Color("#FF0055")

	subtle    = lipgloss.NewStyle().Foreground(colorTextSub)
	special   = lipgloss.NewStyle().Foreground(colorNeonGreen).Bold(true)
	danger    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
	highlight = lipgloss.NewStyle().Foreground(colorNeonPurple).Bold(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTextSub).
			Padding(1, 2)
)

// Render draws the post-build digest shown on the terminal.
func Render(s Summary) string {
	var b strings.Builder

	b.WriteString(highlight.Render(fmt.Sprintf("DAG BUILD // %s", s.Dataset)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %s\n",
		subtle.Render("Vertices:"),
		special.Render(fmt.Sprintf("%d", s.Stats.Vertices))))
	b.WriteString(fmt.Sprintf("%s %s\n",
		subtle.Render("Accepted edges:"),
		special.Render(fmt.Sprintf("%d", s.Stats.Accepted))))

	excluded := s.Stats.SelfLoops + s.Stats.Duplicates + s.Stats.Cycles
	style := special
	if excluded > 0 {
		style = danger
	}
	b.WriteString(fmt.Sprintf("%s %s %s\n",
		subtle.Render("Excluded edges:"),
		style.Render(fmt.Sprintf("%d", excluded)),
		subtle.Render(fmt.Sprintf("(self-loops %d, duplicates %d, cycles %d)",
			s.Stats.SelfLoops, s.Stats.Duplicates, s.Stats.Cycles))))

	if len(s.Components) > 0 {
		b.WriteString(fmt.Sprintf("%s %s\n",
			subtle.Render("Components:"),
			special.Render(fmt.Sprintf("%d (largest %d)", len(s.Components), s.Components[0]))))
	}

	if len(s.Hubs) > 0 {
		b.WriteString("\n" + highlight.Render("TOP REGULATORS") + "\n")
		for _, h := range s.Hubs {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				special.Render(h.Name),
				subtle.Render(fmt.Sprintf("out %d / in %d / reaches %d", h.OutDegree, h.InDegree, h.Reach))))
		}
	}

	return cardStyle.Render(b.String())
}
