package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stdforge/stdforge/internal/pipeline"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	summaryLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7a869a")).Width(20)
	summaryWarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107"))
	summaryErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935"))
)

// renderSummary formats the run counters for the terminal.
func renderSummary(s pipeline.Summary) string {
	var b strings.Builder
	b.WriteString(summaryTitleStyle.Render("Migration summary"))
	b.WriteString("\n")

	row := func(label string, value int) {
		b.WriteString(summaryLabelStyle.Render(label))
		b.WriteString(fmt.Sprintf(" %d\n", value))
	}
	row("Collections", s.Collections)
	if s.CollectionsFailed > 0 {
		b.WriteString(summaryLabelStyle.Render("Failed"))
		b.WriteString(" " + summaryErrStyle.Render(fmt.Sprintf("%d", s.CollectionsFailed)) + "\n")
	}
	row("Standards", s.Standards)
	row("Rules", s.Rules)
	row("Examples", s.Examples)
	if s.DuplicatesRemoved > 0 {
		row("Duplicates removed", s.DuplicatesRemoved)
	}
	if s.RepairedItems > 0 {
		row("Repaired items", s.RepairedItems)
	}
	if s.FallbackItems > 0 {
		b.WriteString(summaryLabelStyle.Render("Fallback items"))
		b.WriteString(" " + summaryWarnStyle.Render(fmt.Sprintf("%d", s.FallbackItems)) + "\n")
	}
	row("Imports succeeded", s.ImportsSucceeded)
	if s.ImportsFailed > 0 {
		b.WriteString(summaryLabelStyle.Render("Imports failed"))
		b.WriteString(" " + summaryErrStyle.Render(fmt.Sprintf("%d", s.ImportsFailed)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
