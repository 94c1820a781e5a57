package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lukemcguire/statuscat/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	urlStyle         = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// RenderSummary produces a Lip Gloss styled summary of run results: link
// counts per category, then every unreachable link with its reason.
func RenderSummary(res *result.Result) string {
	if res == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder

	if len(res.Links) == 0 {
		builder.WriteString(successStyle.Render("No links found."))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Scanned %d pages in %s",
			res.Stats.Pages,
			res.Stats.Duration.Round(1_000_000), // round to ms
		)))
		builder.WriteString("\n")
		return builder.String()
	}

	counts := result.CountByCategory(res.Links)
	rows := make([][]string, 0, len(counts))
	for _, cat := range result.CategoryOrder {
		if n := counts[cat]; n > 0 {
			rows = append(rows, []string{result.FormatCategory(cat), strconv.Itoa(n)})
		}
	}

	countTable := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Category", "Links").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return urlStyle
		}).
		Rows(rows...)
	builder.WriteString(countTable.Render())
	builder.WriteString("\n\n")

	if res.Stats.Unreachable > 0 {
		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## Unreachable (%d)", res.Stats.Unreachable)))
		builder.WriteString("\n")

		var failed [][]string
		for _, link := range res.Links {
			if link.Status.IsUnreachable() {
				failed = append(failed, []string{link.Link, result.FormatCategory(result.CategoryOf(link.Status))})
			}
		}
		failedTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("URL", "Reason").
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				if col == 1 {
					return statusErrorStyle
				}
				return urlStyle
			}).
			Rows(failed...)
		builder.WriteString(failedTable.Render())
		builder.WriteString("\n\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Checked %d links from %d pages, %d unreachable (%s)",
		res.Stats.Links,
		res.Stats.Pages,
		res.Stats.Unreachable,
		res.Stats.Duration.Round(1_000_000),
	)))
	builder.WriteString("\n")

	return builder.String()
}
