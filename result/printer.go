package result

import (
	"fmt"
	"io"

	"github.com/rodaine/table"
)

// PrintSummary writes a per-category table and a totals line to w.
func PrintSummary(w io.Writer, res *Result) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	if len(res.Links) == 0 {
		writef("No links found.\n")
	} else {
		counts := CountByCategory(res.Links)
		tbl := table.New("Category", "Links").WithWriter(w)
		for _, cat := range CategoryOrder {
			if n := counts[cat]; n > 0 {
				tbl.AddRow(FormatCategory(cat), n)
			}
		}
		tbl.Print()
	}
	writef("Checked %d links from %d pages, %d unreachable (%s)\n",
		res.Stats.Links, res.Stats.Pages, res.Stats.Unreachable,
		res.Stats.Duration.Round(1_000_000))
}
