package history

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatTable writes entries as a table, newest first.
func FormatTable(entries []Entry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No searches recorded.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "When", "Mode", "Expression", "Count", "Results"})
	for _, e := range entries {
		results := fmt.Sprintf("%d of %s", e.Returned, e.Total)
		if e.Failed() {
			results = "failed: " + e.Error
		}
		tw.AppendRow(table.Row{
			e.ID,
			e.SearchedAt.Local().Format("2006-01-02 15:04"),
			e.Mode,
			e.Expression,
			e.Count,
			results,
		})
	}
	tw.Render()
}
