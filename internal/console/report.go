package console

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"mlbstats/internal"
)

// RenderReport writes one line per category of a run.
func RenderReport(out io.Writer, report internal.RunReport) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.SetTitle("run " + report.RunID)

	t.AppendHeader(table.Row{"Category", "Status", "Rows", "Skipped", "Malformed", "Invalid", "Records", "Written", "Write Failures", "Error"})
	for _, c := range report.Categories {
		t.AppendRow(table.Row{
			c.Category,
			c.Status,
			c.RowsSeen,
			c.RowsSkipped,
			c.RowsMalformed,
			c.Invalid,
			c.Records,
			c.Written,
			c.WriteFailures,
			c.Error,
		})
	}
	t.Render()
}
