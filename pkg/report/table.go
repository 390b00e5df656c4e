package report

import (
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/tsfix/pkg/fixer"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

const durationPrecision = time.Millisecond

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false

	return tbl
}

// PassTable renders how many files each pass changed, in pipeline order.
// Passes the pipeline does not know come last, sorted by name.
func PassTable(t fixer.Tally) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"Pass", "Files"})

	canonical := rewrite.PassNames()

	for _, name := range canonical {
		if hits := t.PassHits[name]; hits > 0 {
			tbl.AppendRow(table.Row{name, humanize.Comma(int64(hits))})
		}
	}

	for _, name := range t.PassNames() {
		if !slices.Contains(canonical, name) {
			tbl.AppendRow(table.Row{name, humanize.Comma(int64(t.PassHits[name]))})
		}
	}

	return tbl.Render()
}

// PipelineTable renders the passes of a pipeline in run order.
func PipelineTable(passes []rewrite.Pass) string {
	tbl := newTable()
	tbl.AppendHeader(table.Row{"#", "Pass", "Applies to", "Description"})

	for i, p := range passes {
		tbl.AppendRow(table.Row{i + 1, p.Name, kindList(p.Kinds), p.Description})
	}

	return tbl.Render()
}

func kindList(kinds []rewrite.Kind) string {
	if len(kinds) == 0 {
		return "all"
	}

	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}

	return strings.Join(names, ", ")
}
