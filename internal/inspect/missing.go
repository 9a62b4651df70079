package inspect

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// MissingStat is the missing-value summary of one column.
type MissingStat struct {
	Column  string
	Missing int
	Total   int
	Percent float64
}

// MissingPercentages reports, per column, round(100*missing/rows, 2). An
// empty dataset reports 0 for every column.
func MissingPercentages(d *Dataset) []MissingStat {
	stats := make([]MissingStat, len(d.Columns))
	for c, name := range d.Columns {
		stats[c] = MissingStat{Column: name, Total: len(d.Rows)}
	}
	for _, row := range d.Rows {
		for c := range d.Columns {
			if c >= len(row) || IsMissing(row[c]) {
				stats[c].Missing++
			}
		}
	}
	for c := range stats {
		stats[c].Percent = percent(stats[c].Missing, stats[c].Total)
	}
	return stats
}

func percent(m, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(100*float64(m)/float64(n)*100) / 100
}

// WriteMissingTable renders stats as a table. Columns above threshold are
// highlighted when useColor is set.
func WriteMissingTable(w io.Writer, stats []MissingStat, threshold float64, useColor bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Missing", "Rows", "% Missing"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, s := range stats {
		pct := fmt.Sprintf("%.2f", s.Percent)
		if useColor {
			switch {
			case s.Percent > threshold:
				pct = color.RedString(pct)
			case s.Percent > 0:
				pct = color.YellowString(pct)
			}
		}
		table.Append([]string{
			s.Column,
			fmt.Sprintf("%d", s.Missing),
			fmt.Sprintf("%d", s.Total),
			pct,
		})
	}

	table.Render()
}
