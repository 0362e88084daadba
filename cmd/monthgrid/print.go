package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/monthgrid/internal/calendar"
)

const printCellWidth = 4

// printMonths writes every month of m as a plain text grid followed by the
// annotations of its own days. The active month is restored afterwards.
func printMonths(w io.Writer, m *calendar.Model) {
	if m.Len() == 0 {
		fmt.Fprintln(w, "No months to show.")
		return
	}

	active := m.Position()
	defer m.MoveTo(active)

	for i := 0; i < m.Len(); i++ {
		m.MoveTo(i)
		month, ok := m.Active()
		if !ok {
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, month.Header)

		cells := m.Cells()
		var notes []calendar.Cell
		var row strings.Builder
		for j, cell := range cells {
			text := cell.DisplayText
			if cell.HasAnnotation && cell.State != calendar.StateHeader {
				text += "*"
				if cell.InMonth {
					notes = append(notes, cell)
				}
			}
			row.WriteString(runewidth.FillLeft(text, printCellWidth))

			if (j+1)%calendar.DaysInWeek == 0 {
				fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
				row.Reset()
			}
		}

		for _, cell := range notes {
			fmt.Fprintf(w, "  %s  %s\n", cell.Date.Canonical(), cell.Annotation)
		}
	}
}
