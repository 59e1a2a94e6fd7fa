package render

import (
	"fmt"
	"io"

	"github.com/roach88/rollforward/internal/matrix"
)

// Schedule writes the schedule grid: one line per row and one column per
// date of the Dimension Key. Empty cells are blank. Entries outside the
// Dimension Key are not shown.
func Schedule(w io.Writer, rows []matrix.Row, dates []string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No scheduled units.")
		return err
	}

	headers := append([]string{"Unit", "Product"}, dates...)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		line := make([]string, 0, len(headers))
		line = append(line, r.Unit, r.Product)
		for _, d := range dates {
			if v, ok := r.Dates[d]; ok {
				line = append(line, Number(v))
			} else {
				line = append(line, "")
			}
		}
		cells = append(cells, line)
	}

	_, err := fmt.Fprintln(w, newTable(headers, cells, 2).Render())
	return err
}
