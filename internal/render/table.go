package render

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/rollforward/internal/model"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
)

// newTable builds a bordered table whose first textCols columns are left
// aligned and the rest right aligned.
func newTable(headers []string, rows [][]string, textCols int) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < textCols:
				return cellStyle
			default:
				return numberStyle
			}
		})
}

// sortDateKeys orders date keys numerically; keys that do not parse sort
// after the numeric ones, by text.
func sortDateKeys(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		da, errA := model.ParseDateKey(a)
		db, errB := model.ParseDateKey(b)
		switch {
		case errA == nil && errB == nil:
			return cmp.Compare(da, db)
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		default:
			return cmp.Compare(a, b)
		}
	})
}
