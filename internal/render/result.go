package render

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/roach88/rollforward/internal/model"
)

// ResultColumns are the result table headers.
var ResultColumns = []string{
	"Date",
	"Opening Inventory",
	"Receipts",
	"Production In",
	"Production Out",
	"Open Orders",
	"Demand Forecast",
	"Blend Requirements",
	"Ending Inventory",
}

// Result writes one table per product, products in code order and dates in
// day order. uid labels the output; an empty uid prints as N/A.
func Result(w io.Writer, uid string, result model.Result) error {
	if result == nil {
		_, err := fmt.Fprintln(w, "No model output available. Please run a model first.")
		return err
	}
	if uid == "" {
		uid = "N/A"
	}
	if _, err := fmt.Fprintf(w, "%s\nModel ID: %s\n", titleStyle.Render("Model Results"), uid); err != nil {
		return err
	}

	for _, product := range slices.Sorted(maps.Keys(result)) {
		byDate := result[product]
		dates := slices.Collect(maps.Keys(byDate))
		sortDateKeys(dates)

		var rows [][]string
		for _, date := range dates {
			for _, item := range byDate[date] {
				rows = append(rows, []string{
					date,
					Number(item.OpenInventory),
					Number(item.Receipts),
					Number(item.ProductionIn),
					Number(item.ProductionOut),
					Number(item.OpenOrders),
					Number(item.DemandForecast),
					Number(item.BlendRequirements),
					Number(item.EndingInventory),
				})
			}
		}

		if _, err := fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Product: "+product)); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, newTable(ResultColumns, rows, 1).Render()); err != nil {
			return err
		}
	}
	return nil
}
