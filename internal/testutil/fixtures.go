package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/rollforward/internal/model"
)

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SampleMetadata is a three-day model starting at day 45000.
func SampleMetadata() model.ModelMetaData {
	return model.ModelMetaData{StartDate: 45000, RunDays: 3, UID: "sample", Description: "sample model"}
}

// SampleProducts returns a small product list: one crude, two cuts and a
// blended product.
func SampleProducts() []model.ProductRecord {
	return []model.ProductRecord{
		{Code: "CRD", Description: "Crude", TankCapacity: 100000, CurrentInventory: 40000},
		{Code: "NAP", Description: "Naphtha", TankCapacity: 20000, CurrentInventory: 5000},
		{Code: "DSL", Description: "Diesel", TankCapacity: 30000, CurrentInventory: 12000},
		{Code: "GAS", Description: "Gasoline", TankCapacity: 25000, CurrentInventory: 8000},
	}
}

// SampleSchedule runs the crude unit on the first two days.
func SampleSchedule() model.Schedule {
	return model.Schedule{"CDU": {"CRD": {"45000": 10000, "45001": 12000}}}
}

// SampleUnitYields splits crude into naphtha and diesel.
func SampleUnitYields() model.UnitYield {
	return model.UnitYield{"CDU": {"CRD": {
		{OutputProductCode: "NAP", OutputPercent: 35},
		{OutputProductCode: "DSL", OutputPercent: 65},
	}}}
}

// SampleFormulation blends gasoline from naphtha.
func SampleFormulation() model.ProductFormulation {
	return model.ProductFormulation{"GAS": {{ComponentCode: "NAP", FormulaPercent: 100}}}
}

// SampleResult is a one-product, one-day roll-forward result.
func SampleResult() model.Result {
	return model.Result{"NAP": {"45000": {{
		OpenInventory:     5000,
		Receipts:          0,
		ProductionIn:      3500,
		ProductionOut:     0,
		OpenOrders:        1000,
		DemandForecast:    500,
		BlendRequirements: 1234.5,
		EndingInventory:   5765.5,
	}}}}
}
