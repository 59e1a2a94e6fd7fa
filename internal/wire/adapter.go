package wire

import (
	"github.com/roach88/rollforward/internal/model"
	"github.com/roach88/rollforward/internal/state"
)

// Consolidate assembles the snapshot sent to the service. It fails with a
// MISSING_METADATA error when the model has no metadata. Every section is
// deep-copied.
func Consolidate(s state.State) (Snapshot, error) {
	if s.Metadata == nil {
		return Snapshot{}, state.NewMissingMetadataError()
	}
	return Capture(s), nil
}

// Capture is Consolidate without the metadata requirement. It is used for
// working copies that may not be ready to submit.
func Capture(s state.State) Snapshot {
	c := s.Clone()
	return Snapshot{
		ModelMetaData:        c.Metadata,
		ProductsForModelItem: c.Products,
		Receipts:             c.Receipts,
		DailyOpenOrders:      c.OpenOrders,
		DailyDemandForecast:  c.DemandForecast,
		ProductFormulation:   c.ProductFormulation,
		ScheduleItem:         c.Schedule,
		UnitYieldItem:        c.UnitYields,
	}
}

// Decompose maps a snapshot back onto a State suitable for LoadModel.
// Missing sections become empty containers. The result section is not part
// of the model and is ignored.
func Decompose(snap Snapshot) state.State {
	return state.State{
		Metadata:           snap.ModelMetaData,
		Products:           snap.ProductsForModelItem,
		Schedule:           snap.ScheduleItem,
		UnitYields:         snap.UnitYieldItem,
		Receipts:           snap.Receipts,
		OpenOrders:         snap.DailyOpenOrders,
		DemandForecast:     snap.DailyDemandForecast,
		ProductFormulation: snap.ProductFormulation,
	}.Clone()
}

// ResultOf returns a deep copy of the snapshot's result, or nil.
func ResultOf(snap Snapshot) model.Result {
	return snap.Result.Clone()
}
