package state

import "github.com/roach88/rollforward/internal/model"

// Section names one independently replaceable part of the State.
type Section string

const (
	SectionMetadata           Section = "metadata"
	SectionProducts           Section = "products"
	SectionSchedule           Section = "schedule"
	SectionUnitYields         Section = "unit_yields"
	SectionReceipts           Section = "receipts"
	SectionOpenOrders         Section = "open_orders"
	SectionDemandForecast     Section = "demand_forecast"
	SectionProductFormulation Section = "product_formulation"

	// SectionAll is the pseudo-section replaced by LoadModel and Reset.
	SectionAll Section = "all"
)

// Sections lists the real sections in a fixed order.
var Sections = []Section{
	SectionMetadata,
	SectionProducts,
	SectionSchedule,
	SectionUnitYields,
	SectionReceipts,
	SectionOpenOrders,
	SectionDemandForecast,
	SectionProductFormulation,
}

// State is the full planning model. It is valid for consolidation only
// when Metadata is non-nil.
type State struct {
	Metadata           *model.ModelMetaData
	Products           []model.ProductRecord
	Schedule           model.Schedule
	UnitYields         model.UnitYield
	Receipts           model.ProductDateVolumes
	OpenOrders         model.ProductDateVolumes
	DemandForecast     model.ProductDateVolumes
	ProductFormulation model.ProductFormulation
}

// Empty returns the initial state: no metadata, empty containers.
func Empty() State {
	return State{
		Products:           []model.ProductRecord{},
		Schedule:           model.Schedule{},
		UnitYields:         model.UnitYield{},
		Receipts:           model.ProductDateVolumes{},
		OpenOrders:         model.ProductDateVolumes{},
		DemandForecast:     model.ProductDateVolumes{},
		ProductFormulation: model.ProductFormulation{},
	}
}

// Clone deep-copies every section. Nil sections become empty containers.
func (s State) Clone() State {
	return State{
		Metadata:           s.Metadata.Clone(),
		Products:           model.CloneProducts(s.Products),
		Schedule:           s.Schedule.Clone(),
		UnitYields:         s.UnitYields.Clone(),
		Receipts:           s.Receipts.Clone(),
		OpenOrders:         s.OpenOrders.Clone(),
		DemandForecast:     s.DemandForecast.Clone(),
		ProductFormulation: s.ProductFormulation.Clone(),
	}
}
