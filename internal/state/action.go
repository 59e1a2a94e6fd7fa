package state

import "github.com/roach88/rollforward/internal/model"

// Action is a sealed set of state transitions.
// Only the types in this file implement it.
type Action interface {
	// Name is the stable action name used in logs and metrics.
	Name() string
	// Section is the part of the state the action replaces.
	Section() Section
	action()
}

// SetMetadata replaces the metadata wholesale.
type SetMetadata struct{ Metadata model.ModelMetaData }

// SetProducts replaces the product list wholesale. No dedup is performed.
type SetProducts struct{ Products []model.ProductRecord }

// SetSchedule replaces the schedule wholesale.
type SetSchedule struct{ Schedule model.Schedule }

// SetUnitYields replaces the yield table wholesale.
type SetUnitYields struct{ UnitYields model.UnitYield }

// SetReceipts replaces receipts wholesale.
type SetReceipts struct{ Receipts model.ProductDateVolumes }

// SetOpenOrders replaces open orders wholesale.
type SetOpenOrders struct{ OpenOrders model.ProductDateVolumes }

// SetDemandForecast replaces the demand forecast wholesale.
type SetDemandForecast struct{ DemandForecast model.ProductDateVolumes }

// SetProductFormulation replaces the formulation wholesale.
type SetProductFormulation struct{ ProductFormulation model.ProductFormulation }

// LoadModel replaces every section at once, typically with the output of
// wire.Decompose after an external load.
type LoadModel struct{ State State }

// Reset restores the empty initial state.
type Reset struct{}

func (SetMetadata) Name() string           { return "SET_METADATA" }
func (SetProducts) Name() string           { return "SET_PRODUCTS" }
func (SetSchedule) Name() string           { return "SET_SCHEDULE" }
func (SetUnitYields) Name() string         { return "SET_UNIT_YIELDS" }
func (SetReceipts) Name() string           { return "SET_RECEIPTS" }
func (SetOpenOrders) Name() string         { return "SET_OPEN_ORDERS" }
func (SetDemandForecast) Name() string     { return "SET_DEMAND_FORECAST" }
func (SetProductFormulation) Name() string { return "SET_PRODUCT_FORMULATION" }
func (LoadModel) Name() string             { return "LOAD_MODEL" }
func (Reset) Name() string                 { return "RESET" }

func (SetMetadata) Section() Section           { return SectionMetadata }
func (SetProducts) Section() Section           { return SectionProducts }
func (SetSchedule) Section() Section           { return SectionSchedule }
func (SetUnitYields) Section() Section         { return SectionUnitYields }
func (SetReceipts) Section() Section           { return SectionReceipts }
func (SetOpenOrders) Section() Section         { return SectionOpenOrders }
func (SetDemandForecast) Section() Section     { return SectionDemandForecast }
func (SetProductFormulation) Section() Section { return SectionProductFormulation }
func (LoadModel) Section() Section             { return SectionAll }
func (Reset) Section() Section                 { return SectionAll }

func (SetMetadata) action()           {}
func (SetProducts) action()           {}
func (SetSchedule) action()           {}
func (SetUnitYields) action()         {}
func (SetReceipts) action()           {}
func (SetOpenOrders) action()         {}
func (SetDemandForecast) action()     {}
func (SetProductFormulation) action() {}
func (LoadModel) action()             {}
func (Reset) action()                 {}
