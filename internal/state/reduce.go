package state

import "github.com/roach88/rollforward/internal/model"

// Reduce applies an action to a state and returns the new state.
//
// Reduce is pure: the old state is not modified and the payload is deep-copied
// so later caller mutations cannot reach the store. It never fails and never
// validates; a negative runDays is stored as given.
func Reduce(old State, a Action) State {
	next := old
	switch act := a.(type) {
	case SetMetadata:
		m := act.Metadata
		next.Metadata = &m
	case SetProducts:
		next.Products = model.CloneProducts(act.Products)
	case SetSchedule:
		next.Schedule = act.Schedule.Clone()
	case SetUnitYields:
		next.UnitYields = act.UnitYields.Clone()
	case SetReceipts:
		next.Receipts = act.Receipts.Clone()
	case SetOpenOrders:
		next.OpenOrders = act.OpenOrders.Clone()
	case SetDemandForecast:
		next.DemandForecast = act.DemandForecast.Clone()
	case SetProductFormulation:
		next.ProductFormulation = act.ProductFormulation.Clone()
	case LoadModel:
		next = act.State.Clone()
	case Reset:
		next = Empty()
	}
	return next
}
