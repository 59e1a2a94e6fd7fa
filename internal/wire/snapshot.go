package wire

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/rollforward/internal/model"
)

// Snapshot is the consolidated model in its wire shape.
type Snapshot struct {
	ModelMetaData        *model.ModelMetaData
	ProductsForModelItem []model.ProductRecord
	Receipts             model.ProductDateVolumes
	DailyOpenOrders      model.ProductDateVolumes
	DailyDemandForecast  model.ProductDateVolumes
	ProductFormulation   model.ProductFormulation
	ScheduleItem         model.Schedule
	UnitYieldItem        model.UnitYield

	// Result is the roll-forward output, present only on service responses.
	Result model.Result
}

// snapshotJSON is the on-the-wire layout. The result pointers distinguish an
// absent section from an empty one.
type snapshotJSON struct {
	ModelMetaData        *model.ModelMetaData     `json:"ModelMetaData"`
	ProductsForModelItem []model.ProductRecord    `json:"ProductsForModelItem"`
	Receipts             model.ProductDateVolumes `json:"Receipts"`
	DailyOpenOrders      model.ProductDateVolumes `json:"DailyOpenOrders"`
	DailyDemandForecast  model.ProductDateVolumes `json:"DailyDemandForecast"`
	ProductFormulation   model.ProductFormulation `json:"ProductFormulation"`
	ScheduleItem         model.Schedule           `json:"ScheduleItem"`
	UnitYieldItem        model.UnitYield          `json:"UnitYieldItem"`
	Output               *model.Result            `json:"Output,omitempty"`
	Outputs              *model.Result            `json:"Outputs,omitempty"`
}

// MarshalJSON writes the snapshot with the result under "Outputs".
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		ModelMetaData:        s.ModelMetaData,
		ProductsForModelItem: s.ProductsForModelItem,
		Receipts:             s.Receipts,
		DailyOpenOrders:      s.DailyOpenOrders,
		DailyDemandForecast:  s.DailyDemandForecast,
		ProductFormulation:   s.ProductFormulation,
		ScheduleItem:         s.ScheduleItem,
		UnitYieldItem:        s.UnitYieldItem,
	}
	if s.Result != nil {
		out.Outputs = &s.Result
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a snapshot. When both "Output" and "Outputs" are
// present, "Output" wins.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	*s = Snapshot{
		ModelMetaData:        in.ModelMetaData,
		ProductsForModelItem: in.ProductsForModelItem,
		Receipts:             in.Receipts,
		DailyOpenOrders:      in.DailyOpenOrders,
		DailyDemandForecast:  in.DailyDemandForecast,
		ProductFormulation:   in.ProductFormulation,
		ScheduleItem:         in.ScheduleItem,
		UnitYieldItem:        in.UnitYieldItem,
	}
	switch {
	case in.Output != nil:
		s.Result = *in.Output
	case in.Outputs != nil:
		s.Result = *in.Outputs
	}
	if s.Result == nil && (in.Outputs != nil || in.Output != nil) {
		s.Result = model.Result{}
	}
	return nil
}

// HasResult reports whether the snapshot carries a result section.
func (s Snapshot) HasResult() bool {
	return s.Result != nil
}

// Hash returns the content hash of the snapshot's canonical JSON.
func (s Snapshot) Hash() (string, error) {
	return model.ContentHash(model.DomainSnapshot, s)
}

// Decode parses a snapshot document.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Encode renders a snapshot as indented JSON.
func Encode(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return append(data, '\n'), nil
}
