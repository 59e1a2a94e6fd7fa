package model

// ModelMetaData identifies a model run and drives the Dimension Key.
type ModelMetaData struct {
	StartDate   int64  `json:"startDate"`
	RunDays     int64  `json:"runDays"`
	UID         string `json:"uid"`
	Description string `json:"id_description"`
}

// ProductRecord is one entry of the ordered product list.
// Code uniqueness is expected but not enforced.
type ProductRecord struct {
	Code             string  `json:"ProductCode"`
	Description      string  `json:"ProductDescription"`
	TankCapacity     float64 `json:"TankCapacityGals"`
	CurrentInventory float64 `json:"CurrentInventoryGals"`
}

// DateVolumes maps a date key to a volume.
type DateVolumes map[string]float64

// ProductDateVolumes maps a product code to its dated volumes.
// Used for receipts, open orders and demand forecast.
type ProductDateVolumes map[string]DateVolumes

// Schedule maps unit -> product code -> date key -> scheduled charge volume.
type Schedule map[string]ProductDateVolumes

// YieldOutput is one output product of a unit charge.
type YieldOutput struct {
	OutputProductCode string  `json:"Output_ProductCode"`
	OutputPercent     float64 `json:"OutputPercent"`
}

// UnitYield maps unit -> charge product code -> ordered yield outputs.
type UnitYield map[string]map[string][]YieldOutput

// FormulaComponent is one component of a finished-product formulation.
type FormulaComponent struct {
	ComponentCode  string  `json:"ComponentCode"`
	FormulaPercent float64 `json:"FormulaPercent"`
}

// ProductFormulation maps finished product code -> ordered components.
type ProductFormulation map[string][]FormulaComponent

// OutputItems is one roll-forward line for a product on a date.
type OutputItems struct {
	OpenInventory     float64 `json:"OpenInventory"`
	Receipts          float64 `json:"Receipts"`
	ProductionIn      float64 `json:"ProductionIn"`
	ProductionOut     float64 `json:"ProductionOut"`
	OpenOrders        float64 `json:"OpenOrders"`
	DemandForecast    float64 `json:"DemandForecast"`
	BlendRequirements float64 `json:"BlendRequirements"`
	EndingInventory   float64 `json:"EndingInventory"`
}

// Result maps product code -> date key -> roll-forward lines.
type Result map[string]map[string][]OutputItems
