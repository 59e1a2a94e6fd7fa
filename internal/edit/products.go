package edit

import (
	"slices"

	"github.com/roach88/rollforward/internal/model"
)

// Product field names, as they appear on the wire.
const (
	FieldProductCode        = "ProductCode"
	FieldProductDescription = "ProductDescription"
	FieldTankCapacity       = "TankCapacityGals"
	FieldCurrentInventory   = "CurrentInventoryGals"
)

// ProductFields lists the editable product fields.
var ProductFields = []string{FieldProductCode, FieldProductDescription, FieldTankCapacity, FieldCurrentInventory}

// AddProduct appends a blank product record.
func AddProduct(list []model.ProductRecord) []model.ProductRecord {
	return append(model.CloneProducts(list), model.ProductRecord{})
}

// UpdateProduct returns list with one field of list[index] replaced.
// An out-of-range index returns an unchanged copy. Capacity and inventory
// are parsed with ParseFloat.
func UpdateProduct(list []model.ProductRecord, index int, field, raw string) ([]model.ProductRecord, error) {
	out := model.CloneProducts(list)
	if index < 0 || index >= len(out) {
		if !slices.Contains(ProductFields, field) {
			return out, unknownField("product", field)
		}
		return out, nil
	}
	p := &out[index]
	switch field {
	case FieldProductCode:
		p.Code = raw
	case FieldProductDescription:
		p.Description = raw
	case FieldTankCapacity:
		p.TankCapacity = ParseFloat(raw)
	case FieldCurrentInventory:
		p.CurrentInventory = ParseFloat(raw)
	default:
		return model.CloneProducts(list), unknownField("product", field)
	}
	return out, nil
}

// RemoveProduct drops list[index]. An out-of-range index returns an
// unchanged copy.
func RemoveProduct(list []model.ProductRecord, index int) []model.ProductRecord {
	out := model.CloneProducts(list)
	if index < 0 || index >= len(out) {
		return out
	}
	return slices.Delete(out, index, index+1)
}

// DuplicateCodes returns every product code that appears more than once,
// in order of second appearance. Duplicates are allowed in the model.
func DuplicateCodes(list []model.ProductRecord) []string {
	seen := make(map[string]int, len(list))
	var dups []string
	for _, p := range list {
		seen[p.Code]++
		if seen[p.Code] == 2 {
			dups = append(dups, p.Code)
		}
	}
	return dups
}
