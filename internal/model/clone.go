package model

import (
	"maps"
	"slices"
)

// Clone returns a copy of the metadata, or nil.
func (m *ModelMetaData) Clone() *ModelMetaData {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// CloneProducts copies a product list. A nil list becomes empty.
func CloneProducts(p []ProductRecord) []ProductRecord {
	out := make([]ProductRecord, len(p))
	copy(out, p)
	return out
}

// Clone deep-copies the dated volumes. A nil map becomes empty.
func (d DateVolumes) Clone() DateVolumes {
	if d == nil {
		return DateVolumes{}
	}
	return maps.Clone(d)
}

// Clone deep-copies the product map. A nil map becomes empty.
func (p ProductDateVolumes) Clone() ProductDateVolumes {
	out := make(ProductDateVolumes, len(p))
	for code, dates := range p {
		out[code] = dates.Clone()
	}
	return out
}

// Clone deep-copies the schedule. A nil schedule becomes empty.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for unit, products := range s {
		out[unit] = products.Clone()
	}
	return out
}

// Clone deep-copies the yield table. A nil table becomes empty.
func (y UnitYield) Clone() UnitYield {
	out := make(UnitYield, len(y))
	for unit, charges := range y {
		c := make(map[string][]YieldOutput, len(charges))
		for code, outputs := range charges {
			c[code] = slices.Clone(outputs)
		}
		out[unit] = c
	}
	return out
}

// Clone deep-copies the formulation. A nil formulation becomes empty.
func (f ProductFormulation) Clone() ProductFormulation {
	out := make(ProductFormulation, len(f))
	for code, comps := range f {
		out[code] = slices.Clone(comps)
	}
	return out
}

// Clone deep-copies the result, preserving nil.
func (r Result) Clone() Result {
	if r == nil {
		return nil
	}
	out := make(Result, len(r))
	for code, dates := range r {
		d := make(map[string][]OutputItems, len(dates))
		for key, items := range dates {
			d[key] = slices.Clone(items)
		}
		out[code] = d
	}
	return out
}
