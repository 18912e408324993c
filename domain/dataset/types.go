package dataset

import (
	"fmt"
	"math"
)

// Record is one farm observation. Records are treated as immutable once produced.
type Record struct {
	FarmID             int     `json:"farm_id"`
	UsesGrowMax        int     `json:"uses_growmax"`
	YieldKgPerHectare  float64 `json:"yield_kg_per_hectare"`
	CropType           string  `json:"crop_type"`
	SoilType           string  `json:"soil_type"`
	Irrigation         string  `json:"irrigation"`
	RainfallMM         float64 `json:"rainfall_mm"`
	AltitudeM          float64 `json:"altitude_m"`
	FarmSizeHectares   float64 `json:"farm_size_hectares"`
	YearsSinceRotation int     `json:"years_since_rotation"`
	AvgMarchTempC      float64 `json:"avg_march_temp_c"`
}

// Dataset is a read-only collection of records. Nothing in this module writes to a
// Dataset after construction; operations that narrow it return new slices.
type Dataset []Record

// Value returns the typed value of field for the record.
func (r Record) Value(field Field) (Value, bool) {
	switch field {
	case FieldFarmID:
		return Number(float64(r.FarmID)), true
	case FieldUsesGrowMax:
		return Number(float64(r.UsesGrowMax)), true
	case FieldYield:
		return Number(r.YieldKgPerHectare), true
	case FieldCropType:
		return Label(r.CropType), true
	case FieldSoilType:
		return Label(r.SoilType), true
	case FieldIrrigation:
		return Label(r.Irrigation), true
	case FieldRainfall:
		return Number(r.RainfallMM), true
	case FieldAltitude:
		return Number(r.AltitudeM), true
	case FieldFarmSize:
		return Number(r.FarmSizeHectares), true
	case FieldYearsSinceRotation:
		return Number(float64(r.YearsSinceRotation)), true
	case FieldMarchTemp:
		return Number(r.AvgMarchTempC), true
	default:
		return Value{}, false
	}
}

// Column extracts the values of field in record order.
func (d Dataset) Column(field Field) []Value {
	out := make([]Value, 0, len(d))
	for _, r := range d {
		v, _ := r.Value(field)
		out = append(out, v)
	}
	return out
}

// Clone returns an independent copy of the dataset.
func (d Dataset) Clone() Dataset {
	if d == nil {
		return nil
	}
	out := make(Dataset, len(d))
	copy(out, d)
	return out
}

// Set assigns v to field. Numbers are required for numeric fields, and discrete
// fields additionally reject fractional values.
func (r *Record) Set(field Field, v Value) error {
	spec, ok := Lookup(field)
	if !ok {
		return fmt.Errorf("unknown field %q", field)
	}

	if !spec.Kind.Numeric() {
		s := v.String()
		if !spec.HasLabel(s) {
			return fmt.Errorf("%s: %q is not one of %v", field, s, spec.Labels)
		}
		switch field {
		case FieldCropType:
			r.CropType = s
		case FieldSoilType:
			r.SoilType = s
		case FieldIrrigation:
			r.Irrigation = s
		}
		return nil
	}

	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%s: %q is not a number", field, v.String())
	}
	if spec.Kind == KindDiscrete && f != math.Trunc(f) {
		return fmt.Errorf("%s: %q is not an integer", field, v.String())
	}

	switch field {
	case FieldFarmID:
		r.FarmID = int(f)
	case FieldUsesGrowMax:
		r.UsesGrowMax = int(f)
	case FieldYield:
		r.YieldKgPerHectare = f
	case FieldRainfall:
		r.RainfallMM = f
	case FieldAltitude:
		r.AltitudeM = f
	case FieldFarmSize:
		r.FarmSizeHectares = f
	case FieldYearsSinceRotation:
		r.YearsSinceRotation = int(f)
	case FieldMarchTemp:
		r.AvgMarchTempC = f
	}
	return nil
}
