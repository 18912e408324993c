package dataset

// Field names a column of the farm dataset.
type Field string

const (
	FieldFarmID             Field = "farm_id"
	FieldUsesGrowMax        Field = "uses_growmax"
	FieldYield              Field = "yield_kg_per_hectare"
	FieldCropType           Field = "crop_type"
	FieldSoilType           Field = "soil_type"
	FieldIrrigation         Field = "irrigation"
	FieldRainfall           Field = "rainfall_mm"
	FieldAltitude           Field = "altitude_m"
	FieldFarmSize           Field = "farm_size_hectares"
	FieldYearsSinceRotation Field = "years_since_rotation"
	FieldMarchTemp          Field = "avg_march_temp_c"
)

// Canonical defaults used when a request leaves a field unspecified.
const (
	DefaultGroupField      = FieldUsesGrowMax
	DefaultOutcomeField    = FieldYield
	DefaultANOVAGroupField = FieldCropType
)

// FieldKind classifies how a field may be used.
type FieldKind string

const (
	KindContinuous  FieldKind = "continuous"
	KindDiscrete    FieldKind = "discrete"
	KindCategorical FieldKind = "categorical"
)

// Numeric reports whether values of this kind coerce to numbers.
func (k FieldKind) Numeric() bool {
	return k == KindContinuous || k == KindDiscrete
}

// FieldSpec describes one column.
type FieldSpec struct {
	Name   Field     `json:"name"`
	Kind   FieldKind `json:"kind"`
	Labels []string  `json:"labels,omitempty"`
	Doc    string    `json:"doc"`
}

// HasLabel reports whether label belongs to a categorical field's label set.
func (s FieldSpec) HasLabel(label string) bool {
	for _, l := range s.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Label sets for the categorical fields.
var (
	CropTypes       = []string{"wheat", "rice", "sorghum", "maize", "cotton"}
	SoilTypes       = []string{"clay", "loam", "sandy"}
	IrrigationTypes = []string{"drip", "flood", "rainfed"}
)

// Schema is the fixed column layout, in export order.
var Schema = []FieldSpec{
	{Name: FieldFarmID, Kind: KindDiscrete, Doc: "integer identifier"},
	{Name: FieldUsesGrowMax, Kind: KindDiscrete, Doc: "binary treatment indicator (0 = no GrowMax, 1 = uses GrowMax)"},
	{Name: FieldYield, Kind: KindContinuous, Doc: "crop yield, the primary outcome"},
	{Name: FieldCropType, Kind: KindCategorical, Labels: CropTypes, Doc: "crop grown"},
	{Name: FieldSoilType, Kind: KindCategorical, Labels: SoilTypes, Doc: "soil classification"},
	{Name: FieldIrrigation, Kind: KindCategorical, Labels: IrrigationTypes, Doc: "irrigation method"},
	{Name: FieldRainfall, Kind: KindContinuous, Doc: "annual rainfall in mm"},
	{Name: FieldAltitude, Kind: KindContinuous, Doc: "altitude in metres"},
	{Name: FieldFarmSize, Kind: KindContinuous, Doc: "farm size in hectares"},
	{Name: FieldYearsSinceRotation, Kind: KindDiscrete, Doc: "years since crop rotation (1-5)"},
	{Name: FieldMarchTemp, Kind: KindContinuous, Doc: "average March temperature in Celsius"},
}

// Lookup returns the FieldSpec for a field name.
func Lookup(name Field) (FieldSpec, bool) {
	for _, s := range Schema {
		if s.Name == name {
			return s, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the column names in schema order.
func FieldNames() []string {
	names := make([]string, len(Schema))
	for i, s := range Schema {
		names[i] = string(s.Name)
	}
	return names
}
