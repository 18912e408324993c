package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a single field value: either numeric or a categorical label.
type Value struct {
	num     float64
	label   string
	isLabel bool
}

// Number wraps a numeric value.
func Number(f float64) Value {
	return Value{num: f}
}

// Label wraps a categorical label.
func Label(s string) Value {
	return Value{label: s, isLabel: true}
}

// IsLabel reports whether the value is categorical.
func (v Value) IsLabel() bool {
	return v.isLabel
}

// String returns the stringified form used for grouping keys and equality filters.
// Integral numbers print without a fractional part, so 1.0 becomes "1".
func (v Value) String() string {
	if v.isLabel {
		return v.label
	}
	return FormatNumber(v.num)
}

// Float returns the numeric form. Labels that do not parse as numbers yield NaN.
func (v Value) Float() float64 {
	if !v.isLabel {
		return v.num
	}
	return ParseNumber(v.label)
}

// FormatNumber renders f the way grouping keys expect: shortest round-trip decimal.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ParseNumber coerces s to a float64; blank or non-numeric input yields NaN.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// MarshalJSON encodes labels as JSON strings and numbers as JSON numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.isLabel {
		return json.Marshal(v.label)
	}
	if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v.num)
}

// UnmarshalJSON accepts a JSON string, number, or boolean.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case string:
		*v = Label(x)
	case float64:
		*v = Number(x)
	case bool:
		if x {
			*v = Number(1)
		} else {
			*v = Number(0)
		}
	case nil:
		*v = Number(math.NaN())
	default:
		return fmt.Errorf("value must be a string or number, got %s", string(data))
	}
	return nil
}
