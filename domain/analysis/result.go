package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// SignificanceLevel is the fixed alpha every result is judged against.
const SignificanceLevel = 0.05

// Test labels reported in StatResult.TestLabel.
const (
	LabelTwoSample          = "Two-sample t-test (Welch's)"
	LabelTwoSampleBasic     = "Two-sample t-test"
	LabelANOVA              = "One-way ANOVA"
	LabelSimpleRegression   = "Simple linear regression"
	LabelMultipleRegression = "Multiple linear regression"
)

// StatResult is the output of one analysis. Build it with NewResult or Degenerate so
// that the p-value stays in [0,1] and Significant tracks it.
type StatResult struct {
	TestLabel    string      `json:"test_type"`
	PValue       float64     `json:"p_value"`
	Statistic    float64     `json:"statistic"`
	N            int         `json:"n"`
	NFiltered    int         `json:"n_filtered"`
	GroupMeans   NamedValues `json:"group_means,omitempty"`
	Coefficients NamedValues `json:"coefficients,omitempty"`
	RSquared     *float64    `json:"r_squared,omitempty"`
	Description  string      `json:"description"`
	Significant  bool        `json:"significant"`
}

// NewResult builds a result from a computed p-value and statistic.
func NewResult(label string, pValue, statistic float64, description string) StatResult {
	p := ClampProbability(pValue)
	if math.IsNaN(statistic) || math.IsInf(statistic, 0) {
		statistic = 0
		p = 1
	}
	return StatResult{
		TestLabel:   label,
		PValue:      p,
		Statistic:   statistic,
		Description: description,
		Significant: p < SignificanceLevel,
	}
}

// Degenerate builds the uniform "nothing to report" result: p=1, statistic 0.
func Degenerate(label, description string) StatResult {
	return NewResult(label, 1, 0, description)
}

// WithCounts returns a copy carrying the unfiltered and filtered record counts.
func (r StatResult) WithCounts(n, nFiltered int) StatResult {
	if nFiltered > n {
		nFiltered = n
	}
	r.N = n
	r.NFiltered = nFiltered
	return r
}

// WithRSquared returns a copy carrying R², clamped into [0,1].
func (r StatResult) WithRSquared(r2 float64) StatResult {
	v := ClampProbability(r2)
	if math.IsNaN(r2) {
		v = 0
	}
	r.RSquared = &v
	return r
}

// ClampProbability maps x into [0,1]; NaN maps to 1.
func ClampProbability(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 1
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// NamedValue is one entry of an ordered string-keyed mapping.
type NamedValue struct {
	Name  string
	Value float64
}

// NamedValues is an insertion-ordered mapping with unique keys. It encodes to a JSON
// object whose keys keep that order.
type NamedValues []NamedValue

// Set inserts or replaces name, keeping keys unique.
func (nv NamedValues) Set(name string, value float64) NamedValues {
	for i := range nv {
		if nv[i].Name == name {
			nv[i].Value = value
			return nv
		}
	}
	return append(nv, NamedValue{Name: name, Value: value})
}

// Get looks up name.
func (nv NamedValues) Get(name string) (float64, bool) {
	for _, v := range nv {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// Names returns the keys in order.
func (nv NamedValues) Names() []string {
	out := make([]string, len(nv))
	for i, v := range nv {
		out[i] = v.Name
	}
	return out
}

// MarshalJSON writes an object in insertion order. Non-finite values become null.
func (nv NamedValues) MarshalJSON() ([]byte, error) {
	if nv == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range nv {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(v.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if math.IsNaN(v.Value) || math.IsInf(v.Value, 0) {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(v.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, preserving key order.
func (nv *NamedValues) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*nv = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("named values must be a JSON object")
	}
	out := NamedValues{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("named values: expected string key")
		}
		var val *float64
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("named values: %s: %w", key, err)
		}
		v := math.NaN()
		if val != nil {
			v = *val
		}
		out = out.Set(key, v)
	}
	*nv = out
	return nil
}
