package analysis

import (
	"strings"

	"farmstat/domain/dataset"
)

// TestKind selects the hypothesis test a request runs.
type TestKind string

const (
	KindTwoSample  TestKind = "ttest"
	KindANOVA      TestKind = "anova"
	KindRegression TestKind = "regression"
)

// ParseTestKind normalizes free-form test names. Anything unrecognized maps to the
// two-sample test.
func ParseTestKind(s string) TestKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anova", "one-way anova", "oneway":
		return KindANOVA
	case "regression", "ols", "linear regression":
		return KindRegression
	default:
		return KindTwoSample
	}
}

// Operator is a filter comparison.
type Operator string

const (
	OpEq  Operator = "eq"
	OpNeq Operator = "neq"
	OpGt  Operator = "gt"
	OpLt  Operator = "lt"
	OpGte Operator = "gte"
	OpLte Operator = "lte"
)

// Valid reports whether op is one of the six supported comparisons.
func (op Operator) Valid() bool {
	switch op {
	case OpEq, OpNeq, OpGt, OpLt, OpGte, OpLte:
		return true
	}
	return false
}

// Ordering reports whether op compares numerically.
func (op Operator) Ordering() bool {
	switch op {
	case OpGt, OpLt, OpGte, OpLte:
		return true
	}
	return false
}

// FilterCondition restricts the analysed records.
type FilterCondition struct {
	Field    dataset.Field `json:"field"`
	Operator Operator      `json:"operator"`
	Value    dataset.Value `json:"value"`
}

// AnalysisRequest is the structured form of a user's question.
type AnalysisRequest struct {
	TestKind     TestKind          `json:"test_type"`
	GroupField   dataset.Field     `json:"group_var,omitempty"`
	OutcomeField dataset.Field     `json:"outcome_var"`
	Covariates   []dataset.Field   `json:"covariates"`
	Filters      []FilterCondition `json:"filters"`
	Description  string            `json:"description"`
}

// HasGroup reports whether a grouping field was supplied.
func (r AnalysisRequest) HasGroup() bool {
	return r.GroupField != ""
}

// DefaultRequest is the fallback used whenever a question cannot be parsed.
func DefaultRequest(description string) AnalysisRequest {
	return AnalysisRequest{
		TestKind:     KindTwoSample,
		GroupField:   dataset.DefaultGroupField,
		OutcomeField: dataset.DefaultOutcomeField,
		Covariates:   []dataset.Field{},
		Filters:      []FilterCondition{},
		Description:  description,
	}
}

// Normalize fills unset fields with defaults and canonicalizes the test kind.
// The group field is left empty when absent since each test picks its own default.
func (r AnalysisRequest) Normalize() AnalysisRequest {
	out := r
	out.TestKind = ParseTestKind(string(r.TestKind))
	if out.OutcomeField == "" {
		out.OutcomeField = dataset.DefaultOutcomeField
	}
	out.Covariates = append([]dataset.Field{}, r.Covariates...)
	out.Filters = append([]FilterCondition{}, r.Filters...)
	for i, f := range out.Filters {
		out.Filters[i].Operator = Operator(strings.ToLower(strings.TrimSpace(string(f.Operator))))
	}
	return out
}
