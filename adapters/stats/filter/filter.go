// Package filter narrows a dataset with an AND-conjunction of comparison predicates.
package filter

import (
	"math"
	"strings"

	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

// Apply returns the records satisfying every condition, in input order. With no
// conditions the input is returned as is. Records are never modified.
func Apply(records dataset.Dataset, conditions []analysis.FilterCondition) dataset.Dataset {
	if len(conditions) == 0 {
		return records
	}

	out := make(dataset.Dataset, 0, len(records))
	for _, r := range records {
		if Matches(r, conditions) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether r satisfies all conditions.
func Matches(r dataset.Record, conditions []analysis.FilterCondition) bool {
	for _, c := range conditions {
		if !matchOne(r, c) {
			return false
		}
	}
	return true
}

// matchOne evaluates a single predicate. Unknown operators let the record through;
// request validation is where they get rejected.
func matchOne(r dataset.Record, c analysis.FilterCondition) bool {
	v, ok := r.Value(c.Field)
	if !ok {
		v = dataset.Number(math.NaN())
	}

	switch c.Operator {
	case analysis.OpEq:
		return strings.EqualFold(v.String(), c.Value.String())
	case analysis.OpNeq:
		return !strings.EqualFold(v.String(), c.Value.String())
	case analysis.OpGt:
		return v.Float() > c.Value.Float()
	case analysis.OpLt:
		return v.Float() < c.Value.Float()
	case analysis.OpGte:
		return v.Float() >= c.Value.Float()
	case analysis.OpLte:
		return v.Float() <= c.Value.Float()
	default:
		return true
	}
}
