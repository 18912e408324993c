package engine

import (
	"math"

	"farmstat/adapters/stats/filter"
	"farmstat/adapters/stats/hypothesis"
	"farmstat/domain/analysis"
	"farmstat/domain/core"
	"farmstat/domain/dataset"
)

// Validate checks req against the dataset schema before any computation, so that a
// misspelt field or a categorical used as a number fails loudly instead of turning
// into NaN downstream. Errors wrap core.ErrInvalidRequest.
func (e *StatsEngine) Validate(data dataset.Dataset, req analysis.AnalysisRequest) error {
	req = req.Normalize()

	if err := requireNumeric("outcome", req.OutcomeField); err != nil {
		return err
	}

	if req.HasGroup() {
		spec, ok := dataset.Lookup(req.GroupField)
		if !ok {
			return core.NewUnknownFieldError("group", string(req.GroupField))
		}
		if req.TestKind == analysis.KindRegression && !spec.Kind.Numeric() {
			return core.NewTypeMismatchError(string(spec.Name), "numeric predictor", string(spec.Kind))
		}
	}

	for _, c := range req.Covariates {
		if req.TestKind == analysis.KindRegression {
			if err := requireNumeric("covariate", c); err != nil {
				return err
			}
			continue
		}
		if _, ok := dataset.Lookup(c); !ok {
			return core.NewUnknownFieldError("covariate", string(c))
		}
	}

	for _, f := range req.Filters {
		if err := validateFilter(f); err != nil {
			return err
		}
	}

	if req.TestKind == analysis.KindTwoSample && e.opts.Levels == hypothesis.LevelsStrict {
		group := groupFieldOr(req, dataset.DefaultGroupField)
		if levels := hypothesis.LevelCount(filter.Apply(data, req.Filters), group); levels > 2 {
			return core.NewAmbiguousGroupsError(string(group), levels)
		}
	}

	return nil
}

func requireNumeric(role string, field dataset.Field) error {
	spec, ok := dataset.Lookup(field)
	if !ok {
		return core.NewUnknownFieldError(role, string(field))
	}
	if !spec.Kind.Numeric() {
		return core.NewTypeMismatchError(string(field), "numeric "+role, string(spec.Kind))
	}
	return nil
}

func validateFilter(f analysis.FilterCondition) error {
	spec, ok := dataset.Lookup(f.Field)
	if !ok {
		return core.NewUnknownFieldError("filter", string(f.Field))
	}
	if !f.Operator.Valid() {
		return core.NewUnsupportedOperatorError(string(f.Operator))
	}
	if f.Operator.Ordering() {
		if !spec.Kind.Numeric() {
			return core.NewTypeMismatchError(string(f.Field), "numeric field for "+string(f.Operator), string(spec.Kind))
		}
		if math.IsNaN(f.Value.Float()) {
			return core.NewTypeMismatchError(string(f.Field), "numeric comparison value", "non-numeric value "+f.Value.String())
		}
	}
	return nil
}
