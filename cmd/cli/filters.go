package main

import (
	"fmt"
	"math"
	"strings"

	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

// parseFilter reads "field:op:value". The value may itself contain colons. Values
// that parse as numbers become numbers, everything else a label.
func parseFilter(raw string) (analysis.FilterCondition, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return analysis.FilterCondition{}, fmt.Errorf("invalid filter %q (want field:op:value)", raw)
	}

	value := strings.TrimSpace(parts[2])
	v := dataset.Label(value)
	if f := dataset.ParseNumber(value); !math.IsNaN(f) {
		v = dataset.Number(f)
	}
	return analysis.FilterCondition{
		Field:    dataset.Field(strings.TrimSpace(parts[0])),
		Operator: analysis.Operator(strings.ToLower(strings.TrimSpace(parts[1]))),
		Value:    v,
	}, nil
}
