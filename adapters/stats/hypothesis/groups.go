// Package hypothesis implements the three tests the engine dispatches to: Welch's
// two-sample t-test, one-way ANOVA and ordinary least squares regression. Each test
// consumes an already-filtered dataset and returns a StatResult; statistical
// degeneracy (too few groups, no variance, collinear predictors) yields a p=1 result
// rather than an error.
package hypothesis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

// LevelPolicy decides which two levels a two-sample test compares when the group
// field has more than two.
type LevelPolicy string

const (
	// LevelsFirst compares the first two levels in record order.
	LevelsFirst LevelPolicy = "first"
	// LevelsLexicographic compares the two smallest level keys in byte order.
	LevelsLexicographic LevelPolicy = "lexicographic"
	// LevelsStrict refuses to compare when there are more than two levels.
	LevelsStrict LevelPolicy = "strict"
)

// ParseLevelPolicy maps a config string to a policy.
func ParseLevelPolicy(s string) (LevelPolicy, error) {
	switch p := LevelPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return LevelsFirst, nil
	case LevelsFirst, LevelsLexicographic, LevelsStrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown level policy %q", s)
	}
}

// Options tune test behaviour.
type Options struct {
	Levels LevelPolicy
}

// DefaultOptions keeps the encounter-order level choice.
func DefaultOptions() Options {
	return Options{Levels: LevelsFirst}
}

// group holds the outcome values for one level of the grouping field.
type group struct {
	key    string
	values []float64
}

func (g group) mean() float64 {
	m, err := stats.Mean(g.values)
	if err != nil {
		return 0
	}
	return m
}

func (g group) sampleVariance() float64 {
	v, err := stats.SampleVariance(g.values)
	if err != nil {
		return 0
	}
	return v
}

// groupBy buckets outcome values by the stringified group value, keeping levels in
// the order they are first encountered.
func groupBy(records dataset.Dataset, groupField, outcome dataset.Field) []group {
	index := make(map[string]int)
	var groups []group
	for _, r := range records {
		key := keyOf(r, groupField)

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].values = append(groups[i].values, numberOf(r, outcome))
	}
	return groups
}

// keyOf stringifies the level of field; absent fields group under "undefined".
func keyOf(r dataset.Record, field dataset.Field) string {
	v, ok := r.Value(field)
	if !ok {
		return "undefined"
	}
	return v.String()
}

// numberOf coerces field to a number; absent fields read as NaN.
func numberOf(r dataset.Record, field dataset.Field) float64 {
	v, ok := r.Value(field)
	if !ok {
		return math.NaN()
	}
	return v.Float()
}

// LevelCount returns the number of distinct levels of field in records.
func LevelCount(records dataset.Dataset, field dataset.Field) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[keyOf(r, field)] = struct{}{}
	}
	return len(seen)
}

// pickPair chooses the two groups a two-sample test compares.
func pickPair(groups []group, policy LevelPolicy) (group, group) {
	if policy == LevelsLexicographic {
		sorted := append([]group(nil), groups...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })
		return sorted[0], sorted[1]
	}
	return groups[0], groups[1]
}

func meansOf(groups ...group) analysis.NamedValues {
	out := make(analysis.NamedValues, 0, len(groups))
	for _, g := range groups {
		out = out.Set(g.key, g.mean())
	}
	return out
}
