package hypothesis

import (
	"fmt"
	"math"

	"farmstat/adapters/stats/dist"
	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

// WelchTTest compares the outcome mean between two levels of groupField without
// assuming equal variances. Which two levels are compared when more exist is set by
// opts.Levels.
func WelchTTest(records dataset.Dataset, groupField, outcome dataset.Field, opts Options) analysis.StatResult {
	groups := groupBy(records, groupField, outcome)

	if len(groups) < 2 {
		r := analysis.Degenerate(analysis.LabelTwoSampleBasic, "Not enough groups to compare.")
		r.GroupMeans = meansOf(groups...)
		return r
	}
	if opts.Levels == LevelsStrict && len(groups) > 2 {
		r := analysis.Degenerate(analysis.LabelTwoSampleBasic,
			fmt.Sprintf("%s has %d levels; a two-sample test needs exactly two.", groupField, len(groups)))
		r.GroupMeans = meansOf(groups...)
		return r
	}

	g1, g2 := pickPair(groups, opts.Levels)
	means := meansOf(g1, g2)

	n1, n2 := float64(len(g1.values)), float64(len(g2.values))
	if n1 < 2 || n2 < 2 {
		r := analysis.Degenerate(analysis.LabelTwoSampleBasic, "Sample too small for reliable test.")
		r.GroupMeans = means
		return r
	}

	t, df, ok := welchStatistic(g1, g2)
	if !ok {
		r := analysis.Degenerate(analysis.LabelTwoSampleBasic, "No variation in data.")
		r.GroupMeans = means
		return r
	}

	r := analysis.NewResult(analysis.LabelTwoSample, dist.TPValue(t, df), t,
		fmt.Sprintf("Compared %s between %s groups.", outcome, groupField))
	r.GroupMeans = means
	return r
}

// welchStatistic returns Welch's t and the Welch–Satterthwaite degrees of freedom.
// ok is false when the standard error is exactly zero.
func welchStatistic(g1, g2 group) (t, df float64, ok bool) {
	n1, n2 := float64(len(g1.values)), float64(len(g2.values))
	a := g1.sampleVariance() / n1
	b := g2.sampleVariance() / n2

	se := math.Sqrt(a + b)
	if se == 0 {
		return 0, 0, false
	}

	t = (g1.mean() - g2.mean()) / se
	df = (a + b) * (a + b) / (a*a/(n1-1) + b*b/(n2-1))
	return t, df, true
}
