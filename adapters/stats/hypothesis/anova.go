package hypothesis

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"farmstat/adapters/stats/dist"
	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

// withinEpsilon keeps the within-group mean square away from zero when every group
// is perfectly constant.
const withinEpsilon = 1e-15

// OneWayANOVA tests whether the outcome mean differs across the levels of
// groupField. Levels with fewer than two observations are left out of the test but
// still reported in GroupMeans.
func OneWayANOVA(records dataset.Dataset, groupField, outcome dataset.Field) analysis.StatResult {
	groups := groupBy(records, groupField, outcome)

	usable := make([]group, 0, len(groups))
	for _, g := range groups {
		if len(g.values) >= 2 {
			usable = append(usable, g)
		}
	}
	if len(usable) < 2 {
		return analysis.Degenerate(analysis.LabelANOVA, "Need at least 2 groups with 2+ observations each.")
	}

	f, dfBetween, dfWithin := anovaStatistic(usable)
	r := analysis.NewResult(analysis.LabelANOVA, dist.FPValue(f, dfBetween, dfWithin), f,
		fmt.Sprintf("Compared %s across %s categories.", outcome, groupField))
	r.GroupMeans = meansOf(groups...)
	return r
}

// anovaStatistic returns F and its degrees of freedom for groups of size ≥ 2.
func anovaStatistic(groups []group) (f, dfBetween, dfWithin float64) {
	var pooled []float64
	for _, g := range groups {
		pooled = append(pooled, g.values...)
	}
	grandMean, _ := stats.Mean(pooled)

	var ssBetween, ssWithin float64
	for _, g := range groups {
		m := g.mean()
		d := m - grandMean
		ssBetween += float64(len(g.values)) * d * d
		for _, x := range g.values {
			ssWithin += (x - m) * (x - m)
		}
	}

	dfBetween = float64(len(groups) - 1)
	dfWithin = float64(len(pooled) - len(groups))
	msBetween := ssBetween / dfBetween
	msWithin := ssWithin/dfWithin + withinEpsilon
	return msBetween / msWithin, dfBetween, dfWithin
}
