// Package profiling describes the columns of a dataset: distribution summaries for
// numeric fields and level counts for categorical ones.
package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"farmstat/domain/dataset"
)

// LevelCount is the frequency of one categorical level.
type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// ColumnSummary profiles one field. Numeric fields fill the moment and quantile
// fields; categorical fields fill Levels.
type ColumnSummary struct {
	Field dataset.Field     `json:"field"`
	Kind  dataset.FieldKind `json:"kind"`
	N     int               `json:"n"`

	Mean     float64 `json:"mean,omitempty"`
	StdDev   float64 `json:"std_dev,omitempty"`
	Min      float64 `json:"min,omitempty"`
	Q25      float64 `json:"q25,omitempty"`
	Median   float64 `json:"median,omitempty"`
	Q75      float64 `json:"q75,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Skewness float64 `json:"skewness,omitempty"`
	Kurtosis float64 `json:"excess_kurtosis,omitempty"`
	Outliers int     `json:"outliers,omitempty"`

	// NormalityP is the Jarque-Bera p-value; small values reject normality.
	NormalityP float64 `json:"normality_p,omitempty"`

	Levels []LevelCount `json:"levels,omitempty"`
}

// Describe profiles every schema field of data in schema order.
func Describe(data dataset.Dataset) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(dataset.Schema))
	for _, spec := range dataset.Schema {
		out = append(out, DescribeField(data, spec))
	}
	return out
}

// DescribeField profiles a single field.
func DescribeField(data dataset.Dataset, spec dataset.FieldSpec) ColumnSummary {
	s := ColumnSummary{Field: spec.Name, Kind: spec.Kind, N: len(data)}
	if len(data) == 0 {
		return s
	}
	if !spec.Kind.Numeric() {
		s.Levels = countLevels(data.Column(spec.Name), spec.Labels)
		return s
	}

	values := make([]float64, len(data))
	for i, v := range data.Column(spec.Name) {
		values[i] = v.Float()
	}
	summarize(&s, values)
	return s
}

func summarize(s *ColumnSummary, data []float64) {
	s.Mean, _ = stats.Mean(data)
	s.Min, _ = stats.Min(data)
	s.Max, _ = stats.Max(data)
	s.Median, _ = stats.Median(data)
	s.Q25 = percentileOr(data, 25, s.Min)
	s.Q75 = percentileOr(data, 75, s.Max)
	if len(data) > 1 {
		s.StdDev, _ = stats.StandardDeviationSample(data)
	}

	s.Outliers = countOutliers(data, s.Q25, s.Q75)
	if s.StdDev == 0 {
		return
	}
	s.Skewness = skewness(data, s.Mean)
	s.Kurtosis = excessKurtosis(data, s.Mean)
	s.NormalityP = jarqueBeraP(len(data), s.Skewness, s.Kurtosis)
}

// percentileOr falls back when the sample is too small for the requested rank.
func percentileOr(data []float64, p, fallback float64) float64 {
	q, err := stats.Percentile(data, p)
	if err != nil || math.IsNaN(q) {
		return fallback
	}
	return q
}

// skewness is the population moment ratio m3 / m2^1.5.
func skewness(data []float64, mean float64) float64 {
	var m2, m3 float64
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m3 += d * d * d
	}
	n := float64(len(data))
	m2 /= n
	m3 /= n
	return m3 / math.Pow(m2, 1.5)
}

// excessKurtosis is m4 / m2² - 3.
func excessKurtosis(data []float64, mean float64) float64 {
	var m2, m4 float64
	for _, x := range data {
		d := x - mean
		m2 += d * d
		m4 += d * d * d * d
	}
	n := float64(len(data))
	m2 /= n
	m4 /= n
	return m4/(m2*m2) - 3
}

// jarqueBeraP returns P(χ²₂ > JB) with JB = n/6 (S² + K²/4).
func jarqueBeraP(n int, skew, exKurt float64) float64 {
	jb := float64(n) / 6 * (skew*skew + exKurt*exKurt/4)
	return distuv.ChiSquared{K: 2}.Survival(jb)
}

// countOutliers applies the 1.5 IQR fence rule.
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower, upper := q25-1.5*iqr, q75+1.5*iqr

	count := 0
	for _, x := range data {
		if x < lower || x > upper {
			count++
		}
	}
	return count
}

// countLevels counts each declared label, in label order, then any undeclared
// values in lexicographic order.
func countLevels(values []dataset.Value, labels []string) []LevelCount {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v.String()]++
	}

	out := make([]LevelCount, 0, len(counts))
	for _, l := range labels {
		out = append(out, LevelCount{Level: l, Count: counts[l]})
		delete(counts, l)
	}
	extra := make([]string, 0, len(counts))
	for l := range counts {
		extra = append(extra, l)
	}
	sort.Strings(extra)
	for _, l := range extra {
		out = append(out, LevelCount{Level: l, Count: counts[l]})
	}
	return out
}
