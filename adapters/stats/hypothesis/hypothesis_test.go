package hypothesis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmstat/domain/analysis"
	"farmstat/domain/dataset"
)

// twoGroupFarms builds records whose uses_growmax and yield follow the given slices.
func twoGroupFarms(groups []int, yields []float64) dataset.Dataset {
	out := make(dataset.Dataset, len(groups))
	for i := range groups {
		out[i] = dataset.Record{FarmID: i + 1, UsesGrowMax: groups[i], YieldKgPerHectare: yields[i]}
	}
	return out
}

// cropFarms builds records from crop labels and yields.
func cropFarms(crops []string, yields []float64) dataset.Dataset {
	out := make(dataset.Dataset, len(crops))
	for i := range crops {
		out[i] = dataset.Record{FarmID: i + 1, CropType: crops[i], YieldKgPerHectare: yields[i]}
	}
	return out
}

var (
	scenarioGroups = []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1}
	scenarioYields = []float64{10, 12, 11, 9, 10, 20, 22, 21, 19, 20}
)

func TestWelchTTest_SeparatedGroups(t *testing.T) {
	farms := twoGroupFarms(scenarioGroups, scenarioYields)

	r := WelchTTest(farms, dataset.FieldUsesGrowMax, dataset.FieldYield, DefaultOptions())

	assert.Equal(t, analysis.LabelTwoSample, r.TestLabel)
	assert.Less(t, r.PValue, 0.01)
	assert.True(t, r.Significant)
	assert.InDelta(t, -10/math.Sqrt(0.52), r.Statistic, 1e-9)

	m0, ok := r.GroupMeans.Get("0")
	require.True(t, ok)
	m1, ok := r.GroupMeans.Get("1")
	require.True(t, ok)
	assert.InDelta(t, 10.4, m0, 1e-9)
	assert.InDelta(t, 20.4, m1, 1e-9)
}

func TestWelchTTest_SwappingGroupsNegatesStatistic(t *testing.T) {
	forward := twoGroupFarms(scenarioGroups, []float64{10, 14, 11, 9, 10, 20, 23, 18, 19, 26})
	reversed := make(dataset.Dataset, len(forward))
	for i := range forward {
		reversed[i] = forward[len(forward)-1-i]
	}

	a := WelchTTest(forward, dataset.FieldUsesGrowMax, dataset.FieldYield, DefaultOptions())
	b := WelchTTest(reversed, dataset.FieldUsesGrowMax, dataset.FieldYield, DefaultOptions())

	assert.InDelta(t, a.Statistic, -b.Statistic, 1e-12)
	assert.InDelta(t, a.PValue, b.PValue, 1e-9)
	assert.Equal(t, []string{"0", "1"}, a.GroupMeans.Names())
	assert.Equal(t, []string{"1", "0"}, b.GroupMeans.Names())
}

func TestWelchTTest_ConstantGroupFieldIsDegenerate(t *testing.T) {
	farms := twoGroupFarms([]int{1, 1, 1, 1}, []float64{10, 11, 12, 13})

	r := WelchTTest(farms, dataset.FieldUsesGrowMax, dataset.FieldYield, DefaultOptions())

	assert.Equal(t, 1.0, r.PValue)
	assert.Equal(t, 0.0, r.Statistic)
	assert.False(t, r.Significant)
	assert.Equal(t, "Not enough groups to compare.", r.Description)
	m, ok := r.GroupMeans.Get("1")
	assert.True(t, ok)
	assert.InDelta(t, 11.5, m, 1e-12)
}

func TestWelchTTest_SingletonGroupIsDegenerate(t *testing.T) {
	farms := twoGroupFarms([]int{0, 0, 0, 1}, []float64{10, 11, 12, 30})

	r := WelchTTest(farms, dataset.FieldUsesGrowMax, dataset.FieldYield, DefaultOptions())

	assert.Equal(t, 1.0, r.PValue)
	assert.False(t, r.Significant)
	assert.Equal(t, "Sample too small for reliable test.", r.Description)
	assert.Len(t, r.GroupMeans, 2)
}

func TestWelchTTest_ZeroVarianceIsDegenerate(t *testing.T) {
	farms := twoGroupFarms([]int{0, 0, 1, 1}, []float64{10, 10, 30, 30})

	r := WelchTTest(farms, dataset.FieldUsesGrowMax, dataset.FieldYield, DefaultOptions())

	assert.Equal(t, 1.0, r.PValue)
	assert.Equal(t, "No variation in data.", r.Description)
}

func TestWelchTTest_LevelPolicies(t *testing.T) {
	crops := []string{"wheat", "wheat", "rice", "rice", "cotton", "cotton"}
	yields := []float64{10, 12, 20, 22, 30, 33}
	farms := cropFarms(crops, yields)

	first := WelchTTest(farms, dataset.FieldCropType, dataset.FieldYield, Options{Levels: LevelsFirst})
	assert.Equal(t, []string{"wheat", "rice"}, first.GroupMeans.Names())

	lex := WelchTTest(farms, dataset.FieldCropType, dataset.FieldYield, Options{Levels: LevelsLexicographic})
	assert.Equal(t, []string{"cotton", "rice"}, lex.GroupMeans.Names())

	strict := WelchTTest(farms, dataset.FieldCropType, dataset.FieldYield, Options{Levels: LevelsStrict})
	assert.Equal(t, 1.0, strict.PValue)
	assert.Contains(t, strict.Description, "3 levels")
}

func TestParseLevelPolicy(t *testing.T) {
	p, err := ParseLevelPolicy("")
	require.NoError(t, err)
	assert.Equal(t, LevelsFirst, p)

	p, err = ParseLevelPolicy(" Strict ")
	require.NoError(t, err)
	assert.Equal(t, LevelsStrict, p)

	_, err = ParseLevelPolicy("random")
	assert.Error(t, err)
}

func TestOneWayANOVA_TwoGroupsMatchesSquaredT(t *testing.T) {
	farms := twoGroupFarms(scenarioGroups, scenarioYields)

	welch := WelchTTest(farms, dataset.FieldUsesGrowMax, dataset.FieldYield, DefaultOptions())
	anova := OneWayANOVA(farms, dataset.FieldUsesGrowMax, dataset.FieldYield)

	assert.InDelta(t, welch.Statistic*welch.Statistic, anova.Statistic, 1e-6)
	assert.InDelta(t, 250/1.3, anova.Statistic, 1e-6)
}

func TestOneWayANOVA_EqualMeansGivesLargePValue(t *testing.T) {
	crops := []string{"wheat", "wheat", "wheat", "rice", "rice", "rice", "maize", "maize", "maize"}
	yields := []float64{14, 15, 16, 16, 15, 14, 15, 13, 17}
	farms := cropFarms(crops, yields)

	r := OneWayANOVA(farms, dataset.FieldCropType, dataset.FieldYield)

	assert.Greater(t, r.PValue, 0.9)
	assert.False(t, r.Significant)
	for _, name := range []string{"wheat", "rice", "maize"} {
		m, ok := r.GroupMeans.Get(name)
		require.True(t, ok)
		assert.InDelta(t, 15, m, 1e-12)
	}
}

func TestOneWayANOVA_DifferentMeans(t *testing.T) {
	crops := []string{"wheat", "wheat", "wheat", "rice", "rice", "rice", "maize", "maize", "maize"}
	yields := []float64{10, 11, 12, 20, 21, 22, 30, 31, 32}
	farms := cropFarms(crops, yields)

	r := OneWayANOVA(farms, dataset.FieldCropType, dataset.FieldYield)

	// SSB = 600, SSW = 6 → F = (600/2)/(6/6) = 300
	assert.InDelta(t, 300, r.Statistic, 1e-9)
	assert.Less(t, r.PValue, 0.001)
	assert.Equal(t, "Compared yield_kg_per_hectare across crop_type categories.", r.Description)
}

func TestOneWayANOVA_SingletonGroupsExcludedFromTest(t *testing.T) {
	crops := []string{"wheat", "wheat", "rice", "rice", "cotton"}
	yields := []float64{10, 12, 20, 22, 1000}
	farms := cropFarms(crops, yields)

	r := OneWayANOVA(farms, dataset.FieldCropType, dataset.FieldYield)
	withoutCotton := OneWayANOVA(farms[:4], dataset.FieldCropType, dataset.FieldYield)

	assert.InDelta(t, withoutCotton.Statistic, r.Statistic, 1e-9)
	assert.Equal(t, []string{"wheat", "rice", "cotton"}, r.GroupMeans.Names())
}

func TestOneWayANOVA_InsufficientGroups(t *testing.T) {
	farms := cropFarms([]string{"wheat", "wheat", "rice"}, []float64{1, 2, 3})

	r := OneWayANOVA(farms, dataset.FieldCropType, dataset.FieldYield)

	assert.Equal(t, 1.0, r.PValue)
	assert.False(t, r.Significant)
	assert.Nil(t, r.GroupMeans)
}

func TestPredictors_DedupesInFirstSeenOrder(t *testing.T) {
	req := analysis.AnalysisRequest{
		GroupField: dataset.FieldRainfall,
		Covariates: []dataset.Field{dataset.FieldAltitude, dataset.FieldRainfall, dataset.FieldFarmSize, dataset.FieldAltitude},
	}
	assert.Equal(t, []dataset.Field{dataset.FieldRainfall, dataset.FieldAltitude, dataset.FieldFarmSize}, Predictors(req))
	assert.Empty(t, Predictors(analysis.AnalysisRequest{}))
}

func TestLinearRegression_SimpleRecoversLine(t *testing.T) {
	farms := make(dataset.Dataset, 40)
	for i := range farms {
		x := float64(i)
		farms[i] = dataset.Record{RainfallMM: x, YieldKgPerHectare: 3*x + 5 + 0.05*math.Sin(float64(i)*1.7)}
	}
	req := analysis.AnalysisRequest{
		TestKind:     analysis.KindRegression,
		OutcomeField: dataset.FieldYield,
		Covariates:   []dataset.Field{dataset.FieldRainfall},
	}

	r := LinearRegression(farms, req, DefaultOptions())

	assert.Equal(t, analysis.LabelSimpleRegression, r.TestLabel)
	assert.Equal(t, []string{InterceptKey, "rainfall_mm"}, r.Coefficients.Names())
	slope, _ := r.Coefficients.Get("rainfall_mm")
	intercept, _ := r.Coefficients.Get(InterceptKey)
	assert.InDelta(t, 3, slope, 0.01)
	assert.InDelta(t, 5, intercept, 0.1)
	require.NotNil(t, r.RSquared)
	assert.GreaterOrEqual(t, *r.RSquared, 0.99)
	assert.LessOrEqual(t, *r.RSquared, 1.0)
	assert.True(t, r.Significant)
}

func TestLinearRegression_SimpleNoRelationship(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	ys := []float64{5, 3, 5, 3, 5, 3, 5, 3}
	farms := make(dataset.Dataset, len(xs))
	for i := range xs {
		farms[i] = dataset.Record{AltitudeM: xs[i], YieldKgPerHectare: ys[i]}
	}
	req := analysis.AnalysisRequest{OutcomeField: dataset.FieldYield, GroupField: dataset.FieldAltitude}

	r := LinearRegression(farms, req, DefaultOptions())

	require.NotNil(t, r.RSquared)
	assert.GreaterOrEqual(t, *r.RSquared, 0.0)
	assert.Less(t, *r.RSquared, 0.2)
	assert.False(t, r.Significant)
}

func TestLinearRegression_MultipleRecoversCoefficients(t *testing.T) {
	farms := make(dataset.Dataset, 60)
	for i := range farms {
		x1 := float64(i % 10)
		x2 := float64((i * 7) % 13)
		noise := 0.01 * math.Cos(float64(i)*2.3)
		farms[i] = dataset.Record{
			RainfallMM:        x1,
			AltitudeM:         x2,
			YieldKgPerHectare: 5 + 2*x1 - 1.5*x2 + noise,
		}
	}
	req := analysis.AnalysisRequest{
		OutcomeField: dataset.FieldYield,
		GroupField:   dataset.FieldRainfall,
		Covariates:   []dataset.Field{dataset.FieldAltitude, dataset.FieldRainfall},
	}

	r := LinearRegression(farms, req, DefaultOptions())

	assert.Equal(t, analysis.LabelMultipleRegression, r.TestLabel)
	assert.Equal(t, []string{InterceptKey, "rainfall_mm", "altitude_m"}, r.Coefficients.Names())
	b0, _ := r.Coefficients.Get(InterceptKey)
	b1, _ := r.Coefficients.Get("rainfall_mm")
	b2, _ := r.Coefficients.Get("altitude_m")
	assert.InDelta(t, 5, b0, 0.01)
	assert.InDelta(t, 2, b1, 0.01)
	assert.InDelta(t, -1.5, b2, 0.01)
	require.NotNil(t, r.RSquared)
	assert.InDelta(t, 1, *r.RSquared, 1e-4)
	assert.Greater(t, r.Statistic, 0.0)
	assert.True(t, r.Significant)
	assert.Equal(t, "Regressed yield_kg_per_hectare on rainfall_mm, altitude_m.", r.Description)
}

func TestLinearRegression_CollinearPredictorsAreDegenerate(t *testing.T) {
	farms := make(dataset.Dataset, 12)
	for i := range farms {
		farms[i] = dataset.Record{RainfallMM: float64(i), YieldKgPerHectare: float64(2*i + 1)}
	}
	req := analysis.AnalysisRequest{
		OutcomeField: dataset.FieldYield,
		Covariates:   []dataset.Field{dataset.FieldRainfall, dataset.FieldYearsSinceRotation},
	}

	r := LinearRegression(farms, req, DefaultOptions())

	assert.Equal(t, 1.0, r.PValue)
	assert.False(t, r.Significant)
	assert.Contains(t, r.Description, "collinear")
}

func TestLinearRegression_TooFewObservations(t *testing.T) {
	farms := dataset.Dataset{{RainfallMM: 1, AltitudeM: 2, YieldKgPerHectare: 3}, {RainfallMM: 2, AltitudeM: 1, YieldKgPerHectare: 4}}
	req := analysis.AnalysisRequest{
		OutcomeField: dataset.FieldYield,
		Covariates:   []dataset.Field{dataset.FieldRainfall, dataset.FieldAltitude},
	}

	r := LinearRegression(farms, req, DefaultOptions())
	assert.Equal(t, 1.0, r.PValue)

	r = LinearRegression(farms, analysis.AnalysisRequest{OutcomeField: dataset.FieldYield, GroupField: dataset.FieldRainfall}, DefaultOptions())
	assert.Equal(t, 1.0, r.PValue)
}

func TestLinearRegression_NoPredictorsFallsBackToTwoSample(t *testing.T) {
	farms := twoGroupFarms(scenarioGroups, scenarioYields)
	req := analysis.AnalysisRequest{TestKind: analysis.KindRegression, OutcomeField: dataset.FieldYield}

	r := LinearRegression(farms, req, DefaultOptions())

	assert.Equal(t, analysis.LabelTwoSample, r.TestLabel)
	assert.Less(t, r.PValue, 0.01)
}
