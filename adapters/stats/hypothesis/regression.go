package hypothesis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"farmstat/adapters/stats/dist"
	"farmstat/adapters/stats/linalg"
	"farmstat/domain/analysis"
	"farmstat/domain/core"
	"farmstat/domain/dataset"
)

// fitEpsilon guards the R²-derived F statistic and the residual mean square against
// division by zero on a perfect fit.
const fitEpsilon = 1e-15

// InterceptKey names the constant term in the coefficient map.
const InterceptKey = "intercept"

// Predictors returns the group field followed by the covariates, without duplicates,
// in first-seen order.
func Predictors(req analysis.AnalysisRequest) []dataset.Field {
	seen := make(map[dataset.Field]bool)
	var out []dataset.Field
	add := func(f dataset.Field) {
		if f == "" || seen[f] {
			return
		}
		seen[f] = true
		out = append(out, f)
	}
	add(req.GroupField)
	for _, c := range req.Covariates {
		add(c)
	}
	return out
}

// LinearRegression regresses the outcome on Predictors(req). With no predictors it
// falls back to a two-sample test on the canonical treatment indicator.
func LinearRegression(records dataset.Dataset, req analysis.AnalysisRequest, opts Options) analysis.StatResult {
	predictors := Predictors(req)
	switch len(predictors) {
	case 0:
		return WelchTTest(records, dataset.DefaultGroupField, req.OutcomeField, opts)
	case 1:
		return simpleRegression(records, predictors[0], req.OutcomeField)
	default:
		return multipleRegression(records, predictors, req.OutcomeField)
	}
}

func simpleRegression(records dataset.Dataset, predictor, outcome dataset.Field) analysis.StatResult {
	n := len(records)
	if n < 3 {
		return analysis.Degenerate(analysis.LabelSimpleRegression, "Need at least 3 observations for regression.")
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i, r := range records {
		x[i] = numberOf(r, predictor)
		y[i] = numberOf(r, outcome)
	}

	xMean, _ := stats.Mean(x)
	yMean, _ := stats.Mean(y)
	var sxx, sxy, ssTot float64
	for i := range x {
		dx, dy := x[i]-xMean, y[i]-yMean
		sxx += dx * dx
		sxy += dx * dy
		ssTot += dy * dy
	}
	if sxx == 0 {
		return analysis.Degenerate(analysis.LabelSimpleRegression, fmt.Sprintf("No variation in %s.", predictor))
	}
	if ssTot == 0 {
		return analysis.Degenerate(analysis.LabelSimpleRegression, fmt.Sprintf("No variation in %s.", outcome))
	}

	slope := sxy / sxx
	intercept := yMean - slope*xMean

	var ssRes float64
	for i := range x {
		e := y[i] - (intercept + slope*x[i])
		ssRes += e * e
	}
	r2 := 1 - ssRes/ssTot

	nf := float64(n)
	f := r2 * (nf - 2) / (1 - r2 + fitEpsilon)
	r := analysis.NewResult(analysis.LabelSimpleRegression, dist.FPValue(f, 1, nf-2), f,
		fmt.Sprintf("Regressed %s on %s.", outcome, predictor)).WithRSquared(r2)
	r.Coefficients = analysis.NamedValues{}.
		Set(InterceptKey, intercept).
		Set(string(predictor), slope)
	return r
}

func multipleRegression(records dataset.Dataset, predictors []dataset.Field, outcome dataset.Field) analysis.StatResult {
	n, p := len(records), len(predictors)
	if n < p+2 {
		return analysis.Degenerate(analysis.LabelMultipleRegression,
			fmt.Sprintf("Need at least %d observations for %d predictors.", p+2, p))
	}

	x := make([][]float64, n)
	y := make([]float64, n)
	for i, r := range records {
		row := make([]float64, p+1)
		row[0] = 1
		for j, pred := range predictors {
			row[j+1] = numberOf(r, pred)
		}
		x[i] = row
		y[i] = numberOf(r, outcome)
	}

	beta, err := normalEquations(x, y)
	if errors.Is(err, core.ErrRankDeficient) {
		return analysis.Degenerate(analysis.LabelMultipleRegression,
			"Predictors are collinear; coefficients are not identifiable.")
	}
	if err != nil {
		return analysis.Degenerate(analysis.LabelMultipleRegression, err.Error())
	}

	fitted, err := linalg.MulVec(x, beta)
	if err != nil {
		return analysis.Degenerate(analysis.LabelMultipleRegression, err.Error())
	}

	yMean, _ := stats.Mean(y)
	var ssTot, ssRes float64
	for i := range y {
		d := y[i] - yMean
		e := y[i] - fitted[i]
		ssTot += d * d
		ssRes += e * e
	}
	if ssTot == 0 {
		return analysis.Degenerate(analysis.LabelMultipleRegression, fmt.Sprintf("No variation in %s.", outcome))
	}
	ssReg := ssTot - ssRes

	dfReg := float64(p)
	dfRes := float64(n - p - 1)
	f := (ssReg / dfReg) / (ssRes/dfRes + fitEpsilon)

	names := make([]string, p)
	for i, pred := range predictors {
		names[i] = string(pred)
	}
	r := analysis.NewResult(analysis.LabelMultipleRegression, dist.FPValue(f, dfReg, dfRes), f,
		fmt.Sprintf("Regressed %s on %s.", outcome, strings.Join(names, ", "))).
		WithRSquared(ssReg / ssTot)

	coefs := analysis.NamedValues{}.Set(InterceptKey, beta[0])
	for i, name := range names {
		coefs = coefs.Set(name, beta[i+1])
	}
	r.Coefficients = coefs
	return r
}

// normalEquations solves (XᵀX)β = Xᵀy.
func normalEquations(x [][]float64, y []float64) ([]float64, error) {
	xt := linalg.Transpose(x)
	xtx, err := linalg.Multiply(xt, x)
	if err != nil {
		return nil, err
	}
	xty, err := linalg.MulVec(xt, y)
	if err != nil {
		return nil, err
	}
	return linalg.Solve(xtx, xty)
}
