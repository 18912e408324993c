// Package linalg holds the small dense-matrix helpers used to solve the OLS normal
// equations. Matrices are row-major [][]float64 and are never modified in place.
package linalg

import (
	"fmt"
	"math"

	"farmstat/domain/core"
)

// PivotTolerance is the magnitude below which a pivot is treated as zero.
const PivotTolerance = 1e-12

// Transpose returns mᵀ.
func Transpose(m [][]float64) [][]float64 {
	if len(m) == 0 {
		return [][]float64{}
	}
	rows, cols := len(m), len(m[0])
	out := make([][]float64, cols)
	for j := 0; j < cols; j++ {
		out[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			out[j][i] = m[i][j]
		}
	}
	return out
}

// Multiply returns a·b.
func Multiply(a, b [][]float64) ([][]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return [][]float64{}, nil
	}
	if len(a[0]) != len(b) {
		return nil, fmt.Errorf("dimension mismatch: %dx%d * %dx%d", len(a), len(a[0]), len(b), len(b[0]))
	}
	n, m, p := len(a), len(b), len(b[0])
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		out[i] = make([]float64, p)
		for k := 0; k < m; k++ {
			aik := a[i][k]
			for j := 0; j < p; j++ {
				out[i][j] += aik * b[k][j]
			}
		}
	}
	return out, nil
}

// MulVec returns a·v.
func MulVec(a [][]float64, v []float64) ([]float64, error) {
	out := make([]float64, len(a))
	for i, row := range a {
		if len(row) != len(v) {
			return nil, fmt.Errorf("dimension mismatch: row %d has %d columns, vector has %d", i, len(row), len(v))
		}
		sum := 0.0
		for j, aij := range row {
			sum += aij * v[j]
		}
		out[i] = sum
	}
	return out, nil
}

// Solve solves a·x = b by Gauss-Jordan elimination with partial pivoting on the
// augmented matrix [a|b].
//
// A column whose best pivot is below PivotTolerance is skipped rather than treated as
// fatal, and a zero diagonal is read as 1 during back-substitution. In that case the
// returned x is still defined but not meaningful, and the error wraps
// core.ErrRankDeficient so callers can decide what to do with it.
func Solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(a)
	if len(b) != n {
		return nil, fmt.Errorf("dimension mismatch: %d rows, %d right-hand values", n, len(b))
	}

	aug := make([][]float64, n)
	for i, row := range a {
		if len(row) != n {
			return nil, fmt.Errorf("matrix must be square: row %d has %d columns", i, len(row))
		}
		aug[i] = make([]float64, n+1)
		copy(aug[i], row)
		aug[i][n] = b[i]
	}

	skipped := 0
	for col := 0; col < n; col++ {
		maxRow := col
		for row := col + 1; row < n; row++ {
			if math.Abs(aug[row][col]) > math.Abs(aug[maxRow][col]) {
				maxRow = row
			}
		}
		aug[col], aug[maxRow] = aug[maxRow], aug[col]

		pivot := aug[col][col]
		if math.Abs(pivot) < PivotTolerance {
			skipped++
			continue
		}

		for row := 0; row < n; row++ {
			if row == col {
				continue
			}
			factor := aug[row][col] / pivot
			if factor == 0 {
				continue
			}
			for k := col; k <= n; k++ {
				aug[row][k] -= factor * aug[col][k]
			}
		}
	}

	x := make([]float64, n)
	for i := 0; i < n; i++ {
		diag := aug[i][i]
		if diag == 0 {
			diag = 1
		}
		x[i] = aug[i][n] / diag
	}

	if skipped > 0 {
		return x, fmt.Errorf("%w: %d of %d pivots below %g", core.ErrRankDeficient, skipped, n, PivotTolerance)
	}
	return x, nil
}
