package linalg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"farmstat/domain/core"
)

func TestTranspose(t *testing.T) {
	m := [][]float64{{1, 2, 3}, {4, 5, 6}}
	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, Transpose(m))
	assert.Empty(t, Transpose(nil))
}

func TestMultiply(t *testing.T) {
	a := [][]float64{{1, 2}, {3, 4}}
	b := [][]float64{{5, 6}, {7, 8}}

	got, err := Multiply(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{19, 22}, {43, 50}}, got)

	_, err = Multiply(a, [][]float64{{1, 2}})
	assert.Error(t, err)
}

func TestMulVec(t *testing.T) {
	got, err := MulVec([][]float64{{1, 2}, {3, 4}}, []float64{1, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, -1}, got)

	_, err = MulVec([][]float64{{1, 2}}, []float64{1})
	assert.Error(t, err)
}

func TestSolve_KnownThreeByThree(t *testing.T) {
	// 2x + y - z = 8; -3x - y + 2z = -11; -2x + y + 2z = -3  →  (2, 3, -1)
	a := [][]float64{{2, 1, -1}, {-3, -1, 2}, {-2, 1, 2}}
	b := []float64{8, -11, -3}

	x, err := Solve(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2, x[0], 1e-9)
	assert.InDelta(t, 3, x[1], 1e-9)
	assert.InDelta(t, -1, x[2], 1e-9)
}

func TestSolve_NeedsPivoting(t *testing.T) {
	a := [][]float64{{0, 1}, {1, 0}}
	x, err := Solve(a, []float64{4, 7})
	require.NoError(t, err)
	assert.InDelta(t, 7, x[0], 1e-12)
	assert.InDelta(t, 4, x[1], 1e-12)
}

func TestSolve_MatchesGonum(t *testing.T) {
	a := [][]float64{
		{4, -2, 1, 3},
		{3, 6, -4, 2},
		{2, 1, 8, -5},
		{1, -3, 2, 7},
	}
	b := []float64{20, -15, 12, 9}

	x, err := Solve(a, b)
	require.NoError(t, err)

	flat := make([]float64, 0, 16)
	for _, row := range a {
		flat = append(flat, row...)
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(mat.NewDense(4, 4, flat), mat.NewVecDense(4, b)))

	for i := range x {
		assert.InDelta(t, want.AtVec(i), x[i], 1e-9)
	}
}

func TestSolve_DoesNotModifyInputs(t *testing.T) {
	a := [][]float64{{0, 2}, {3, 1}}
	b := []float64{2, 5}
	_, err := Solve(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 2}, {3, 1}}, a)
	assert.Equal(t, []float64{2, 5}, b)
}

func TestSolve_RankDeficient(t *testing.T) {
	a := [][]float64{{1, 2}, {2, 4}}
	x, err := Solve(a, []float64{3, 6})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrRankDeficient))
	assert.Len(t, x, 2, "an approximate solution is still returned")
}

func TestSolve_DimensionErrors(t *testing.T) {
	_, err := Solve([][]float64{{1, 2}}, []float64{1})
	assert.Error(t, err)

	_, err = Solve([][]float64{{1}}, []float64{1, 2})
	assert.Error(t, err)
}
