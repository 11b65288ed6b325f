package utils

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestAccumulator(t *testing.T) {
	acc := NewAccumulator(4, 4, "K")
	// Two overlapping 2x2 blocks sharing index 1, like two elements sharing a node
	I := Index{0, 0, 1, 1, 1, 1, 2, 2}
	J := Index{0, 1, 0, 1, 1, 2, 1, 2}
	data := []float64{2, -1, -1, 2, 3, -3, -3, 3}
	require.NoError(t, acc.AddTriplets(I, J, data))
	K := acc.ToCSR()
	assert.Equal(t, "K", K.Name())
	nr, nc := K.Dims()
	assert.Equal(t, [2]int{4, 4}, [2]int{nr, nc})
	assert.Equal(t, 5., K.At(1, 1))
	assert.Equal(t, -3., K.At(1, 2))
	assert.Equal(t, 0., K.At(3, 3))
	assert.Equal(t, 7, K.NNZ())

	assert.Error(t, acc.AddTriplets(Index{0}, Index{0, 1}, []float64{1}))
	assert.Error(t, acc.AddTriplets(Index{4}, Index{0}, []float64{1}))

	{ // Row selection keeps all columns
		Kr := K.SelectRows(Index{1, 3}, "Kr")
		nr, nc := Kr.Dims()
		assert.Equal(t, [2]int{2, 4}, [2]int{nr, nc})
		assert.Equal(t, -1., Kr.At(0, 0))
		assert.Equal(t, 5., Kr.At(0, 1))
		assert.Equal(t, 0., Kr.At(1, 2))
	}
	{ // Dense extraction
		D := K.DenseSubmatrix(Index{1, 2}, Index{1, 2})
		assert.True(t, mat.Equal(mat.NewDense(2, 2, []float64{5, -3, -3, 3}), D))
		assert.True(t, IsSymmetric(K.Dense(), SYMTOL))
		assert.Panics(t, func() { K.DenseSubmatrix(Index{}, Index{1}) })
	}
	{ // Complex products
		x := []complex128{1, 1i, 0, 2}
		y := K.MulVecC(x)
		assert.Equal(t, []complex128{2 - 1i, -1 + 5i, -3i, 0}, y)
		Kr := K.SelectRows(Index{1, 2}, "Kr")
		z := Kr.TransposeMulVecC([]complex128{1, 1i})
		// Kᵀ[:, {1,2}] * [1, i]
		assert.Equal(t, []complex128{-1, 5 - 3i, -3 + 3i, 0}, z)
		assert.Panics(t, func() { K.MulVecC([]complex128{1}) })
	}
}

func TestDenseHelpers(t *testing.T) {
	A := mat.NewDense(3, 3, []float64{
		1, 2, 3,
		0, 4, 5,
		0, 0, 6,
	})
	SymmetrizeUpper(A)
	assert.True(t, mat.Equal(mat.NewDense(3, 3, []float64{
		1, 2, 3,
		2, 4, 5,
		3, 5, 6,
	}), A))
	assert.True(t, IsSymmetric(A, SYMTOL))
	assert.Equal(t, 6., MaxAbs(A))
	S := ToSym(A)
	assert.Equal(t, 5., S.At(2, 1))

	// Rotation about z by 90 degrees
	R := mat.NewDense(2, 2, []float64{0, 1, -1, 0})
	D := mat.NewDense(2, 2, []float64{1, 0, 0, 2})
	O := RtAR(R, D)
	assert.True(t, mat.EqualApprox(mat.NewDense(2, 2, []float64{2, 0, 0, 1}), O, 1.e-15))
	assert.False(t, IsSymmetric(mat.NewDense(2, 2, []float64{1, 2, 3, 4}), SYMTOL))
}

func TestComplexLU(t *testing.T) {
	{ // (A) x = b with A = [[1+i, 2], [0, 3-i]]
		Ar := mat.NewDense(2, 2, []float64{1, 2, 0, 3})
		Ai := mat.NewDense(2, 2, []float64{1, 0, 0, -1})
		lu, err := FactorizeComplex(Ar, Ai)
		require.NoError(t, err)
		xTrue := []complex128{2 - 1i, 0.5i}
		b := []complex128{
			(1+1i)*xTrue[0] + 2*xTrue[1],
			(3-1i) * xTrue[1],
		}
		x, err := lu.Solve(b)
		require.NoError(t, err)
		for i := range x {
			assert.InDelta(t, 0, cmplx.Abs(x[i]-xTrue[i]), 1.e-14)
		}
		_, err = lu.Solve([]complex128{1})
		assert.Error(t, err)
	}
	{ // Singular
		Ar := mat.NewDense(2, 2, []float64{1, 1, 1, 1})
		Ai := mat.NewDense(2, 2, nil)
		_, err := FactorizeComplex(Ar, Ai)
		var cond mat.Condition
		assert.True(t, errors.As(err, &cond))
	}
}

func TestIsNan(t *testing.T) {
	assert.False(t, IsNan([]float64{1, 2}))
	assert.True(t, IsNan([]complex128{1, cmplx.NaN()}))
	A := mat.NewDense(2, 2, nil)
	assert.False(t, IsNan(A))
	A.Set(1, 0, math.NaN())
	assert.True(t, IsNan(A))
	C := mat.NewCDense(1, 2, []complex128{1, complex(0, math.NaN())})
	assert.True(t, IsNan(C))
	assert.False(t, IsNan("not a number type"))
	assert.NotEmpty(t, GetMemUsage())
}
