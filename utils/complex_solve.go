package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ComplexLU factors a complex matrix A = Ar + i Ai through its real 2n embedding
//
//	| Ar  -Ai | | xr |   | br |
//	| Ai   Ar | | xi | = | bi |
//
// which keeps the whole solve within gonum's real LU.
type ComplexLU struct {
	n  int
	lu mat.LU
}

// FactorizeComplex returns a mat.Condition error when the matrix is singular or too badly
// conditioned for the solution to be meaningful.
func FactorizeComplex(Ar, Ai mat.Matrix) (c *ComplexLU, err error) {
	var (
		n, nc = Ar.Dims()
	)
	if nri, nci := Ai.Dims(); n != nc || nri != n || nci != n {
		err = fmt.Errorf("complex factorization needs square real and imaginary parts of equal size")
		return
	}
	big := mat.NewDense(2*n, 2*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ar, ai := Ar.At(i, j), Ai.At(i, j)
			big.Set(i, j, ar)
			big.Set(i, j+n, -ai)
			big.Set(i+n, j, ai)
			big.Set(i+n, j+n, ar)
		}
	}
	c = &ComplexLU{n: n}
	c.lu.Factorize(big)
	if cond := c.lu.Cond(); math.IsInf(cond, 1) || math.IsNaN(cond) || cond > mat.ConditionTolerance {
		err = mat.Condition(cond)
		return nil, err
	}
	return
}

func (c *ComplexLU) Cond() float64 { return c.lu.Cond() }

func (c *ComplexLU) Solve(b []complex128) (x []complex128, err error) {
	var (
		n   = c.n
		rhs = make([]float64, 2*n)
		sol mat.VecDense
	)
	if len(b) != n {
		err = fmt.Errorf("right hand side length %d does not match system size %d", len(b), n)
		return
	}
	for i, val := range b {
		rhs[i], rhs[i+n] = real(val), imag(val)
	}
	if err = c.lu.SolveVecTo(&sol, false, mat.NewVecDense(2*n, rhs)); err != nil {
		return
	}
	x = make([]complex128, n)
	for i := range x {
		x[i] = complex(sol.AtVec(i), sol.AtVec(i+n))
	}
	return
}
