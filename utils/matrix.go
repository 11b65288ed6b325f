package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// SymmetrizeUpper completes a matrix whose upper triangle was filled by direct indexing,
// A = A + Aᵀ - diag(A). The strict lower triangle must be zero on entry.
func SymmetrizeUpper(A *mat.Dense) {
	var (
		nr, nc = A.Dims()
	)
	if nr != nc {
		panic("SymmetrizeUpper requires a square matrix")
	}
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nc; j++ {
			A.Set(j, i, A.At(j, i)+A.At(i, j))
		}
	}
}

// RtAR computes Rᵀ A R.
func RtAR(R, A mat.Matrix) (O *mat.Dense) {
	var (
		tmp mat.Dense
	)
	O = &mat.Dense{}
	tmp.Mul(A, R)
	O.Mul(R.T(), &tmp)
	return
}

func MaxAbs(A mat.Matrix) (m float64) {
	var (
		nr, nc = A.Dims()
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			m = math.Max(m, math.Abs(A.At(i, j)))
		}
	}
	return
}

// IsSymmetric checks A == Aᵀ to within tol relative to the largest entry.
func IsSymmetric(A mat.Matrix, tol float64) bool {
	var (
		nr, nc = A.Dims()
		scale  = MaxAbs(A)
	)
	if nr != nc {
		return false
	}
	if scale == 0 {
		return true
	}
	for i := 0; i < nr; i++ {
		for j := i + 1; j < nc; j++ {
			if math.Abs(A.At(i, j)-A.At(j, i)) > tol*scale {
				return false
			}
		}
	}
	return true
}

// ToSym averages A and Aᵀ into a SymDense, removing round off asymmetry.
func ToSym(A mat.Matrix) (S *mat.SymDense) {
	var (
		n, _ = A.Dims()
	)
	S = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			S.SetSym(i, j, 0.5*(A.At(i, j)+A.At(j, i)))
		}
	}
	return
}
