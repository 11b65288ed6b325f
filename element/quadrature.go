package element

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Rule is a Gauss-Legendre quadrature rule on ξ ∈ [-1, 1].
type Rule struct {
	Points, Weights []float64
}

var (
	reducedRule = mustGaussLegendre(1) // ξ = 0, w = 2
	fullRule    = mustGaussLegendre(2) // ξ = ±1/√3, w = 1
)

// GaussLegendre computes the n point rule from the eigen decomposition of the symmetric
// tridiagonal Jacobi matrix of the Legendre recurrence (Golub-Welsch).
func GaussLegendre(n int) (r Rule, err error) {
	if n < 1 {
		err = fmt.Errorf("quadrature order must be at least 1, have %d", n)
		return
	}
	if n == 1 {
		r = Rule{Points: []float64{0}, Weights: []float64{2}}
		return
	}
	JJ := mat.NewSymDense(n, nil)
	for i := 1; i < n; i++ {
		fi := float64(i)
		b := fi / math.Sqrt(4*fi*fi-1)
		JJ.SetSym(i-1, i, b)
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		err = fmt.Errorf("eigenvalue decomposition failed for %d point Gauss rule", n)
		return
	}
	r.Points = eig.Values(nil)
	VVr := mat.NewDense(n, n, nil)
	eig.VectorsTo(VVr)
	r.Weights = make([]float64, n)
	for j := 0; j < n; j++ {
		v := VVr.At(0, j)
		r.Weights[j] = 2 * v * v
	}
	// The zero diagonal makes the rule symmetric, remove round off
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		p := 0.5 * (r.Points[j] - r.Points[i])
		w := 0.5 * (r.Weights[i] + r.Weights[j])
		r.Points[i], r.Points[j] = -p, p
		r.Weights[i], r.Weights[j] = w, w
	}
	if n%2 == 1 {
		r.Points[n/2] = 0
	}
	return
}

func mustGaussLegendre(n int) Rule {
	r, err := GaussLegendre(n)
	if err != nil {
		panic(err)
	}
	return r
}

// ShapeFunctions of the 2 node linear element and their derivatives in ξ.
func ShapeFunctions(xi float64) (phi, dphi [2]float64) {
	phi = [2]float64{(1 - xi) / 2, (1 + xi) / 2}
	dphi = [2]float64{-0.5, 0.5}
	return
}
