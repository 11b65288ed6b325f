package solution

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/assembly"
	"github.com/notargets/gopulse/types"
	"github.com/notargets/gopulse/utils"
)

const DefaultSigma = 1.e-2

// residualTol bounds the relative backward error of the shifted solve.
const residualTol = 1.e-8

type ModalConfig struct {
	Modes int
	Sigma float64 // Eigen shift, DefaultSigma when zero
}

// ModalResult holds the modes sorted by ascending natural frequency. Shapes has one
// mass normalized column per mode over the free DOFs.
type ModalResult struct {
	Frequencies []float64
	Eigenvalues []float64 // ω², may be slightly negative for rigid body modes
	Shapes      *mat.Dense
	Sigma       float64
}

func (r *ModalResult) NumModes() int { return len(r.Frequencies) }

// Modal solves K φ = λ M φ on the free DOFs with a shift-invert around Sigma. With M = L Lᵀ
// the shifted problem is recast as the symmetric S = Lᵀ (K - σM)⁻¹ L, whose eigenvalues are
// ν = 1/(λ - σ), so the modes nearest the shift have the largest |ν|.
func Modal(sys *assembly.System, cfg ModalConfig) (res *ModalResult, err error) {
	var (
		n     = len(sys.FreeDOFs)
		sigma = cfg.Sigma
		chol  mat.Cholesky
		lu    mat.LU
		eig   mat.EigenSym
	)
	if sigma == 0 {
		sigma = DefaultSigma
	}
	fail := func(err error) error {
		return &types.NumericalError{Op: "modal", Modes: cfg.Modes, Sigma: sigma, Err: err}
	}
	if cfg.Modes < 1 || cfg.Modes > n {
		err = &types.ConfigurationError{Field: "modes",
			Reason: fmt.Sprintf("requested %d modes, the model has %d free dofs", cfg.Modes, n)}
		return
	}
	if ok := chol.Factorize(utils.ToSym(sys.MReduced)); !ok {
		err = fail(errors.New("mass matrix is not positive definite"))
		return
	}
	var L mat.TriDense
	chol.LTo(&L)

	shifted := mat.NewDense(n, n, nil)
	shifted.Scale(-sigma, sys.MReduced)
	shifted.Add(shifted, sys.KReduced)
	// A free-free model makes K - σM nearly singular. The wanted modes are the large
	// components of the solve, so only an exact singularity or a bad residual fails.
	lu.Factorize(shifted)
	if cond := lu.Cond(); math.IsInf(cond, 1) || math.IsNaN(cond) {
		err = fail(fmt.Errorf("shifted stiffness is singular, move the shift: %w", mat.Condition(cond)))
		return
	}
	var X, S mat.Dense
	if err = lu.SolveTo(&X, false, &L); err != nil {
		var ce mat.Condition
		if !errors.As(err, &ce) {
			err = fail(err)
			return
		}
		err = nil
	}
	if utils.IsNan(&X) {
		err = fail(errors.New("shifted solve produced NaN"))
		return
	}
	if r := shiftResidual(shifted, &X, &L); r > residualTol {
		err = fail(fmt.Errorf("shifted solve residual %.4e exceeds %.1e, move the shift", r, residualTol))
		return
	}
	S.Mul(L.T(), &X)
	if ok := eig.Factorize(utils.ToSym(&S), true); !ok {
		err = fail(errors.New("eigen decomposition did not converge"))
		return
	}
	var (
		nu = eig.Values(nil)
		Y  mat.Dense
	)
	eig.VectorsTo(&Y)
	if utils.IsNan(nu) || utils.IsNan(&Y) {
		err = fail(errors.New("eigen decomposition produced NaN"))
		return
	}

	// Keep the modes nearest the shift, then order them by frequency
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return math.Abs(nu[order[i]]) > math.Abs(nu[order[j]]) })
	order = order[:cfg.Modes]
	lambda := make(map[int]float64, cfg.Modes)
	for _, m := range order {
		lambda[m] = sigma + 1/nu[m]
	}
	sort.SliceStable(order, func(i, j int) bool {
		return math.Abs(lambda[order[i]]) < math.Abs(lambda[order[j]])
	})

	res = &ModalResult{
		Frequencies: make([]float64, cfg.Modes),
		Eigenvalues: make([]float64, cfg.Modes),
		Shapes:      mat.NewDense(n, cfg.Modes, nil),
		Sigma:       sigma,
	}
	Ysel := mat.NewDense(n, cfg.Modes, nil)
	for k, m := range order {
		res.Eigenvalues[k] = lambda[m]
		res.Frequencies[k] = math.Sqrt(math.Abs(lambda[m])) / (2 * math.Pi)
		Ysel.SetCol(k, mat.Col(nil, m, &Y))
	}
	// φ = L⁻ᵀ y, which makes Φᵀ M Φ = I
	if err = res.Shapes.Solve(L.TTri(), Ysel); err != nil {
		err = fail(err)
		return nil, err
	}
	normalizeSigns(res.Shapes)
	return
}

// shiftResidual is ‖A X - B‖ / (‖A‖ ‖X‖ + ‖B‖), in the Frobenius norm.
func shiftResidual(A, X, B mat.Matrix) float64 {
	var R mat.Dense
	R.Mul(A, X)
	R.Sub(&R, B)
	den := mat.Norm(A, 2)*mat.Norm(X, 2) + mat.Norm(B, 2)
	if den == 0 {
		return 0
	}
	return mat.Norm(&R, 2) / den
}

// normalizeSigns flips each column so its largest magnitude entry is positive.
func normalizeSigns(Phi *mat.Dense) {
	var (
		nr, nc = Phi.Dims()
	)
	for j := 0; j < nc; j++ {
		var (
			imax int
			vmax float64
		)
		for i := 0; i < nr; i++ {
			if v := math.Abs(Phi.At(i, j)); v > vmax {
				imax, vmax = i, v
			}
		}
		if Phi.At(imax, j) < 0 {
			for i := 0; i < nr; i++ {
				Phi.Set(i, j, -Phi.At(i, j))
			}
		}
	}
}
