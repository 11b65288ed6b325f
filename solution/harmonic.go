package solution

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"sort"
	"strings"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/assembly"
	"github.com/notargets/gopulse/types"
	"github.com/notargets/gopulse/utils"
)

type Method uint8

const (
	Direct Method = iota
	ModeSuperposition
)

var MethodNameMap = map[string]Method{
	"direct":             Direct,
	"modal":              ModeSuperposition,
	"mode_superposition": ModeSuperposition,
}

func (m Method) String() string {
	switch m {
	case Direct:
		return "direct"
	case ModeSuperposition:
		return "mode_superposition"
	}
	return fmt.Sprintf("Method(%d)", uint8(m))
}

func NewMethod(label string) (m Method, err error) {
	var ok bool
	if m, ok = MethodNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = &types.ConfigurationError{Field: "method", Reason: fmt.Sprintf("unknown harmonic method %q", label)}
	}
	return
}

// Damping holds proportional viscous (V) and hysteretic (H) coefficients on mass (Alpha)
// and stiffness (Beta). Viscous terms scale with frequency in Hz.
type Damping struct {
	AlphaV, BetaV, AlphaH, BetaH float64
}

// Weights returns the complex multipliers of K and M in the dynamic matrix at frequency f,
// A(f) = sK·K + sM·M.
func (d Damping) Weights(f float64) (sK, sM complex128) {
	omega := 2 * math.Pi * f
	sK = complex(1, f*d.BetaV+d.BetaH)
	sM = complex(-omega*omega, f*d.AlphaV+d.AlphaH)
	return
}

type HarmonicConfig struct {
	Method            Method
	FMin, FMax, FStep float64
	Frequencies       []float64 // Used instead of the (FMin, FMax, FStep) sweep when not empty
	Damping           Damping
	// Modal basis for mode superposition, computed from Modes and Sigma when Basis is nil
	Modes int
	Sigma float64
	Basis *ModalResult
	// Goroutines used for the sweep, the CPU count when zero
	ParallelDegree int
	// Accept mode superposition with non-zero prescribed values, the response is then only
	// an approximation
	AllowPrescribedApproximation bool
}

// FrequencyList expands the sweep, both ends included.
func (cfg HarmonicConfig) FrequencyList() (freqs []float64, err error) {
	if len(cfg.Frequencies) != 0 {
		freqs = make([]float64, len(cfg.Frequencies))
		copy(freqs, cfg.Frequencies)
	} else {
		if cfg.FStep <= 0 || cfg.FMax < cfg.FMin {
			err = &types.ConfigurationError{Field: "frequencies",
				Reason: fmt.Sprintf("invalid sweep fmin = %g, fmax = %g, fstep = %g", cfg.FMin, cfg.FMax, cfg.FStep)}
			return
		}
		nf := int(math.Floor((cfg.FMax-cfg.FMin)/cfg.FStep+1.e-9)) + 1
		freqs = make([]float64, nf)
		for k := range freqs {
			freqs[k] = cfg.FMin + float64(k)*cfg.FStep
		}
	}
	for _, f := range freqs {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			err = &types.ConfigurationError{Field: "frequencies", Reason: fmt.Sprintf("invalid frequency %g", f)}
			return nil, err
		}
	}
	return
}

// HarmonicResult has one response column per frequency over the free DOFs. A frequency that
// could not be solved has a NaN column and an entry in Failures.
type HarmonicResult struct {
	Method      Method
	Frequencies []float64
	Response    *mat.CDense
	Failures    []*types.NumericalError // Ascending frequency
	Basis       *ModalResult            // Mode superposition only
	Damping     Damping
}

func (r *HarmonicResult) Failed(k int) bool {
	return cmplx.IsNaN(r.Response.At(0, k))
}

// Harmonic computes the steady state response to the system loads over the frequency sweep.
// The sweep is split across goroutines and checked for cancellation between frequencies.
func Harmonic(ctx context.Context, sys *assembly.System, cfg HarmonicConfig) (res *HarmonicResult, err error) {
	var (
		freqs []float64
		solve solver
	)
	if freqs, err = cfg.FrequencyList(); err != nil {
		return
	}
	res = &HarmonicResult{
		Method:      cfg.Method,
		Frequencies: freqs,
		Response:    mat.NewCDense(len(sys.FreeDOFs), len(freqs), nil),
		Damping:     cfg.Damping,
	}
	switch cfg.Method {
	case Direct:
		solve = directSolver(sys, cfg.Damping)
	case ModeSuperposition:
		if sys.HasNonZeroPrescribed() {
			if !cfg.AllowPrescribedApproximation {
				err = &types.ConfigurationError{Field: "method",
					Reason: "mode superposition does not support non-zero prescribed dofs, use the direct method"}
				return nil, err
			}
			log.Printf("warning: mode superposition with non-zero prescribed dofs is an approximation")
		}
		if res.Basis = cfg.Basis; res.Basis == nil {
			if res.Basis, err = Modal(sys, ModalConfig{Modes: cfg.Modes, Sigma: cfg.Sigma}); err != nil {
				return nil, err
			}
		}
		if nr, _ := res.Basis.Shapes.Dims(); nr != len(sys.FreeDOFs) {
			err = &types.ConfigurationError{Field: "modal basis",
				Reason: fmt.Sprintf("basis has %d rows, the model has %d free dofs", nr, len(sys.FreeDOFs))}
			return nil, err
		}
		solve = modalSolver(sys, res.Basis, cfg.Damping)
	default:
		err = &types.ConfigurationError{Field: "method", Reason: fmt.Sprintf("unsupported method %v", cfg.Method)}
		return nil, err
	}

	var (
		NP       = utils.ParallelDegree(cfg.ParallelDegree, len(freqs))
		pm       = utils.NewPartitionMap(NP, len(freqs))
		failures = make([][]*types.NumericalError, NP)
		wg       = sync.WaitGroup{}
	)
	sweep := func(np int) {
		kMin, kMax := pm.GetBucketRange(np)
		for k := kMin; k < kMax; k++ {
			if ctx.Err() != nil {
				return
			}
			x, err := solve(freqs[k])
			if err == nil && utils.IsNan(x) {
				err = errors.New("response is NaN")
			}
			if err != nil {
				failures[np] = append(failures[np], &types.NumericalError{
					Op: "harmonic analysis", Frequency: freqs[k], Err: err})
				x = make([]complex128, len(sys.FreeDOFs))
				for i := range x {
					x[i] = cmplx.NaN()
				}
			}
			for i, val := range x {
				res.Response.Set(i, k, val)
			}
		}
	}
	// A serial sweep stays on the calling goroutine
	if NP == 1 {
		sweep(0)
	} else {
		for np := 0; np < NP; np++ {
			wg.Add(1)
			go func(np int) {
				defer wg.Done()
				sweep(np)
			}(np)
		}
		wg.Wait()
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	for np := 0; np < NP; np++ {
		res.Failures = append(res.Failures, failures[np]...)
	}
	sort.SliceStable(res.Failures, func(i, j int) bool { return res.Failures[i].Frequency < res.Failures[j].Frequency })
	return
}

// solver returns the free DOF response at one frequency. Solvers share read only state and
// are safe for concurrent use.
type solver func(f float64) ([]complex128, error)

func directSolver(sys *assembly.System, d Damping) solver {
	n := len(sys.FreeDOFs)
	return func(f float64) (x []complex128, err error) {
		var (
			sK, sM = d.Weights(f)
			Ar     = mat.NewDense(n, n, nil)
			Ai     = mat.NewDense(n, n, nil)
			tmp    = mat.NewDense(n, n, nil)
			clu    *utils.ComplexLU
		)
		Ar.Scale(real(sK), sys.KReduced)
		tmp.Scale(real(sM), sys.MReduced)
		Ar.Add(Ar, tmp)
		Ai.Scale(imag(sK), sys.KReduced)
		tmp.Scale(imag(sM), sys.MReduced)
		Ai.Add(Ai, tmp)
		if clu, err = utils.FactorizeComplex(Ar, Ai); err != nil {
			return nil, fmt.Errorf("dynamic matrix is singular: %w", err)
		}
		return clu.Solve(rhs(sys, sK, sM))
	}
}

// modalSolver evaluates x = Φ diag(H) Φᵀ (F - Fc) with H_j = 1/(sK ωj² + sM), ωj = 2π fj.
func modalSolver(sys *assembly.System, basis *ModalResult, d Damping) solver {
	var (
		Phi    = basis.Shapes
		n, nm  = Phi.Dims()
		static = sys.HasNonZeroPrescribed()
		// Modal loads are frequency independent unless prescribed values feed the load
		q0 []complex128
	)
	project := func(F []complex128) (q []complex128) {
		q = make([]complex128, nm)
		for j := 0; j < nm; j++ {
			var sum complex128
			for i := 0; i < n; i++ {
				sum += complex(Phi.At(i, j), 0) * F[i]
			}
			q[j] = sum
		}
		return
	}
	if !static {
		q0 = project(sys.FReduced)
	}
	return func(f float64) (x []complex128, err error) {
		var (
			sK, sM = d.Weights(f)
			q      = q0
		)
		if static {
			q = project(rhs(sys, sK, sM))
		}
		eta := make([]complex128, nm)
		for j := 0; j < nm; j++ {
			omegaN := 2 * math.Pi * basis.Frequencies[j]
			den := sK*complex(omegaN*omegaN, 0) + sM
			if den == 0 {
				return nil, fmt.Errorf("undamped resonance of mode %d at %g Hz", j+1, basis.Frequencies[j])
			}
			eta[j] = q[j] / den
		}
		x = make([]complex128, n)
		for i := 0; i < n; i++ {
			var sum complex128
			for j := 0; j < nm; j++ {
				sum += complex(Phi.At(i, j), 0) * eta[j]
			}
			x[i] = sum
		}
		return
	}
}

// rhs is the reduced load less the prescribed value correction.
func rhs(sys *assembly.System, sK, sM complex128) (b []complex128) {
	b = make([]complex128, len(sys.FReduced))
	Fc := sys.Correction(sK, sM)
	for i := range b {
		b[i] = sys.FReduced[i] - Fc[i]
	}
	return
}
