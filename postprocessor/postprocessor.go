package postprocessor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/assembly"
	"github.com/notargets/gopulse/preprocessor"
	"github.com/notargets/gopulse/solution"
	"github.com/notargets/gopulse/types"
)

// RecoverModes expands mode shapes over the free DOFs to all DOFs, prescribed rows are zero.
func RecoverModes(sys *assembly.System, Phi *mat.Dense) (full *mat.Dense) {
	var (
		nr, nc = Phi.Dims()
	)
	if nr != len(sys.FreeDOFs) {
		panic(fmt.Errorf("recover modes: %d rows, system has %d free dofs", nr, len(sys.FreeDOFs)))
	}
	full = mat.NewDense(sys.NumDOFs, nc, nil)
	for i, gd := range sys.FreeDOFs {
		for j := 0; j < nc; j++ {
			full.Set(gd, j, Phi.At(i, j))
		}
	}
	return
}

// RecoverResponse expands a free DOF response to all DOFs, prescribed rows take their
// prescribed values in every column.
func RecoverResponse(sys *assembly.System, X *mat.CDense) (full *mat.CDense) {
	var (
		nr, nc = X.Dims()
	)
	if nr != len(sys.FreeDOFs) {
		panic(fmt.Errorf("recover response: %d rows, system has %d free dofs", nr, len(sys.FreeDOFs)))
	}
	full = mat.NewCDense(sys.NumDOFs, nc, nil)
	for i, gd := range sys.FreeDOFs {
		for j := 0; j < nc; j++ {
			full.Set(gd, j, X.At(i, j))
		}
	}
	for p, gd := range sys.PrescribedDOFs {
		for j := 0; j < nc; j++ {
			full.Set(gd, j, sys.PrescribedValues[p])
		}
	}
	return
}

type NodalResult[T float64 | complex128] struct {
	NodeID      int
	Translation [3]T
	Rotation    [3]T
}

// GroupByNode splits one full length column into per node translations and rotations, in
// internal node order.
func GroupByNode[T float64 | complex128](pre *preprocessor.PreProcessor, column []T) (nodal []NodalResult[T], err error) {
	if len(column) != pre.NumDOFs() {
		err = fmt.Errorf("group by node: column length %d, model has %d dofs", len(column), pre.NumDOFs())
		return
	}
	nodal = make([]NodalResult[T], pre.NumNodes())
	for n, nd := range pre.Nodes {
		nodal[n].NodeID = nd.UserIndex
		for d := 0; d < 3; d++ {
			nodal[n].Translation[d] = column[types.GlobalDOF(nd.InternalIndex, types.DOF(d))]
			nodal[n].Rotation[d] = column[types.GlobalDOF(nd.InternalIndex, types.DOF(d+3))]
		}
	}
	return
}

func ModeColumn(full *mat.Dense, j int) []float64 {
	return mat.Col(nil, j, full)
}

func ResponseColumn(full *mat.CDense, j int) (col []complex128) {
	nr, _ := full.Dims()
	col = make([]complex128, nr)
	for i := range col {
		col[i] = full.At(i, j)
	}
	return
}

// LoadReactions computes sK·(Kr·x) + sM·(Mr·x) for every prescribed DOF and frequency, with
// the same damping weights as the dynamic matrix. The result is prescribed DOF × frequency.
func LoadReactions(sys *assembly.System, frequencies []float64, Xfull *mat.CDense, d solution.Damping) (R *mat.CDense, err error) {
	var (
		nr, nc = Xfull.Dims()
		np     = len(sys.PrescribedDOFs)
	)
	switch {
	case nr != sys.NumDOFs:
		err = fmt.Errorf("load reactions: response has %d rows, system has %d dofs", nr, sys.NumDOFs)
		return
	case nc != len(frequencies):
		err = fmt.Errorf("load reactions: response has %d columns for %d frequencies", nc, len(frequencies))
		return
	case np == 0:
		err = &types.ConfigurationError{Field: "prescribed dofs", Reason: "no prescribed dofs to react"}
		return
	}
	R = mat.NewCDense(np, nc, nil)
	for k, f := range frequencies {
		var (
			sK, sM = d.Weights(f)
			x      = ResponseColumn(Xfull, k)
			kx     = sys.Kr.MulVecC(x)
			mx     = sys.Mr.MulVecC(x)
		)
		for p := 0; p < np; p++ {
			R.Set(p, k, sK*kx[p]+sM*mx[p])
		}
	}
	return
}
