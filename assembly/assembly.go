package assembly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/element"
	"github.com/notargets/gopulse/preprocessor"
	"github.com/notargets/gopulse/types"
	"github.com/notargets/gopulse/utils"
)

// System is the assembled global problem. K and M cover all 6N DOFs, Kr and Mr hold the
// prescribed rows over all columns, KReduced and MReduced are the dense free partition.
type System struct {
	NumDOFs            int
	K, M               utils.CSR
	Kr, Mr             utils.CSR
	KReduced, MReduced *mat.Dense
	FreeDOFs           utils.Index
	PrescribedDOFs     utils.Index  // Ascending
	PrescribedValues   []complex128 // Aligned with PrescribedDOFs
	F                  []complex128 // Nodal plus distributed loads, all DOFs
	FReduced           []complex128
}

// Triplets lays out the 144 (row, col) pairs of each element contiguously, element by element.
// Duplicate pairs are left for the accumulator to sum.
func Triplets(elements []element.Element) (I, J utils.Index, dataK, dataM []float64) {
	var (
		size = element.NPAIR * len(elements)
	)
	I, J = utils.NewIndex(size), utils.NewIndex(size)
	dataK, dataM = make([]float64, size), make([]float64, size)
	for k, el := range elements {
		var (
			_, rows, cols = el.DOFs()
			Ke, Me        = el.StiffnessGlobal(), el.MassGlobal()
			ind           = k * element.NPAIR
		)
		for n := 0; n < element.NPAIR; n++ {
			i, j := n/element.NDOF, n%element.NDOF
			I[ind+n], J[ind+n] = rows[n], cols[n]
			dataK[ind+n] = Ke.At(i, j)
			dataM[ind+n] = Me.At(i, j)
		}
	}
	return
}

func New(pre *preprocessor.PreProcessor) (sys *System, err error) {
	var (
		nDOF = pre.NumDOFs()
	)
	sys = &System{NumDOFs: nDOF}
	I, J, dataK, dataM := Triplets(pre.Elements)
	accK := utils.NewAccumulator(nDOF, nDOF, "K")
	accM := utils.NewAccumulator(nDOF, nDOF, "M")
	if err = accK.AddTriplets(I, J, dataK); err != nil {
		return nil, fmt.Errorf("assembling stiffness: %w", err)
	}
	if err = accM.AddTriplets(I, J, dataM); err != nil {
		return nil, fmt.Errorf("assembling mass: %w", err)
	}
	sys.K, sys.M = accK.ToCSR(), accM.ToCSR()

	sys.PrescribedDOFs = utils.NewIndex(len(pre.PrescribedDOFs))
	sys.PrescribedValues = make([]complex128, len(pre.PrescribedDOFs))
	for i, row := range pre.PrescribedDOFs {
		sys.PrescribedDOFs[i] = row.GlobalDOF
		sys.PrescribedValues[i] = row.Value
	}
	if !sys.PrescribedDOFs.IsSortedUnique() {
		return nil, &types.ConfigurationError{Field: "prescribed dofs",
			Reason: fmt.Sprintf("prescribed dofs must be strictly ascending, have %v", sys.PrescribedDOFs)}
	}
	sys.FreeDOFs = sys.PrescribedDOFs.Complement(nDOF)
	if len(sys.FreeDOFs) == 0 {
		return nil, &types.ConfigurationError{Field: "prescribed dofs", Reason: "every dof is prescribed"}
	}
	sys.KReduced = sys.K.DenseSubmatrix(sys.FreeDOFs, sys.FreeDOFs)
	sys.MReduced = sys.M.DenseSubmatrix(sys.FreeDOFs, sys.FreeDOFs)
	if sys.HasPrescribed() {
		sys.Kr = sys.K.SelectRows(sys.PrescribedDOFs, "Kr")
		sys.Mr = sys.M.SelectRows(sys.PrescribedDOFs, "Mr")
	}
	sys.F = GlobalLoad(pre)
	sys.FReduced = sys.Reduce(sys.F)
	return
}

// GlobalLoad sums nodal loads and the rotated distributed loads of every element.
func GlobalLoad(pre *preprocessor.PreProcessor) (F []complex128) {
	F = make([]complex128, pre.NumDOFs())
	for _, row := range pre.Loads {
		F[row.GlobalDOF] += row.Value
	}
	for _, el := range pre.Elements {
		dofs, _, _ := el.DOFs()
		Fe := el.LoadGlobal()
		for i, gd := range dofs {
			F[gd] += complex(Fe.AtVec(i), 0)
		}
	}
	return
}

func (sys *System) HasPrescribed() bool { return len(sys.PrescribedDOFs) != 0 }

// HasNonZeroPrescribed reports whether any prescribed DOF carries a non-zero value.
func (sys *System) HasNonZeroPrescribed() bool {
	for _, v := range sys.PrescribedValues {
		if v != 0 {
			return true
		}
	}
	return false
}

// Reduce extracts the free DOF entries of a full length vector.
func (sys *System) Reduce(full []complex128) (r []complex128) {
	if len(full) != sys.NumDOFs {
		panic(fmt.Errorf("reduce: vector length %d, system has %d dofs", len(full), sys.NumDOFs))
	}
	r = make([]complex128, len(sys.FreeDOFs))
	for i, gd := range sys.FreeDOFs {
		r[i] = full[gd]
	}
	return
}

// Correction returns the free DOF load caused by the prescribed values under the dynamic
// weights sK, sM, that is sK·Kr[:, free]ᵀ·up + sM·Mr[:, free]ᵀ·up.
func (sys *System) Correction(sK, sM complex128) (Fc []complex128) {
	Fc = make([]complex128, len(sys.FreeDOFs))
	if !sys.HasNonZeroPrescribed() {
		return
	}
	// K and M are symmetric, so the prescribed columns of the free rows are the transposed
	// prescribed rows
	kt := sys.Kr.TransposeMulVecC(sys.PrescribedValues)
	mt := sys.Mr.TransposeMulVecC(sys.PrescribedValues)
	for i, gd := range sys.FreeDOFs {
		Fc[i] = sK*kt[gd] + sM*mt[gd]
	}
	return
}
