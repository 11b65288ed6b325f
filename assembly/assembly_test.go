package assembly

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/element"
	"github.com/notargets/gopulse/model_problems"
	"github.com/notargets/gopulse/preprocessor"
	"github.com/notargets/gopulse/properties"
	"github.com/notargets/gopulse/types"
	"github.com/notargets/gopulse/utils"
)

func build(t *testing.T, in preprocessor.Input) (*preprocessor.PreProcessor, *System) {
	pre, err := preprocessor.New(in)
	require.NoError(t, err)
	sys, err := New(pre)
	require.NoError(t, err)
	return pre, sys
}

func tube(t *testing.T) (*properties.Material, *properties.CrossSection) {
	m, err := properties.NewMaterial(model_problems.SteelConfig)
	require.NoError(t, err)
	cs, err := properties.NewCrossSection(model_problems.TubeConfig)
	require.NoError(t, err)
	return m, cs
}

func TestTriplets(t *testing.T) {
	in, err := model_problems.Cantilever(3, 3, element.Pipe16, 1)
	require.NoError(t, err)
	pre, err := preprocessor.New(in)
	require.NoError(t, err)
	I, J, dataK, dataM := Triplets(pre.Elements)
	assert.Len(t, I, 3*element.NPAIR)
	assert.Len(t, J, 3*element.NPAIR)
	assert.Len(t, dataK, 3*element.NPAIR)
	assert.Len(t, dataM, 3*element.NPAIR)
	// Second element starts at node 2
	assert.Equal(t, 6, I[element.NPAIR])
	assert.Equal(t, 6, J[element.NPAIR])
	assert.Equal(t, 17, I[2*element.NPAIR-1])
	Ke := pre.Elements[1].StiffnessGlobal()
	assert.Equal(t, Ke.At(0, 1), dataK[element.NPAIR+1])
}

func TestAssembly(t *testing.T) {
	m, cs := tube(t)
	{ // Cantilever partition, accumulation at the shared node and loads
		in, err := model_problems.Cantilever(2, 2, element.Pipe16, 1000)
		require.NoError(t, err)
		_, sys := build(t, in)
		assert.Equal(t, 18, sys.NumDOFs)
		assert.Equal(t, utils.NewRange(0, 5), sys.PrescribedDOFs)
		assert.Equal(t, utils.NewRange(6, 17), sys.FreeDOFs)
		assert.True(t, utils.IsSymmetric(sys.K.Dense(), utils.SYMTOL))
		assert.True(t, utils.IsSymmetric(sys.M.Dense(), utils.SYMTOL))
		// The check is relative to the largest entry, a small skew in K is still caught
		Kskew := sys.K.Dense()
		Kskew.Set(6, 7, Kskew.At(6, 7)+100*utils.SYMTOL*utils.MaxAbs(Kskew))
		assert.False(t, utils.IsSymmetric(Kskew, utils.SYMTOL))
		EA := m.YoungModulus * cs.Area
		assert.InDelta(t, 2*EA, sys.K.At(6, 6), 1.e-6*EA)
		assert.InDelta(t, EA, sys.K.At(12, 12), 1.e-6*EA)
		assert.InDelta(t, -EA, sys.K.At(6, 12), 1.e-6*EA)
		assert.Equal(t, 0., sys.K.At(0, 12))
		// Rigid translation carries the total mass
		ux := mat.NewVecDense(18, nil)
		for n := 0; n < 3; n++ {
			ux.SetVec(6*n, 1)
		}
		assert.InDelta(t, m.Density*cs.Area*2, mat.Inner(ux, sys.M, ux), 1.e-9)
		r, c := sys.KReduced.Dims()
		assert.Equal(t, [2]int{12, 12}, [2]int{r, c})
		r, c = sys.Kr.Dims()
		assert.Equal(t, [2]int{6, 18}, [2]int{r, c})
		assert.Equal(t, sys.K.At(1, 7), sys.Kr.At(1, 7))
		assert.Equal(t, sys.M.At(5, 11), sys.Mr.At(5, 11))
		assert.Equal(t, sys.K.At(7, 11), sys.KReduced.At(1, 5))
		assert.Equal(t, complex(1000, 0), sys.F[13])
		assert.Equal(t, complex(1000, 0), sys.FReduced[7])
		assert.False(t, sys.HasNonZeroPrescribed())
		for _, v := range sys.Correction(1, -1) {
			assert.Equal(t, complex128(0), v)
		}
	}
	{ // Clamped at both ends
		in, err := model_problems.ClampedClamped(4, 2, element.Beam)
		require.NoError(t, err)
		_, sys := build(t, in)
		r, c := sys.KReduced.Dims()
		assert.Equal(t, 6*5-12, r)
		assert.Equal(t, 6*5-12, c)
		r, c = sys.MReduced.Dims()
		assert.Equal(t, 6*5-12, r)
		assert.Equal(t, 6*5-12, c)
		assert.Len(t, sys.FreeDOFs, 18)
		assert.Len(t, sys.PrescribedDOFs, 12)
	}
	{ // Distributed load and prescribed displacement correction
		in, err := model_problems.Line(1, 2, element.Pipe16)
		require.NoError(t, err)
		in.DistributedLoads = map[int][types.DOFsPerNode]float64{1: {0, -10, 0, 0, 0, 0}}
		in.PrescribedDOFs = []preprocessor.Prescription{
			{Node: 1, DOFs: []types.DOF{types.UX}, Values: []complex128{1.e-3}},
		}
		_, sys := build(t, in)
		assert.InDelta(t, -10, real(sys.F[1]), 1.e-12)
		assert.InDelta(t, -10, real(sys.F[7]), 1.e-12)
		assert.True(t, sys.HasNonZeroPrescribed())
		Fc := sys.Correction(1, 0)
		require.Len(t, Fc, 11)
		EA := m.YoungModulus * cs.Area
		// Free dof 6 is at position 5
		assert.InDelta(t, -EA/2*1.e-3, real(Fc[5]), 1.e-9*EA)
		Fc = sys.Correction(0, 1)
		assert.InDelta(t, sys.M.At(6, 0)*1.e-3, real(Fc[5]), 1.e-15)
	}
	{ // Nothing left to solve
		in, err := model_problems.Line(1, 1, element.Pipe16)
		require.NoError(t, err)
		in.PrescribedDOFs = []preprocessor.Prescription{model_problems.Clamp(1), model_problems.Clamp(2)}
		pre, err := preprocessor.New(in)
		require.NoError(t, err)
		_, err = New(pre)
		var cfgErr *types.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	}
	{ // A prescribed table out of order is refused
		in, err := model_problems.Cantilever(2, 2, element.Pipe16, 1)
		require.NoError(t, err)
		pre, err := preprocessor.New(in)
		require.NoError(t, err)
		pre.PrescribedDOFs[0], pre.PrescribedDOFs[1] = pre.PrescribedDOFs[1], pre.PrescribedDOFs[0]
		_, err = New(pre)
		var cfgErr *types.ConfigurationError
		assert.True(t, errors.As(err, &cfgErr))
	}
}
