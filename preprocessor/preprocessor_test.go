package preprocessor

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopulse/element"
	"github.com/notargets/gopulse/properties"
	"github.com/notargets/gopulse/types"
)

// threeNodeInput is a two element line with scrambled user ids and row order
func threeNodeInput(t *testing.T) Input {
	m, err := properties.NewMaterial(properties.MaterialConfig{
		Name: "steel", Density: 7860, YoungModulus: properties.Given(210.e9), PoissonRatio: properties.Given(0.3)})
	require.NoError(t, err)
	cs, err := properties.NewCrossSection(properties.CrossSectionConfig{OuterDiameter: 0.05, Thickness: 0.005})
	require.NoError(t, err)
	in := Input{
		Coordinates: []NodeRow{
			{ID: 30, X: 2},
			{ID: 7},
			{ID: 12, X: 1},
		},
		Connectivity: [][3]int{
			{5, 12, 30},
			{2, 7, 12},
		},
		Materials:        map[int]*properties.Material{2: m, 5: m},
		Sections:         map[int]*properties.CrossSection{2: cs, 5: cs},
		ElementTypes:     map[int]element.Type{2: element.Pipe16, 5: element.Beam},
		DistributedLoads: map[int][types.DOFsPerNode]float64{5: {0, -10, 0, 0, 0, 0}},
		PrescribedDOFs: []Prescription{
			{Node: 7, DOFs: []types.DOF{types.RZ, types.UX, types.UY}, Values: []complex128{0, 0, 1.e-3}},
		},
		Loads: []Prescription{
			{Node: 30, DOFs: []types.DOF{types.UY}, Values: []complex128{complex(100, 5)}},
			{Node: 12, DOFs: []types.DOF{types.UZ}, Values: []complex128{-3}},
			{Node: 30, DOFs: []types.DOF{types.UY}, Values: []complex128{50}},
		},
	}
	return in
}

func TestPreProcessor(t *testing.T) {
	{ // Node bijection follows ascending user id
		p, err := New(threeNodeInput(t))
		require.NoError(t, err)
		assert.Equal(t, 3, p.NumNodes())
		assert.Equal(t, 18, p.NumDOFs())
		for user, internal := range map[int]int{7: 0, 12: 1, 30: 2} {
			i, ok := p.InternalIndex(user)
			assert.True(t, ok)
			assert.Equal(t, internal, i)
			assert.Equal(t, user, p.UserIndex(i))
		}
		for i := 0; i < p.NumNodes(); i++ {
			j, ok := p.InternalIndex(p.UserIndex(i))
			assert.True(t, ok)
			assert.Equal(t, i, j)
		}
		_, ok := p.InternalIndex(99)
		assert.False(t, ok)
		nd, err := p.Node(30)
		require.NoError(t, err)
		assert.Equal(t, 2., nd.X)
	}
	{ // Elements ordered by id with internal connectivity
		p, err := New(threeNodeInput(t))
		require.NoError(t, err)
		require.Len(t, p.Elements, 2)
		assert.Equal(t, 2, p.Elements[0].ID())
		assert.Equal(t, element.Pipe16, p.Elements[0].Type())
		assert.Equal(t, 5, p.Elements[1].ID())
		assert.Equal(t, element.Beam, p.Elements[1].Type())
		assert.Equal(t, [][3]int{{2, 0, 1}, {5, 1, 2}}, p.Connectivity)
		assert.InDelta(t, 1., p.Elements[1].Length(), 1.e-15)
		dofs, _, _ := p.Elements[1].DOFs()
		assert.Equal(t, 6, dofs[0])
		assert.Equal(t, 17, dofs[11])
	}
	{ // Tables sorted by global dof, repeated loads summed
		p, err := New(threeNodeInput(t))
		require.NoError(t, err)
		assert.Equal(t, []DOFValue{
			{GlobalDOF: 0, LocalDOF: types.UX, Value: 0},
			{GlobalDOF: 1, LocalDOF: types.UY, Value: 1.e-3},
			{GlobalDOF: 5, LocalDOF: types.RZ, Value: 0},
		}, p.PrescribedDOFs)
		assert.Equal(t, []DOFValue{
			{GlobalDOF: 8, LocalDOF: types.UZ, Value: -3},
			{GlobalDOF: 13, LocalDOF: types.UY, Value: complex(150, 5)},
		}, p.Loads)
	}
}

func TestDuplicateNodePair(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	in := threeNodeInput(t)
	in.Connectivity = append(in.Connectivity, [3]int{9, 30, 12})
	in.Materials[9], in.Sections[9], in.ElementTypes[9] = in.Materials[5], in.Sections[5], element.Pipe16
	p, err := New(in)
	require.NoError(t, err)
	assert.Len(t, p.Elements, 3)
	assert.Contains(t, buf.String(), "elements 5 and 9 connect the same nodes 12 and 30")
}

func TestPreProcessorErrors(t *testing.T) {
	var cfgErr *types.ConfigurationError
	{ // Duplicate node id
		in := threeNodeInput(t)
		in.Coordinates = append(in.Coordinates, NodeRow{ID: 12, Y: 4})
		_, err := New(in)
		assert.True(t, errors.As(err, &cfgErr))
	}
	{ // Unknown node in connectivity
		in := threeNodeInput(t)
		in.Connectivity[0][2] = 31
		_, err := New(in)
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "element 5", cfgErr.Field)
	}
	{ // Both element ends on one node
		in := threeNodeInput(t)
		in.Connectivity[1] = [3]int{2, 7, 7}
		_, err := New(in)
		var geoErr *types.GeometryError
		require.True(t, errors.As(err, &geoErr))
		assert.Equal(t, 2, geoErr.Element)
	}
	{ // Missing element properties
		for _, mutate := range []func(in *Input){
			func(in *Input) { delete(in.Materials, 5) },
			func(in *Input) { delete(in.Sections, 2) },
			func(in *Input) { delete(in.ElementTypes, 2) },
		} {
			in := threeNodeInput(t)
			mutate(&in)
			_, err := New(in)
			assert.True(t, errors.As(err, &cfgErr))
		}
	}
	{ // Duplicate element id
		in := threeNodeInput(t)
		in.Connectivity[0][0] = 2
		_, err := New(in)
		assert.True(t, errors.As(err, &cfgErr))
	}
	{ // Bad prescriptions
		for _, pr := range []Prescription{
			{Node: 99, DOFs: []types.DOF{types.UX}, Values: []complex128{0}},
			{Node: 7, DOFs: []types.DOF{types.UX, types.UY}, Values: []complex128{0}},
			{Node: 7, DOFs: []types.DOF{types.UX, types.UX}, Values: []complex128{0, 1}},
			{Node: 7, DOFs: []types.DOF{types.DOF(6)}, Values: []complex128{0}},
		} {
			in := threeNodeInput(t)
			in.PrescribedDOFs = []Prescription{pr}
			_, err := New(in)
			assert.True(t, errors.As(err, &cfgErr), "%v", pr)
		}
	}
	{ // Empty model
		_, err := New(Input{})
		assert.True(t, errors.As(err, &cfgErr))
	}
	{ // Duplicate node pair is accepted
		in := threeNodeInput(t)
		in.Connectivity = append(in.Connectivity, [3]int{9, 30, 12})
		in.Materials[9], in.Sections[9], in.ElementTypes[9] = in.Materials[5], in.Sections[5], element.Pipe16
		p, err := New(in)
		require.NoError(t, err)
		assert.Len(t, p.Elements, 3)
	}
}
