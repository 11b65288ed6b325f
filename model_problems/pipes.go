package model_problems

import (
	"fmt"

	"github.com/notargets/gopulse/element"
	"github.com/notargets/gopulse/preprocessor"
	"github.com/notargets/gopulse/properties"
	"github.com/notargets/gopulse/types"
)

// Steel and the 50 x 40 mm tube are the reference properties used throughout the model problems.
var (
	SteelConfig = properties.MaterialConfig{Name: "steel", Density: 7860, YoungModulus: properties.Given(210.e9), PoissonRatio: properties.Given(0.3)}
	TubeConfig  = properties.CrossSectionConfig{OuterDiameter: 0.05, InnerDiameter: 0.04}
)

var allDOFs = []types.DOF{types.UX, types.UY, types.UZ, types.RX, types.RY, types.RZ}

// Clamp prescribes all six DOFs of a node to zero.
func Clamp(node int) preprocessor.Prescription {
	return preprocessor.Prescription{Node: node, DOFs: allDOFs, Values: make([]complex128, len(allDOFs))}
}

// Line builds nEl elements of type et along the X axis from 0 to length, with node ids 1..nEl+1
// and element ids 1..nEl. No boundary conditions or loads are set.
func Line(nEl int, length float64, et element.Type) (in preprocessor.Input, err error) {
	if nEl < 1 {
		err = fmt.Errorf("line needs at least one element, have %d", nEl)
		return
	}
	var (
		dx = length / float64(nEl)
	)
	in = newInput()
	for i := 0; i <= nEl; i++ {
		in.Coordinates = append(in.Coordinates, preprocessor.NodeRow{ID: i + 1, X: float64(i) * dx})
	}
	for k := 1; k <= nEl; k++ {
		in.Connectivity = append(in.Connectivity, [3]int{k, k, k + 1})
	}
	err = assignProperties(&in, et)
	return
}

// Cantilever is a line clamped at node 1 with a transverse tip load P in Y.
func Cantilever(nEl int, length float64, et element.Type, P complex128) (in preprocessor.Input, err error) {
	if in, err = Line(nEl, length, et); err != nil {
		return
	}
	in.PrescribedDOFs = []preprocessor.Prescription{Clamp(1)}
	in.Loads = []preprocessor.Prescription{
		{Node: nEl + 1, DOFs: []types.DOF{types.UY}, Values: []complex128{P}},
	}
	return
}

// ClampedClamped is a line with both end nodes fully clamped and a unit Y load at the mid node.
func ClampedClamped(nEl int, length float64, et element.Type) (in preprocessor.Input, err error) {
	if in, err = Line(nEl, length, et); err != nil {
		return
	}
	in.PrescribedDOFs = []preprocessor.Prescription{Clamp(1), Clamp(nEl + 1)}
	in.Loads = []preprocessor.Prescription{
		{Node: nEl/2 + 1, DOFs: []types.DOF{types.UY}, Values: []complex128{1}},
	}
	return
}

// LShape is a pipe running nEl elements along X, then nEl elements up the Z axis, clamped at
// the start and loaded out of plane at the free end.
func LShape(nEl int, leg float64, et element.Type) (in preprocessor.Input, err error) {
	if nEl < 1 {
		err = fmt.Errorf("l-shape needs at least one element per leg, have %d", nEl)
		return
	}
	var (
		dx = leg / float64(nEl)
		id = 1
	)
	in = newInput()
	for i := 0; i <= nEl; i++ {
		in.Coordinates = append(in.Coordinates, preprocessor.NodeRow{ID: id, X: float64(i) * dx})
		id++
	}
	for i := 1; i <= nEl; i++ {
		in.Coordinates = append(in.Coordinates, preprocessor.NodeRow{ID: id, X: leg, Z: float64(i) * dx})
		id++
	}
	for k := 1; k < id-1; k++ {
		in.Connectivity = append(in.Connectivity, [3]int{k, k, k + 1})
	}
	if err = assignProperties(&in, et); err != nil {
		return
	}
	in.PrescribedDOFs = []preprocessor.Prescription{Clamp(1)}
	in.Loads = []preprocessor.Prescription{
		{Node: id - 1, DOFs: []types.DOF{types.UY}, Values: []complex128{1}},
	}
	return
}

func newInput() preprocessor.Input {
	return preprocessor.Input{
		Materials:    make(map[int]*properties.Material),
		Sections:     make(map[int]*properties.CrossSection),
		ElementTypes: make(map[int]element.Type),
	}
}

// assignProperties gives every element in the connectivity steel, the reference tube and type et.
func assignProperties(in *preprocessor.Input, et element.Type) (err error) {
	var (
		m  *properties.Material
		cs *properties.CrossSection
	)
	if m, err = properties.NewMaterial(SteelConfig); err != nil {
		return
	}
	if cs, err = properties.NewCrossSection(TubeConfig); err != nil {
		return
	}
	for _, row := range in.Connectivity {
		in.Materials[row[0]] = m
		in.Sections[row[0]] = cs
		in.ElementTypes[row[0]] = et
	}
	return
}

// ModelNames lists the problems available to ByName.
var ModelNames = []string{"cantilever", "clamped", "lshape"}

// ByName builds a named model problem from Pipe16 elements, 2 m long per leg.
func ByName(name string, nEl int) (in preprocessor.Input, err error) {
	switch name {
	case "cantilever":
		return Cantilever(nEl, 2, element.Pipe16, 1000)
	case "clamped":
		return ClampedClamped(nEl, 2, element.Pipe16)
	case "lshape":
		return LShape(nEl, 2, element.Pipe16)
	}
	err = &types.ConfigurationError{Field: "model", Reason: fmt.Sprintf("unknown model problem %q, have %v", name, ModelNames)}
	return
}
