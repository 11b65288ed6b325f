package element

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/utils"
)

// BeamElement is the closed form Euler-Bernoulli beam with cubic bending interpolation.
// Shear deformation and rotary inertia of bending are neglected, which makes it a
// reference for slender pipes.
type BeamElement struct {
	*base
}

func (e *BeamElement) Type() Type { return Beam }

func (e *BeamElement) StiffnessLocal() (K *mat.Dense) {
	var (
		E   = e.material.YoungModulus
		G   = e.material.ShearModulus
		EA  = E * e.section.Area
		EI  = E * e.section.SecondMomentOfArea
		GJ  = G * e.section.PolarMoment
		l   = e.length
		ll  = l * l
		lll = ll * l
	)
	K = mat.NewDense(NDOF, NDOF, nil)
	// Upper triangle only
	K.Set(0, 0, EA/l)
	K.Set(0, 6, -EA/l)
	K.Set(6, 6, EA/l)

	K.Set(1, 1, 12*EI/lll)
	K.Set(1, 5, 6*EI/ll)
	K.Set(1, 7, -12*EI/lll)
	K.Set(1, 11, 6*EI/ll)

	K.Set(2, 2, 12*EI/lll)
	K.Set(2, 4, -6*EI/ll)
	K.Set(2, 8, -12*EI/lll)
	K.Set(2, 10, -6*EI/ll)

	K.Set(3, 3, GJ/l)
	K.Set(3, 9, -GJ/l)
	K.Set(9, 9, GJ/l)

	K.Set(4, 4, 4*EI/l)
	K.Set(4, 8, 6*EI/ll)
	K.Set(4, 10, 2*EI/l)

	K.Set(5, 5, 4*EI/l)
	K.Set(5, 7, -6*EI/ll)
	K.Set(5, 11, 2*EI/l)

	K.Set(7, 7, 12*EI/lll)
	K.Set(7, 11, -6*EI/ll)

	K.Set(8, 8, 12*EI/lll)
	K.Set(8, 10, 6*EI/ll)

	K.Set(10, 10, 4*EI/l)
	K.Set(11, 11, 4*EI/l)
	utils.SymmetrizeUpper(K)
	return
}

func (e *BeamElement) MassLocal() (M *mat.Dense) {
	var (
		rho = e.material.Density
		l   = e.length
		ll  = l * l
		m   = rho * e.section.Area * l / 420
		mt  = rho * e.section.PolarMoment * l / 6
	)
	M = mat.NewDense(NDOF, NDOF, nil)
	// Upper triangle only
	M.Set(0, 0, 140*m)
	M.Set(0, 6, 70*m)
	M.Set(6, 6, 140*m)

	M.Set(3, 3, 2*mt)
	M.Set(3, 9, mt)
	M.Set(9, 9, 2*mt)

	M.Set(1, 1, 156*m)
	M.Set(1, 5, 22*l*m)
	M.Set(1, 7, 54*m)
	M.Set(1, 11, -13*l*m)
	M.Set(5, 5, 4*ll*m)
	M.Set(5, 7, 13*l*m)
	M.Set(5, 11, -3*ll*m)
	M.Set(7, 7, 156*m)
	M.Set(7, 11, -22*l*m)
	M.Set(11, 11, 4*ll*m)

	M.Set(2, 2, 156*m)
	M.Set(2, 4, -22*l*m)
	M.Set(2, 8, 54*m)
	M.Set(2, 10, 13*l*m)
	M.Set(4, 4, 4*ll*m)
	M.Set(4, 8, -13*l*m)
	M.Set(4, 10, -3*ll*m)
	M.Set(8, 8, 156*m)
	M.Set(8, 10, 22*l*m)
	M.Set(10, 10, 4*ll*m)
	utils.SymmetrizeUpper(M)
	return
}

// LoadLocal uses the consistent nodal forces and end moments of a uniform transverse load;
// axial, torsional and distributed moment components are split equally between the nodes.
func (e *BeamElement) LoadLocal() (F *mat.VecDense) {
	var (
		q      = e.load
		l      = e.length
		ll     = l * l
		qx, qy = q[0], q[1]
		qz, mx = q[2], q[3]
		my, mz = q[4], q[5]
	)
	F = mat.NewVecDense(NDOF, []float64{
		qx * l / 2, qy * l / 2, qz * l / 2, mx * l / 2, -ll*qz/12 + my*l/2, ll*qy/12 + mz*l/2,
		qx * l / 2, qy * l / 2, qz * l / 2, mx * l / 2, ll*qz/12 + my*l/2, -ll*qy/12 + mz*l/2,
	})
	return
}

func (e *BeamElement) StiffnessGlobal() *mat.Dense { return e.toGlobal(e.StiffnessLocal()) }
func (e *BeamElement) MassGlobal() *mat.Dense      { return e.toGlobal(e.MassLocal()) }
func (e *BeamElement) LoadGlobal() *mat.VecDense   { return e.loadToGlobal(e.LoadLocal()) }
