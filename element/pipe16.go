package element

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/types"
)

/*
Pipe16Element is a 2 node Timoshenko pipe with six DOFs per node, ordered
(ux, uy, uz, rx, ry, rz) in element axes, x along the element.

	curvature    κy = dθy/dx          κz = dθz/dx
	shear        γxy = duy/dx - θz    γxz = duz/dx + θy
	axial        εx = dux/dx
	torsion      φ' = dθx/dx

Stiffness uses the one point rule for all four strain families, which removes shear
locking of the linear interpolation. Mass and load use the two point rule.
*/
type Pipe16Element struct {
	*base
}

func (e *Pipe16Element) Type() Type { return Pipe16 }

// strainOperators returns the bending, shear, axial and torsion operators at ξ.
func (e *Pipe16Element) strainOperators(xi float64) (Bb, Bs, Ba, Bt *mat.Dense) {
	var (
		phi, dphi = ShapeFunctions(xi)
		invJ      = 2 / e.length
	)
	Bb = mat.NewDense(2, NDOF, nil)
	Bs = mat.NewDense(2, NDOF, nil)
	Ba = mat.NewDense(1, NDOF, nil)
	Bt = mat.NewDense(1, NDOF, nil)
	for a := 0; a < 2; a++ {
		var (
			o  = a * types.DOFsPerNode
			dN = dphi[a] * invJ
			N  = phi[a]
		)
		Bb.Set(0, o+int(types.RY), dN)
		Bb.Set(1, o+int(types.RZ), dN)

		Bs.Set(0, o+int(types.UY), dN)
		Bs.Set(0, o+int(types.RZ), -N)
		Bs.Set(1, o+int(types.UZ), dN)
		Bs.Set(1, o+int(types.RY), N)

		Ba.Set(0, o+int(types.UX), dN)
		Bt.Set(0, o+int(types.RX), dN)
	}
	return
}

// interpolation returns the 6x12 matrix mapping element DOFs to the displacement and
// rotation field at ξ.
func interpolation(xi float64) (N *mat.Dense) {
	phi, _ := ShapeFunctions(xi)
	N = mat.NewDense(types.DOFsPerNode, NDOF, nil)
	for a := 0; a < 2; a++ {
		for d := 0; d < types.DOFsPerNode; d++ {
			N.Set(d, a*types.DOFsPerNode+d, phi[a])
		}
	}
	return
}

func (e *Pipe16Element) StiffnessLocal() (K *mat.Dense) {
	var (
		E    = e.material.YoungModulus
		G    = e.material.ShearModulus
		A    = e.section.Area
		I    = e.section.SecondMomentOfArea
		J    = e.section.PolarMoment
		As   = e.section.ShearArea()
		detJ = e.length / 2
		Db   = mat.NewDense(2, 2, []float64{E * I, 0, 0, E * I})
		Ds   = mat.NewDense(2, 2, []float64{G * As, 0, 0, G * As})
		Da   = mat.NewDense(1, 1, []float64{E * A})
		Dt   = mat.NewDense(1, 1, []float64{G * J})
	)
	K = mat.NewDense(NDOF, NDOF, nil)
	for i, xi := range reducedRule.Points {
		w := reducedRule.Weights[i] * detJ
		Bb, Bs, Ba, Bt := e.strainOperators(xi)
		addBtDB(K, Bb, Db, w)
		addBtDB(K, Bs, Ds, w)
		addBtDB(K, Ba, Da, w)
		addBtDB(K, Bt, Dt, w)
	}
	return
}

func (e *Pipe16Element) MassLocal() (M *mat.Dense) {
	var (
		rho  = e.material.Density
		A    = e.section.Area
		I    = e.section.SecondMomentOfArea
		J    = e.section.PolarMoment
		detJ = e.length / 2
		// Translational ρA·I₃ and rotary ρ·diag(J, I, I) inertia
		Dm = mat.NewDense(types.DOFsPerNode, types.DOFsPerNode, nil)
	)
	for d, val := range []float64{rho * A, rho * A, rho * A, rho * J, rho * I, rho * I} {
		Dm.Set(d, d, val)
	}
	M = mat.NewDense(NDOF, NDOF, nil)
	for i, xi := range fullRule.Points {
		addBtDB(M, interpolation(xi), Dm, fullRule.Weights[i]*detJ)
	}
	return
}

func (e *Pipe16Element) LoadLocal() (F *mat.VecDense) {
	var (
		detJ = e.length / 2
		q    = mat.NewVecDense(types.DOFsPerNode, e.load[:])
		tmp  = mat.NewVecDense(NDOF, nil)
	)
	F = mat.NewVecDense(NDOF, nil)
	for i, xi := range fullRule.Points {
		tmp.MulVec(interpolation(xi).T(), q)
		F.AddScaledVec(F, fullRule.Weights[i]*detJ, tmp)
	}
	return
}

func (e *Pipe16Element) StiffnessGlobal() *mat.Dense { return e.toGlobal(e.StiffnessLocal()) }
func (e *Pipe16Element) MassGlobal() *mat.Dense      { return e.toGlobal(e.MassLocal()) }
func (e *Pipe16Element) LoadGlobal() *mat.VecDense   { return e.loadToGlobal(e.LoadLocal()) }
