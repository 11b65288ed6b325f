package element

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/types"
	"github.com/notargets/gopulse/utils"
)

// DirectionCosines returns the 3x3 matrix whose rows are the element axes (x along the
// element) expressed in global coordinates. A vertical element has no horizontal
// projection, so its local y axis is taken as global Y and the remaining axes follow
// the sign of Δz.
func DirectionCosines(id int, a, b *Node) (c [3][3]float64, L float64, err error) {
	var (
		dx, dy, dz = b.X - a.X, b.Y - a.Y, b.Z - a.Z
	)
	L = math.Sqrt(dx*dx + dy*dy + dz*dz)
	if L <= utils.NODETOL || math.IsNaN(L) {
		err = &types.GeometryError{Element: id, Reason: "zero length"}
		return
	}
	Lxy := math.Sqrt(dx*dx + dy*dy)
	if Lxy <= utils.NODETOL*L {
		s := math.Copysign(1, dz)
		c = [3][3]float64{
			{0, 0, s},
			{0, 1, 0},
			{-s, 0, 0},
		}
		return
	}
	c = [3][3]float64{
		{dx / L, dy / L, dz / L},
		{-dy / Lxy, dx / Lxy, 0},
		{-dx * dz / (L * Lxy), -dy * dz / (L * Lxy), Lxy / L},
	}
	return
}

// RotationMatrix replicates the direction cosine block into the four diagonal blocks of
// the 12x12 local to global transformation.
func RotationMatrix(c [3][3]float64) (R *mat.Dense) {
	R = mat.NewDense(12, 12, nil)
	for k := 0; k < 4; k++ {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				R.Set(3*k+i, 3*k+j, c[i][j])
			}
		}
	}
	return
}
