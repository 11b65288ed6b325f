package properties

import (
	"fmt"
	"math"

	"github.com/notargets/gopulse/types"
)

// consistencyTol bounds the relative mismatch accepted when all three elastic constants are supplied.
const consistencyTol = 1.e-6

// MaterialConfig holds the user supplied material constants. A nil elastic constant is not
// supplied, so a Poisson ratio of zero can be given explicitly.
type MaterialConfig struct {
	Name         string
	Density      float64
	YoungModulus *float64
	ShearModulus *float64
	PoissonRatio *float64
}

// Given marks a supplied constant in a MaterialConfig.
func Given(v float64) *float64 { return &v }

type Material struct {
	Name         string
	Density      float64
	YoungModulus float64
	ShearModulus float64
	PoissonRatio float64
}

// NewMaterial derives the missing elastic constant from the two supplied ones:
//
//	E = 2G(1+ν),  G = E/(2(1+ν)),  ν = E/(2G) - 1
func NewMaterial(cfg MaterialConfig) (m *Material, err error) {
	var (
		E, G, nu          float64
		hasE, hasG, hasNu bool
		given             int
	)
	if hasE = cfg.YoungModulus != nil; hasE {
		E = *cfg.YoungModulus
	}
	if hasG = cfg.ShearModulus != nil; hasG {
		G = *cfg.ShearModulus
	}
	if hasNu = cfg.PoissonRatio != nil; hasNu {
		nu = *cfg.PoissonRatio
	}
	for _, has := range []bool{hasE, hasG, hasNu} {
		if has {
			given++
		}
	}
	if given < 2 {
		err = &types.ConfigurationError{Field: "material " + cfg.Name,
			Reason: "at least two of young modulus, shear modulus and poisson ratio are required"}
		return
	}
	if cfg.Density <= 0 || math.IsNaN(cfg.Density) {
		err = &types.ConfigurationError{Field: "material " + cfg.Name,
			Reason: fmt.Sprintf("density must be positive, have %g", cfg.Density)}
		return
	}
	if (hasE && !(E > 0)) || (hasG && !(G > 0)) {
		err = &types.ConfigurationError{Field: "material " + cfg.Name, Reason: "elastic moduli must be positive"}
		return
	}
	switch {
	case hasE && hasG && hasNu:
		if math.Abs(E-2*G*(1+nu)) > consistencyTol*E {
			err = &types.ConfigurationError{Field: "material " + cfg.Name,
				Reason: fmt.Sprintf("inconsistent elastic constants E = %g, G = %g, nu = %g", E, G, nu)}
			return
		}
	case hasE && hasG:
		nu = E/(2*G) - 1
	case hasE && hasNu:
		G = E / (2 * (1 + nu))
	case hasG && hasNu:
		E = 2 * G * (1 + nu)
	}
	if nu <= -1 || nu >= 0.5 {
		err = &types.ConfigurationError{Field: "material " + cfg.Name,
			Reason: fmt.Sprintf("poisson ratio %g outside (-1, 0.5)", nu)}
		return
	}
	m = &Material{
		Name:         cfg.Name,
		Density:      cfg.Density,
		YoungModulus: E,
		ShearModulus: G,
		PoissonRatio: nu,
	}
	return
}

func (m *Material) String() string {
	return fmt.Sprintf("%s: rho = %g, E = %g, G = %g, nu = %g",
		m.Name, m.Density, m.YoungModulus, m.ShearModulus, m.PoissonRatio)
}
