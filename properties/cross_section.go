package properties

import (
	"fmt"
	"math"

	"github.com/notargets/gopulse/types"
)

// CrossSectionConfig describes a tube. Exactly one of InnerDiameter or Thickness is
// needed; if both are given they must agree.
type CrossSectionConfig struct {
	OuterDiameter float64
	InnerDiameter float64
	Thickness     float64
}

type CrossSection struct {
	OuterDiameter      float64
	InnerDiameter      float64
	Thickness          float64
	Area               float64
	SecondMomentOfArea float64 // Equal about both bending axes
	PolarMoment        float64
	ShearFormFactor    float64
}

func NewCrossSection(cfg CrossSectionConfig) (cs *CrossSection, err error) {
	var (
		De = cfg.OuterDiameter
		Di = cfg.InnerDiameter
	)
	fail := func(reason string) error {
		return &types.ConfigurationError{Field: "cross section", Reason: reason}
	}
	if De <= 0 {
		err = fail(fmt.Sprintf("outer diameter must be positive, have %g", De))
		return
	}
	switch {
	case cfg.InnerDiameter == 0 && cfg.Thickness == 0:
		err = fail("one of inner diameter or thickness is required")
		return
	case cfg.Thickness != 0:
		if cfg.Thickness < 0 {
			err = fail(fmt.Sprintf("thickness must be positive, have %g", cfg.Thickness))
			return
		}
		Di = De - 2*cfg.Thickness
		if cfg.InnerDiameter != 0 && math.Abs(cfg.InnerDiameter-Di) > 1.e-9*De {
			err = fail(fmt.Sprintf("inner diameter %g and thickness %g disagree", cfg.InnerDiameter, cfg.Thickness))
			return
		}
	}
	if Di < 0 || Di >= De {
		err = fail(fmt.Sprintf("inner diameter %g must be in [0, %g)", Di, De))
		return
	}
	De2, Di2 := De*De, Di*Di
	cs = &CrossSection{
		OuterDiameter:      De,
		InnerDiameter:      Di,
		Thickness:          (De - Di) / 2,
		Area:               math.Pi / 4 * (De2 - Di2),
		SecondMomentOfArea: math.Pi / 64 * (De2*De2 - Di2*Di2),
		ShearFormFactor:    TubeShearFormFactor(Di / De),
	}
	cs.PolarMoment = 2 * cs.SecondMomentOfArea
	return
}

// TubeShearFormFactor is the closed form approximation ks = 6/(7 + 20(α/(1+α²))²)
// with α the inner to outer diameter ratio.
func TubeShearFormFactor(alpha float64) float64 {
	r := alpha / (1 + alpha*alpha)
	return 6 / (7 + 20*r*r)
}

// ShearArea is the shear corrected area ks*A.
func (cs *CrossSection) ShearArea() float64 {
	return cs.ShearFormFactor * cs.Area
}
