package InputParameters

import (
	"fmt"
	"math"
	"sort"

	"github.com/ghodss/yaml"

	"github.com/notargets/gopulse/element"
	"github.com/notargets/gopulse/preprocessor"
	"github.com/notargets/gopulse/properties"
	"github.com/notargets/gopulse/solution"
	"github.com/notargets/gopulse/types"
)

// Model is the YAML model description. ghodss/yaml converts to JSON first, so the json tags
// are the ones that bind.
type Model struct {
	Title          string                        `json:"Title"`
	Nodes          [][4]float64                  `json:"Nodes"`    // id, x, y, z
	Elements       [][3]int                      `json:"Elements"` // id, node a, node b
	Materials      map[string]MaterialParameters `json:"Materials"`
	Sections       map[string]SectionParameters  `json:"Sections"`
	ElementGroups  []ElementGroup                `json:"ElementGroups"`
	PrescribedDOFs []DOFParameters               `json:"PrescribedDOFs"`
	Loads          []DOFParameters               `json:"Loads"`
	Analysis       AnalysisParameters            `json:"Analysis"`
}

// MaterialParameters takes any two of the elastic constants, an absent key is left nil.
type MaterialParameters struct {
	Density      float64  `json:"Density"`
	YoungModulus *float64 `json:"YoungModulus,omitempty"`
	ShearModulus *float64 `json:"ShearModulus,omitempty"`
	PoissonRatio *float64 `json:"PoissonRatio,omitempty"`
}

func (mp MaterialParameters) String() string {
	show := func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%g", *v)
	}
	return fmt.Sprintf("{Density:%g YoungModulus:%s ShearModulus:%s PoissonRatio:%s}",
		mp.Density, show(mp.YoungModulus), show(mp.ShearModulus), show(mp.PoissonRatio))
}

type SectionParameters struct {
	OuterDiameter float64 `json:"OuterDiameter"`
	InnerDiameter float64 `json:"InnerDiameter"`
	Thickness     float64 `json:"Thickness"`
}

// ElementGroup assigns properties to a set of elements, all elements when Elements is empty.
type ElementGroup struct {
	Elements []int     `json:"Elements"`
	Material string    `json:"Material"`
	Section  string    `json:"Section"`
	Type     string    `json:"Type"` // pipe16 when empty
	Load     []float64 `json:"Load"` // Distributed load per unit length in element axes, up to 6 values
}

type DOFParameters struct {
	Node       int       `json:"Node"`
	DOFs       []string  `json:"DOFs"` // ux, uy, uz, rx, ry, rz or 0..5
	Values     []float64 `json:"Values"`
	ValuesImag []float64 `json:"ValuesImag"` // Optional
}

type DampingParameters struct {
	AlphaV float64 `json:"AlphaV"`
	BetaV  float64 `json:"BetaV"`
	AlphaH float64 `json:"AlphaH"`
	BetaH  float64 `json:"BetaH"`
}

type AnalysisParameters struct {
	Modes                        int               `json:"Modes"`
	Sigma                        float64           `json:"Sigma"`
	FMin                         float64           `json:"FMin"`
	FMax                         float64           `json:"FMax"`
	FStep                        float64           `json:"FStep"`
	Frequencies                  []float64         `json:"Frequencies"`
	Method                       string            `json:"Method"`
	Damping                      DampingParameters `json:"Damping"`
	ParallelDegree               int               `json:"ParallelDegree"`
	AllowPrescribedApproximation bool              `json:"AllowPrescribedApproximation"`
}

func (m *Model) Parse(data []byte) error {
	return yaml.Unmarshal(data, m)
}

func (m *Model) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", m.Title)
	fmt.Printf("[%d]\t\t\t= Nodes\n", len(m.Nodes))
	fmt.Printf("[%d]\t\t\t= Elements\n", len(m.Elements))
	for _, key := range sortedKeys(m.Materials) {
		fmt.Printf("Materials[%s] = %v\n", key, m.Materials[key])
	}
	for _, key := range sortedKeys(m.Sections) {
		fmt.Printf("Sections[%s] = %+v\n", key, m.Sections[key])
	}
	fmt.Printf("[%d]\t\t\t= Prescribed DOF sets\n", len(m.PrescribedDOFs))
	fmt.Printf("[%d]\t\t\t= Load sets\n", len(m.Loads))
	a := m.Analysis
	fmt.Printf("[%d]\t\t\t= Modes\n", a.Modes)
	if len(a.Frequencies) != 0 {
		fmt.Printf("%v\t= Frequencies\n", a.Frequencies)
	} else {
		fmt.Printf("[%g:%g:%g]\t= Frequency Sweep\n", a.FMin, a.FStep, a.FMax)
	}
	if a.Method != "" {
		fmt.Printf("[%s]\t\t\t= Method\n", a.Method)
	}
	fmt.Printf("%+v\t= Damping\n", a.Damping)
}

func sortedKeys[T any](m map[string]T) (keys []string) {
	keys = make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// Input converts the model into the preprocessor's plain data, validating materials and
// sections along the way.
func (m *Model) Input() (in preprocessor.Input, err error) {
	var (
		materials = make(map[string]*properties.Material, len(m.Materials))
		sections  = make(map[string]*properties.CrossSection, len(m.Sections))
		assigned  = make(map[int]int)
	)
	for name, mp := range m.Materials {
		if materials[name], err = properties.NewMaterial(properties.MaterialConfig{
			Name:         name,
			Density:      mp.Density,
			YoungModulus: mp.YoungModulus,
			ShearModulus: mp.ShearModulus,
			PoissonRatio: mp.PoissonRatio,
		}); err != nil {
			err = fmt.Errorf("material %s: %w", name, err)
			return
		}
	}
	for name, sp := range m.Sections {
		if sections[name], err = properties.NewCrossSection(properties.CrossSectionConfig{
			OuterDiameter: sp.OuterDiameter,
			InnerDiameter: sp.InnerDiameter,
			Thickness:     sp.Thickness,
		}); err != nil {
			err = fmt.Errorf("section %s: %w", name, err)
			return
		}
	}
	in = preprocessor.Input{
		Materials:        make(map[int]*properties.Material),
		Sections:         make(map[int]*properties.CrossSection),
		ElementTypes:     make(map[int]element.Type),
		DistributedLoads: make(map[int][types.DOFsPerNode]float64),
	}
	for n, row := range m.Nodes {
		if row[0] != math.Trunc(row[0]) || math.Abs(row[0]) > math.MaxInt32 {
			err = &types.ConfigurationError{Field: fmt.Sprintf("node row %d", n),
				Reason: fmt.Sprintf("node id %g is not an integer", row[0])}
			return
		}
		in.Coordinates = append(in.Coordinates,
			preprocessor.NodeRow{ID: int(row[0]), X: row[1], Y: row[2], Z: row[3]})
	}
	in.Connectivity = append(in.Connectivity, m.Elements...)
	for g, group := range m.ElementGroups {
		field := fmt.Sprintf("element group %d", g)
		var (
			et   = element.Pipe16
			load [types.DOFsPerNode]float64
		)
		mat, ok := materials[group.Material]
		if !ok {
			err = &types.ConfigurationError{Field: field, Reason: fmt.Sprintf("unknown material %q", group.Material)}
			return
		}
		sec, ok := sections[group.Section]
		if !ok {
			err = &types.ConfigurationError{Field: field, Reason: fmt.Sprintf("unknown section %q", group.Section)}
			return
		}
		if group.Type != "" {
			if et, err = element.NewType(group.Type); err != nil {
				return
			}
		}
		if len(group.Load) > types.DOFsPerNode {
			err = &types.ConfigurationError{Field: field, Reason: fmt.Sprintf("%d load components", len(group.Load))}
			return
		}
		copy(load[:], group.Load)
		ids := group.Elements
		if len(ids) == 0 {
			for _, row := range m.Elements {
				ids = append(ids, row[0])
			}
		}
		for _, id := range ids {
			if prev, dup := assigned[id]; dup {
				err = &types.ConfigurationError{Field: field,
					Reason: fmt.Sprintf("element %d already assigned by group %d", id, prev)}
				return
			}
			assigned[id] = g
			in.Materials[id], in.Sections[id], in.ElementTypes[id] = mat, sec, et
			if load != [types.DOFsPerNode]float64{} {
				in.DistributedLoads[id] = load
			}
		}
	}
	if in.PrescribedDOFs, err = prescriptions(m.PrescribedDOFs, "prescribed dofs"); err != nil {
		return
	}
	in.Loads, err = prescriptions(m.Loads, "loads")
	return
}

func prescriptions(sets []DOFParameters, field string) (pres []preprocessor.Prescription, err error) {
	for _, set := range sets {
		if len(set.ValuesImag) != 0 && len(set.ValuesImag) != len(set.Values) {
			err = &types.ConfigurationError{Field: field,
				Reason: fmt.Sprintf("node %d has %d values and %d imaginary values", set.Node, len(set.Values), len(set.ValuesImag))}
			return
		}
		pr := preprocessor.Prescription{Node: set.Node}
		for _, token := range set.DOFs {
			var d types.DOF
			if d, err = types.NewDOF(token); err != nil {
				return
			}
			pr.DOFs = append(pr.DOFs, d)
		}
		for i, v := range set.Values {
			var im float64
			if len(set.ValuesImag) != 0 {
				im = set.ValuesImag[i]
			}
			pr.Values = append(pr.Values, complex(v, im))
		}
		pres = append(pres, pr)
	}
	return
}

func (a AnalysisParameters) ModalConfig() solution.ModalConfig {
	return solution.ModalConfig{Modes: a.Modes, Sigma: a.Sigma}
}

func (a AnalysisParameters) HarmonicConfig() (cfg solution.HarmonicConfig, err error) {
	cfg = solution.HarmonicConfig{
		FMin:        a.FMin,
		FMax:        a.FMax,
		FStep:       a.FStep,
		Frequencies: a.Frequencies,
		Damping: solution.Damping{
			AlphaV: a.Damping.AlphaV,
			BetaV:  a.Damping.BetaV,
			AlphaH: a.Damping.AlphaH,
			BetaH:  a.Damping.BetaH,
		},
		Modes:                        a.Modes,
		Sigma:                        a.Sigma,
		ParallelDegree:               a.ParallelDegree,
		AllowPrescribedApproximation: a.AllowPrescribedApproximation,
	}
	if a.Method != "" {
		cfg.Method, err = solution.NewMethod(a.Method)
	}
	return
}
