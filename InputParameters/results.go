package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/assembly"
	"github.com/notargets/gopulse/postprocessor"
	"github.com/notargets/gopulse/preprocessor"
	"github.com/notargets/gopulse/solution"
	"github.com/notargets/gopulse/types"
)

// Complex values are written as [re, im] pairs, encoding/json has no complex type.
type Phasor [2]float64

func NewPhasor(c complex128) Phasor { return Phasor{real(c), imag(c)} }

type NodeShape struct {
	Node        int        `json:"Node"`
	Translation [3]float64 `json:"Translation"`
	Rotation    [3]float64 `json:"Rotation"`
}

type NodeResponse struct {
	Node        int       `json:"Node"`
	Translation [3]Phasor `json:"Translation"`
	Rotation    [3]Phasor `json:"Rotation"`
}

type ModeOutput struct {
	Frequency float64     `json:"Frequency"`
	Nodes     []NodeShape `json:"Nodes"`
}

type ModalOutput struct {
	Title string       `json:"Title"`
	Sigma float64      `json:"Sigma"`
	Modes []ModeOutput `json:"Modes"`
}

type FrequencyOutput struct {
	Frequency float64        `json:"Frequency"`
	Error     string         `json:"Error,omitempty"`
	Nodes     []NodeResponse `json:"Nodes,omitempty"`
}

type ReactionOutput struct {
	Node   int      `json:"Node"`
	DOF    string   `json:"DOF"`
	Values []Phasor `json:"Values"` // One per frequency
}

type HarmonicOutput struct {
	Title       string            `json:"Title"`
	Method      string            `json:"Method"`
	Frequencies []FrequencyOutput `json:"Frequencies"`
	Reactions   []ReactionOutput  `json:"Reactions,omitempty"`
}

func NewModalOutput(title string, pre *preprocessor.PreProcessor, sys *assembly.System,
	res *solution.ModalResult) (out *ModalOutput, err error) {
	out = &ModalOutput{Title: title, Sigma: res.Sigma}
	full := postprocessor.RecoverModes(sys, res.Shapes)
	for j, f := range res.Frequencies {
		var nodal []postprocessor.NodalResult[float64]
		if nodal, err = postprocessor.GroupByNode(pre, postprocessor.ModeColumn(full, j)); err != nil {
			return
		}
		mode := ModeOutput{Frequency: f}
		for _, nr := range nodal {
			mode.Nodes = append(mode.Nodes, NodeShape{Node: nr.NodeID, Translation: nr.Translation, Rotation: nr.Rotation})
		}
		out.Modes = append(out.Modes, mode)
	}
	return
}

// NewHarmonicOutput writes the nodal response per frequency, failed frequencies carry their
// error instead of nodes. Reactions are included when the model has prescribed DOFs.
func NewHarmonicOutput(title string, pre *preprocessor.PreProcessor, sys *assembly.System,
	res *solution.HarmonicResult) (out *HarmonicOutput, err error) {
	var (
		full   = postprocessor.RecoverResponse(sys, res.Response)
		failed = make(map[float64]string, len(res.Failures))
	)
	out = &HarmonicOutput{Title: title, Method: res.Method.String()}
	for _, fe := range res.Failures {
		failed[fe.Frequency] = fe.Error()
	}
	for k, f := range res.Frequencies {
		fo := FrequencyOutput{Frequency: f}
		if res.Failed(k) {
			fo.Error = failed[f]
			out.Frequencies = append(out.Frequencies, fo)
			continue
		}
		var nodal []postprocessor.NodalResult[complex128]
		if nodal, err = postprocessor.GroupByNode(pre, postprocessor.ResponseColumn(full, k)); err != nil {
			return
		}
		for _, nr := range nodal {
			resp := NodeResponse{Node: nr.NodeID}
			for d := 0; d < 3; d++ {
				resp.Translation[d] = NewPhasor(nr.Translation[d])
				resp.Rotation[d] = NewPhasor(nr.Rotation[d])
			}
			fo.Nodes = append(fo.Nodes, resp)
		}
		out.Frequencies = append(out.Frequencies, fo)
	}
	if !sys.HasPrescribed() {
		return
	}
	var R *mat.CDense
	if R, err = postprocessor.LoadReactions(sys, res.Frequencies, full, res.Damping); err != nil {
		return
	}
	for _, row := range pre.PrescribedDOFs {
		p := sys.PrescribedDOFs.Position(row.GlobalDOF)
		if p < 0 {
			err = fmt.Errorf("reactions: dof %d is not prescribed in the assembled system", row.GlobalDOF)
			return
		}
		ro := ReactionOutput{
			Node: pre.UserIndex(row.GlobalDOF / types.DOFsPerNode),
			DOF:  row.LocalDOF.String(),
		}
		for k := range res.Frequencies {
			if res.Failed(k) {
				// NaN does not encode, the failure is reported with the frequency
				ro.Values = append(ro.Values, Phasor{})
				continue
			}
			ro.Values = append(ro.Values, NewPhasor(R.At(p, k)))
		}
		out.Reactions = append(out.Reactions, ro)
	}
	return
}

func Marshal(out interface{}) ([]byte, error) {
	return yaml.Marshal(out)
}
