package preprocessor

import (
	"fmt"
	"log"
	"sort"

	"github.com/notargets/gopulse/element"
	"github.com/notargets/gopulse/properties"
	"github.com/notargets/gopulse/types"
)

type NodeRow struct {
	ID      int
	X, Y, Z float64
}

// Prescription assigns values to local DOFs of a node, used for both prescribed
// displacements and external nodal loads.
type Prescription struct {
	Node   int
	DOFs   []types.DOF
	Values []complex128
}

// Input is the plain data supplied by the external model description. Element
// properties are keyed by element id.
type Input struct {
	Coordinates      []NodeRow
	Connectivity     [][3]int // element id, user node a, user node b
	Materials        map[int]*properties.Material
	Sections         map[int]*properties.CrossSection
	ElementTypes     map[int]element.Type
	DistributedLoads map[int][types.DOFsPerNode]float64 // Optional
	PrescribedDOFs   []Prescription
	Loads            []Prescription
}

// DOFValue is one row of a prescribed DOF or load table.
type DOFValue struct {
	GlobalDOF int
	LocalDOF  types.DOF
	Value     complex128
}

type PreProcessor struct {
	Nodes          []*element.Node   // Indexed by internal index
	Elements       []element.Element // Ascending element id
	Connectivity   [][3]int          // element id, internal node a, internal node b
	PrescribedDOFs []DOFValue        // Ascending GlobalDOF
	Loads          []DOFValue        // Ascending GlobalDOF
	userToInternal map[int]int
}

func New(in Input) (p *PreProcessor, err error) {
	p = &PreProcessor{}
	if err = p.mapNodes(in.Coordinates); err != nil {
		return nil, err
	}
	if err = p.buildElements(in); err != nil {
		return nil, err
	}
	if p.PrescribedDOFs, err = p.dofTable(in.PrescribedDOFs, "prescribed dof", false); err != nil {
		return nil, err
	}
	if p.Loads, err = p.dofTable(in.Loads, "load", true); err != nil {
		return nil, err
	}
	return
}

// mapNodes assigns internal indices in ascending user id order.
func (p *PreProcessor) mapNodes(rows []NodeRow) (err error) {
	if len(rows) == 0 {
		return &types.ConfigurationError{Field: "nodal coordinates", Reason: "no nodes supplied"}
	}
	sorted := make([]NodeRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	p.userToInternal = make(map[int]int, len(rows))
	p.Nodes = make([]*element.Node, len(rows))
	for internal, row := range sorted {
		if _, dup := p.userToInternal[row.ID]; dup {
			return &types.ConfigurationError{Field: "nodal coordinates",
				Reason: fmt.Sprintf("duplicate node id %d", row.ID)}
		}
		p.userToInternal[row.ID] = internal
		p.Nodes[internal] = element.NewNode(row.ID, internal, row.X, row.Y, row.Z)
	}
	return
}

func (p *PreProcessor) buildElements(in Input) (err error) {
	var (
		conn  = make([][3]int, len(in.Connectivity))
		seen  = make(map[int]bool, len(in.Connectivity))
		pairs = make(map[types.NodePairKey]int, len(in.Connectivity))
	)
	if len(conn) == 0 {
		return &types.ConfigurationError{Field: "connectivity", Reason: "no elements supplied"}
	}
	copy(conn, in.Connectivity)
	sort.SliceStable(conn, func(i, j int) bool { return conn[i][0] < conn[j][0] })
	p.Connectivity = make([][3]int, len(conn))
	p.Elements = make([]element.Element, len(conn))
	for k, row := range conn {
		id := row[0]
		field := fmt.Sprintf("element %d", id)
		if seen[id] {
			return &types.ConfigurationError{Field: field, Reason: "duplicate element id"}
		}
		seen[id] = true
		var nodes [2]*element.Node
		for m := 0; m < 2; m++ {
			if nodes[m], err = p.Node(row[1+m]); err != nil {
				return &types.ConfigurationError{Field: field, Reason: "connectivity references unknown node", Err: err}
			}
		}
		if nodes[0] == nodes[1] {
			return &types.GeometryError{Element: id, Reason: fmt.Sprintf("both ends on node %d", row[1])}
		}
		key := types.NewNodePairKey([2]int{nodes[0].InternalIndex, nodes[1].InternalIndex})
		if other, dup := pairs[key]; dup {
			ends := key.GetNodes(false)
			log.Printf("warning: elements %d and %d connect the same nodes %d and %d",
				other, id, p.UserIndex(ends[0]), p.UserIndex(ends[1]))
		} else {
			pairs[key] = id
		}
		et, ok := in.ElementTypes[id]
		if !ok {
			return &types.ConfigurationError{Field: field, Reason: "missing element type"}
		}
		mat, ok := in.Materials[id]
		if !ok || mat == nil {
			return &types.ConfigurationError{Field: field, Reason: "missing material"}
		}
		sec, ok := in.Sections[id]
		if !ok || sec == nil {
			return &types.ConfigurationError{Field: field, Reason: "missing cross section"}
		}
		if p.Elements[k], err = element.New(et, element.Config{
			ID:       id,
			Nodes:    nodes,
			Material: mat,
			Section:  sec,
			Load:     in.DistributedLoads[id],
		}); err != nil {
			return
		}
		p.Connectivity[k] = [3]int{id, nodes[0].InternalIndex, nodes[1].InternalIndex}
	}
	return
}

// dofTable flattens prescriptions into rows sorted by global DOF. Repeated loads on one DOF
// are summed, a DOF prescribed twice is an error.
func (p *PreProcessor) dofTable(pres []Prescription, field string, sum bool) (table []DOFValue, err error) {
	var (
		rows = make(map[int]int)
	)
	for _, pr := range pres {
		var nd *element.Node
		if nd, err = p.Node(pr.Node); err != nil {
			return nil, &types.ConfigurationError{Field: field, Reason: "unknown node", Err: err}
		}
		if len(pr.DOFs) != len(pr.Values) {
			return nil, &types.ConfigurationError{Field: field,
				Reason: fmt.Sprintf("node %d has %d dofs and %d values", pr.Node, len(pr.DOFs), len(pr.Values))}
		}
		for i, d := range pr.DOFs {
			if int(d) >= types.DOFsPerNode {
				return nil, &types.ConfigurationError{Field: field,
					Reason: fmt.Sprintf("node %d: local dof %d out of range", pr.Node, d)}
			}
			gd := types.GlobalDOF(nd.InternalIndex, d)
			if pos, dup := rows[gd]; dup {
				if !sum {
					return nil, &types.ConfigurationError{Field: field,
						Reason: fmt.Sprintf("node %d dof %v prescribed more than once", pr.Node, d)}
				}
				table[pos].Value += pr.Values[i]
				continue
			}
			rows[gd] = len(table)
			table = append(table, DOFValue{GlobalDOF: gd, LocalDOF: d, Value: pr.Values[i]})
		}
	}
	sort.Slice(table, func(i, j int) bool { return table[i].GlobalDOF < table[j].GlobalDOF })
	return
}

func (p *PreProcessor) NumNodes() int { return len(p.Nodes) }
func (p *PreProcessor) NumDOFs() int  { return types.DOFsPerNode * len(p.Nodes) }

func (p *PreProcessor) InternalIndex(user int) (internal int, ok bool) {
	internal, ok = p.userToInternal[user]
	return
}

func (p *PreProcessor) UserIndex(internal int) int {
	return p.Nodes[internal].UserIndex
}

// Node looks up a node by its user id.
func (p *PreProcessor) Node(user int) (*element.Node, error) {
	internal, ok := p.userToInternal[user]
	if !ok {
		return nil, fmt.Errorf("node %d not found", user)
	}
	return p.Nodes[internal], nil
}
