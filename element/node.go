package element

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gopulse/types"
)

// Node is created once by the preprocessor and not mutated afterwards.
type Node struct {
	UserIndex     int // Externally assigned, not necessarily dense
	InternalIndex int // Dense, 0..N-1
	X, Y, Z       float64
}

func NewNode(userIndex, internalIndex int, x, y, z float64) *Node {
	return &Node{
		UserIndex:     userIndex,
		InternalIndex: internalIndex,
		X:             x,
		Y:             y,
		Z:             z,
	}
}

func (n *Node) Coordinates() [3]float64 {
	return [3]float64{n.X, n.Y, n.Z}
}

// GlobalDOF returns the global equation numbers of the node's six DOFs.
func (n *Node) GlobalDOF() (dofs [types.DOFsPerNode]int) {
	for i := range dofs {
		dofs[i] = types.GlobalDOF(n.InternalIndex, types.DOF(i))
	}
	return
}

func (n *Node) Distance(other *Node) float64 {
	a, b := n.Coordinates(), other.Coordinates()
	return floats.Distance(a[:], b[:], 2)
}

func (n *Node) String() string {
	return fmt.Sprintf("node %d [%d]: (%g, %g, %g)", n.UserIndex, n.InternalIndex, n.X, n.Y, n.Z)
}
