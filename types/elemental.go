package types

import (
	"fmt"
	"math"
)

/*
NodePairKey is an always positive number that stores the two end nodes of an element as indices in a way that
can be compared. An element between nodes [4] and [0] will always be stored as [0,4], in ascending order.
*/
type NodePairKey uint64

func NewNodePairKey(nodes [2]int) (packed NodePairKey) {
	// This packs two index coordinates into two 32 bit unsigned integers to act as a hash
	var (
		limit = math.MaxUint32
	)
	for _, node := range nodes {
		if node < 0 || node > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				nodes[0], nodes[1]))
		}
	}
	var i1, i2 int
	if nodes[0] <= nodes[1] {
		i1, i2 = nodes[0], nodes[1]
	} else {
		i1, i2 = nodes[1], nodes[0]
	}
	packed = NodePairKey(i1 + i2<<32)
	return
}

func (nk NodePairKey) GetNodes(rev bool) (nodes [2]int) {
	var (
		tmp NodePairKey
	)
	tmp = nk >> 32
	nodes[1] = int(tmp)
	nodes[0] = int(nk - tmp*(1<<32))
	if rev {
		nodes[0], nodes[1] = nodes[1], nodes[0]
	}
	return
}
