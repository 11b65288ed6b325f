package types

import (
	"fmt"
	"strings"
)

// DOFsPerNode is fixed: three translations followed by three rotations.
const DOFsPerNode = 6

type DOF uint8

const (
	UX DOF = iota
	UY
	UZ
	RX
	RY
	RZ
)

var DOFNameMap = map[string]DOF{
	"ux": UX,
	"uy": UY,
	"uz": UZ,
	"rx": RX,
	"ry": RY,
	"rz": RZ,
}

func (d DOF) String() string {
	if int(d) >= DOFsPerNode {
		return fmt.Sprintf("DOF(%d)", uint8(d))
	}
	return [...]string{"ux", "uy", "uz", "rx", "ry", "rz"}[d]
}

// NewDOF accepts either a name from DOFNameMap (case insensitive) or a local
// index 0..5 written as a string.
func NewDOF(token string) (d DOF, err error) {
	var (
		ok bool
	)
	label := strings.ToLower(strings.TrimSpace(token))
	if d, ok = DOFNameMap[label]; ok {
		return
	}
	var ind int
	if _, err = fmt.Sscanf(label, "%d", &ind); err != nil || ind < 0 || ind >= DOFsPerNode {
		err = &ConfigurationError{Field: "dof", Reason: fmt.Sprintf("unknown degree of freedom %q", token)}
		return
	}
	d = DOF(ind)
	return
}

// GlobalDOF maps an internal node index and local DOF to the global equation number.
func GlobalDOF(internalIndex int, local DOF) int {
	return internalIndex*DOFsPerNode + int(local)
}
