package element

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gopulse/properties"
	"github.com/notargets/gopulse/types"
	"github.com/notargets/gopulse/utils"
)

const (
	NDOF  = 2 * types.DOFsPerNode // DOFs per element
	NPAIR = NDOF * NDOF           // Entries of an element matrix
)

type Type uint8

const (
	Pipe16 Type = iota // Timoshenko pipe, reduced integration
	Beam               // Euler-Bernoulli beam, closed form
)

var TypeNameMap = map[string]Type{
	"pipe16": Pipe16,
	"beam":   Beam,
}

func (t Type) String() string {
	switch t {
	case Pipe16:
		return "pipe16"
	case Beam:
		return "beam"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

func NewType(label string) (t Type, err error) {
	var ok bool
	if t, ok = TypeNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		names := make([]string, 0, len(TypeNameMap))
		for name := range TypeNameMap {
			names = append(names, name)
		}
		sort.Strings(names)
		err = &types.ConfigurationError{Field: "element type",
			Reason: fmt.Sprintf("unknown element type %q, have %v", label, names)}
	}
	return
}

// Element is the capability set shared by all element formulations. Local matrices are in
// element axes, global ones are rotated with Rᵀ·A·R.
type Element interface {
	ID() int
	Type() Type
	Nodes() [2]*Node
	Length() float64
	Rotation() *mat.Dense
	StiffnessLocal() *mat.Dense
	MassLocal() *mat.Dense
	LoadLocal() *mat.VecDense
	StiffnessGlobal() *mat.Dense
	MassGlobal() *mat.Dense
	LoadGlobal() *mat.VecDense
	DOFs() (dofs [NDOF]int, rows, cols [NPAIR]int)
	isElement()
}

type Config struct {
	ID       int
	Nodes    [2]*Node
	Material *properties.Material
	Section  *properties.CrossSection
	Load     [types.DOFsPerNode]float64 // Constant distributed load per unit length, element axes
}

// New dispatches on the closed set of element types.
func New(t Type, cfg Config) (el Element, err error) {
	var (
		b *base
	)
	if b, err = newBase(cfg); err != nil {
		return
	}
	switch t {
	case Pipe16:
		el = &Pipe16Element{base: b}
	case Beam:
		el = &BeamElement{base: b}
	default:
		err = &types.ConfigurationError{Field: fmt.Sprintf("element %d", cfg.ID),
			Reason: fmt.Sprintf("unsupported element type %v", t)}
	}
	return
}

type base struct {
	id       int
	nodes    [2]*Node
	material *properties.Material
	section  *properties.CrossSection
	load     [types.DOFsPerNode]float64
	length   float64
	R        *mat.Dense
}

func newBase(cfg Config) (b *base, err error) {
	field := fmt.Sprintf("element %d", cfg.ID)
	switch {
	case cfg.Nodes[0] == nil || cfg.Nodes[1] == nil:
		err = &types.ConfigurationError{Field: field, Reason: "missing node"}
		return
	case cfg.Material == nil:
		err = &types.ConfigurationError{Field: field, Reason: "missing material"}
		return
	case cfg.Section == nil:
		err = &types.ConfigurationError{Field: field, Reason: "missing cross section"}
		return
	}
	c, L, err := DirectionCosines(cfg.ID, cfg.Nodes[0], cfg.Nodes[1])
	if err != nil {
		return
	}
	b = &base{
		id:       cfg.ID,
		nodes:    cfg.Nodes,
		material: cfg.Material,
		section:  cfg.Section,
		load:     cfg.Load,
		length:   L,
		R:        RotationMatrix(c),
	}
	return
}

func (b *base) ID() int              { return b.id }
func (b *base) Nodes() [2]*Node      { return b.nodes }
func (b *base) Length() float64      { return b.length }
func (b *base) Rotation() *mat.Dense { return b.R }
func (b *base) isElement()           {}

// DOFs returns the 12 global DOFs and the row major (row, col) pairs used to scatter the
// element matrix into COO triplets.
func (b *base) DOFs() (dofs [NDOF]int, rows, cols [NPAIR]int) {
	for m, nd := range b.nodes {
		gd := nd.GlobalDOF()
		copy(dofs[m*types.DOFsPerNode:], gd[:])
	}
	for k := 0; k < NPAIR; k++ {
		rows[k], cols[k] = dofs[k/NDOF], dofs[k%NDOF]
	}
	return
}

func (b *base) toGlobal(A *mat.Dense) *mat.Dense {
	return utils.RtAR(b.R, A)
}

func (b *base) loadToGlobal(f *mat.VecDense) (fg *mat.VecDense) {
	fg = mat.NewVecDense(NDOF, nil)
	fg.MulVec(b.R.T(), f)
	return
}

// addBtDB accumulates K += scale·Bᵀ·D·B.
func addBtDB(K, B, D *mat.Dense, scale float64) {
	var (
		DB, BtDB mat.Dense
	)
	DB.Mul(D, B)
	BtDB.Mul(B.T(), &DB)
	BtDB.Scale(scale, &BtDB)
	K.Add(K, &BtDB)
}
