package utils

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

// Accumulator collects COO triplets into a DOK matrix. Duplicate (i, j) entries are summed,
// in the order they are added.
type Accumulator struct {
	M    *sparse.DOK
	name string
}

func NewAccumulator(nr, nc int, name string) (R Accumulator) {
	R = Accumulator{
		M:    sparse.NewDOK(nr, nc),
		name: name,
	}
	return
}

func (m Accumulator) Dims() (r, c int) { return m.M.Dims() }

func (m Accumulator) Add(i, j int, val float64) {
	if val == 0 {
		return
	}
	m.M.Set(i, j, m.M.At(i, j)+val)
}

// AddTriplets scatters flat triplet arrays, such as an assembler's I, J, data.
func (m Accumulator) AddTriplets(I, J Index, data []float64) (err error) {
	var (
		nr, nc = m.Dims()
	)
	if len(I) != len(J) || len(I) != len(data) {
		err = fmt.Errorf("%s: length of triplet arrays are not equal: len(I) = %d, len(J) = %d, len(data) = %d",
			m.name, len(I), len(J), len(data))
		return
	}
	for ii, val := range data {
		i, j := I[ii], J[ii]
		if i < 0 || i >= nr || j < 0 || j >= nc {
			err = fmt.Errorf("%s: triplet index (%d, %d) out of bounds (%d, %d)", m.name, i, j, nr, nc)
			return
		}
		m.Add(i, j, val)
	}
	return
}

func (m Accumulator) ToCSR() CSR {
	return CSR{
		M:    m.M.ToCSR(),
		name: m.name,
	}
}

type CSR struct {
	M    *sparse.CSR
	name string
}

// NewCSRFromRaw wraps compressed row arrays, indptr has length nr+1.
func NewCSRFromRaw(nr, nc int, indptr, ind []int, data []float64, name string) CSR {
	return CSR{
		M:    sparse.NewCSR(nr, nc, indptr, ind, data),
		name: name,
	}
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) T() mat.Matrix                 { return m.M.T() }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) Name() string                  { return m.name }
func (m CSR) NNZ() int                      { return len(m.RawMatrix().Data) }

// DoRowNonZero calls fn for each stored entry of row i.
func (m CSR) DoRowNonZero(i int, fn func(j int, v float64)) {
	raw := m.RawMatrix()
	for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
		fn(raw.Ind[k], raw.Data[k])
	}
}

// SelectRows returns a new CSR holding rows I of the receiver and all of its columns.
func (m CSR) SelectRows(I Index, name string) CSR {
	var (
		raw    = m.RawMatrix()
		_, nc  = m.Dims()
		indptr = make([]int, len(I)+1)
		ind    []int
		data   []float64
	)
	for ii, i := range I {
		for k := raw.Indptr[i]; k < raw.Indptr[i+1]; k++ {
			ind = append(ind, raw.Ind[k])
			data = append(data, raw.Data[k])
		}
		indptr[ii+1] = len(data)
	}
	return NewCSRFromRaw(len(I), nc, indptr, ind, data, name)
}

// DenseSubmatrix extracts A[I, J] into a dense matrix.
func (m CSR) DenseSubmatrix(I, J Index) (R *mat.Dense) {
	var (
		_, nc = m.Dims()
		colOf = J.InverseMap(nc)
	)
	if len(I) == 0 || len(J) == 0 {
		panic(fmt.Errorf("%s: empty submatrix requested, len(I) = %d, len(J) = %d", m.name, len(I), len(J)))
	}
	R = mat.NewDense(len(I), len(J), nil)
	for ii, i := range I {
		m.DoRowNonZero(i, func(j int, v float64) {
			if jj := colOf[j]; jj >= 0 {
				R.Set(ii, jj, R.At(ii, jj)+v)
			}
		})
	}
	return
}

// Dense expands the full matrix, intended for small systems and tests.
func (m CSR) Dense() (R *mat.Dense) {
	nr, nc := m.Dims()
	return m.DenseSubmatrix(NewRange(0, nr-1), NewRange(0, nc-1))
}

// MulVecC computes A x for a complex vector x.
func (m CSR) MulVecC(x []complex128) (y []complex128) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nc {
		panic(fmt.Errorf("%s: dimension mismatch in MulVecC, have %d columns and len(x) = %d", m.name, nc, len(x)))
	}
	y = make([]complex128, nr)
	for i := 0; i < nr; i++ {
		var sum complex128
		m.DoRowNonZero(i, func(j int, v float64) {
			sum += complex(v, 0) * x[j]
		})
		y[i] = sum
	}
	return
}

// TransposeMulVecC computes Aᵀ x for a complex vector x.
func (m CSR) TransposeMulVecC(x []complex128) (y []complex128) {
	var (
		nr, nc = m.Dims()
	)
	if len(x) != nr {
		panic(fmt.Errorf("%s: dimension mismatch in TransposeMulVecC, have %d rows and len(x) = %d", m.name, nr, len(x)))
	}
	y = make([]complex128, nc)
	for i := 0; i < nr; i++ {
		xi := x[i]
		if xi == 0 {
			continue
		}
		m.DoRowNonZero(i, func(j int, v float64) {
			y[j] += complex(v, 0) * xi
		})
	}
	return
}
