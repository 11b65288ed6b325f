package utils

import (
	"sort"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func NewRange(rmin, rmax int) (r Index) {
	var (
		size = rmax - rmin + 1 // INCLUSIVE RANGE
	)
	if size <= 0 {
		return Index{}
	}
	r = make(Index, size)
	for i := range r {
		r[i] = i + rmin
	}
	return
}

// IsSortedUnique reports whether I is strictly ascending.
func (I Index) IsSortedUnique() bool {
	for i := 1; i < len(I); i++ {
		if I[i] <= I[i-1] {
			return false
		}
	}
	return true
}

// Complement returns the sorted members of [0, n) not in I. I must be sorted ascending.
func (I Index) Complement(n int) (r Index) {
	r = make(Index, 0, n-len(I))
	var ii int
	for k := 0; k < n; k++ {
		if ii < len(I) && I[ii] == k {
			ii++
			continue
		}
		r = append(r, k)
	}
	return
}

// Position finds val in a sorted index, returning -1 when absent.
func (I Index) Position(val int) int {
	pos := sort.SearchInts(I, val)
	if pos < len(I) && I[pos] == val {
		return pos
	}
	return -1
}

// InverseMap returns an n long lookup from a global position to its position in I, -1 elsewhere.
func (I Index) InverseMap(n int) (r Index) {
	r = make(Index, n)
	for i := range r {
		r[i] = -1
	}
	for pos, val := range I {
		r[val] = pos
	}
	return
}
