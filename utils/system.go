package utils

import (
	"fmt"
	"math"
	"math/cmplx"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsNan reports whether any entry is NaN, for the scalar, slice and matrix types used by the solvers.
func IsNan(A any) bool {
	switch v := A.(type) {
	case float64:
		return math.IsNaN(v)
	case complex128:
		return cmplx.IsNaN(v)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) {
				return true
			}
		}
	case []complex128:
		for _, c := range v {
			if cmplx.IsNaN(c) {
				return true
			}
		}
	case *mat.Dense:
		return IsNan(v.RawMatrix().Data)
	case *mat.CDense:
		return IsNan(v.RawCMatrix().Data)
	}
	return false
}
