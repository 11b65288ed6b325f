//go:build cgo && netlib

package utils

/*
#cgo LDFLAGS: -lopenblas -llapacke -lgfortran -lm -lpthread
#include <cblas.h>
#include <lapacke.h>
*/
import "C"

import (
	"log"

	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// Building with -tags netlib routes gonum's dense factorizations through OpenBLAS.
func init() {
	blas64.Use(netblas.Implementation{})
	log.Println("Using netlib to accelerate BLAS")
}
