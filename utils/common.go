package utils

const (
	NODETOL = 1.e-12
	// SYMTOL is the relative tolerance used when checking symmetry of element and system matrices
	SYMTOL = 1.e-10
)
