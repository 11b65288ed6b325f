package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for node pair labeling
		nk := NewNodePairKey([2]int{1, 0})
		assert.Equal(t, NodePairKey(1<<32), nk)
		assert.Equal(t, [2]int{0, 1}, nk.GetNodes(false))
		assert.Equal(t, [2]int{1, 0}, nk.GetNodes(true))

		nk = NewNodePairKey([2]int{100, 1})
		assert.Equal(t, NodePairKey(100*(1<<32)+1), nk)
		assert.Equal(t, [2]int{1, 100}, nk.GetNodes(false))

		nk = NewNodePairKey([2]int{1<<32 - 1, 1<<32 - 1})
		assert.Equal(t, NodePairKey(1<<64-1), nk)
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, nk.GetNodes(false))

		assert.Panics(t, func() { NewNodePairKey([2]int{-1, 2}) })
	}
	{ // DOF names
		tokens := []string{"UX", "uy", "uz", "Rx", "ry", "rz", "0", "5"}
		dofs := []DOF{UX, UY, UZ, RX, RY, RZ, UX, RZ}
		for i, token := range tokens {
			d, err := NewDOF(token)
			require.NoError(t, err)
			assert.Equal(t, dofs[i], d)
		}
		for _, bad := range []string{"6", "-1", "wz", ""} {
			_, err := NewDOF(bad)
			var ce *ConfigurationError
			assert.True(t, errors.As(err, &ce), "token %q", bad)
		}
		assert.Equal(t, "ry", RY.String())
		assert.Equal(t, 6*7+4, GlobalDOF(7, RY))
	}
}

func TestErrors(t *testing.T) {
	inner := fmt.Errorf("matrix singular")
	var err error = &NumericalError{Op: "harmonic direct", Frequency: 12.5, Err: inner}
	wrapped := fmt.Errorf("sweep: %w", err)
	var ne *NumericalError
	require.True(t, errors.As(wrapped, &ne))
	assert.Equal(t, 12.5, ne.Frequency)
	assert.True(t, errors.Is(wrapped, inner))
	assert.Contains(t, err.Error(), "12.5")

	err = &NumericalError{Op: "modal", Modes: 10, Sigma: 0.01}
	assert.Contains(t, err.Error(), "modes = 10")
	assert.Contains(t, err.Error(), "sigma = 0.01")

	err = &GeometryError{Element: 3, Reason: "zero length"}
	assert.Equal(t, "geometry error in element 3: zero length", err.Error())
}
