package types

import (
	"fmt"
)

// ConfigurationError reports invalid model input found at build time.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NumericalError reports a failed factorization or solve. Frequency is set for
// per-frequency failures of a harmonic sweep, Modes and Sigma for eigen solves.
type NumericalError struct {
	Op        string
	Frequency float64
	Modes     int
	Sigma     float64
	Err       error
}

func (e *NumericalError) Error() string {
	var msg string
	switch e.Op {
	case "modal":
		msg = fmt.Sprintf("numerical error in modal analysis (modes = %d, sigma = %g)", e.Modes, e.Sigma)
	case "":
		msg = "numerical error"
	default:
		msg = fmt.Sprintf("numerical error in %s at f = %g Hz", e.Op, e.Frequency)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *NumericalError) Unwrap() error { return e.Err }

// GeometryError reports degenerate element geometry, such as a zero length.
type GeometryError struct {
	Element int
	Reason  string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry error in element %d: %s", e.Element, e.Reason)
}
