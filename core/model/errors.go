package model

import (
	"errors"
	"fmt"
)

// InvalidInputError rejects a plan before any computation: non-contiguous
// sequences, non-positive durations or takt time, or relationship references
// to unknown wagons. The computation is never partially applied.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string { return "invalid input: " + e.Reason }

// Invalidf builds an InvalidInputError from a format string.
func Invalidf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err is (or wraps) an InvalidInputError.
func IsInvalidInput(err error) bool {
	var e *InvalidInputError
	return errors.As(err, &e)
}

// SimulationConfigError rejects Monte Carlo parameters before running any
// trial: iterations <= 0, negative or unreasonable variance.
type SimulationConfigError struct {
	Reason string
}

func (e *SimulationConfigError) Error() string { return "simulation config: " + e.Reason }

// SimConfigf builds a SimulationConfigError from a format string.
func SimConfigf(format string, args ...any) error {
	return &SimulationConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsSimulationConfig reports whether err is (or wraps) a SimulationConfigError.
func IsSimulationConfig(err error) bool {
	var e *SimulationConfigError
	return errors.As(err, &e)
}
