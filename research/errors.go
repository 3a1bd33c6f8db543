/*
errors.go - Error types for the research engine

PURPOSE:
  The engine trusts its inputs and has no recoverable failures. The only
  errors it reports are configurations that would otherwise produce
  infinite or undefined day counts.

ERROR CATEGORIES:
  1. Input errors - unknown keys while parsing definitions
  2. Configuration errors - values that make a rate or a root undefined

USAGE:
  r, err := research.NewResearch(tech, team, rules)
  if research.IsConfigError(err) {
      // report the offending tech/ruleset, keep ranking the others
  }
*/
package research

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

var (
	// ErrInvalidDifficulty is returned for a component difficulty of -2,
	// which zeroes the formula divisor.
	ErrInvalidDifficulty = errors.New("invalid component difficulty")

	// ErrInvalidProgress is returned when the daily progress rate is not a
	// positive finite number (e.g. a zero speed modifier).
	ErrInvalidProgress = errors.New("progress rate must be positive")

	// ErrNoRealRoot is returned when the quadratic has no positive real root.
	ErrNoRealRoot = errors.New("quadratic has no real root")

	// ErrUnknownSpeciality is returned when parsing an unknown speciality key.
	ErrUnknownSpeciality = errors.New("unknown speciality")

	// ErrUnknownGameType is returned when parsing an unknown game type key.
	ErrUnknownGameType = errors.New("unknown game type")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// SolverError carries the coefficients of an unsolvable quadratic.
type SolverError struct {
	A, B, C float64
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("no positive root for %gx^2 + %gx + %g", e.A, e.B, e.C)
}

func (e *SolverError) Unwrap() error {
	return ErrNoRealRoot
}

// ComponentError locates a failure inside a technology.
type ComponentError struct {
	TechID string
	Index  int
	Err    error
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("tech %s component %d: %v", e.TechID, e.Index, e.Err)
}

func (e *ComponentError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigError returns true if the error comes from ruleset or definition values.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidDifficulty) ||
		errors.Is(err, ErrInvalidProgress) ||
		errors.Is(err, ErrNoRealRoot)
}

// IsParseError returns true if the error comes from an unknown key.
func IsParseError(err error) bool {
	return errors.Is(err, ErrUnknownSpeciality) ||
		errors.Is(err, ErrUnknownGameType)
}
