package hmmlib

import "fmt"

// ConfigurationError reports a missing or malformed parameter: a
// probability vector with the wrong length, entries outside [0,1],
// a row that does not sum to 1, or a discrete/continuous variant
// mismatch (e.g. symbol emissions set on a continuous model).
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "hmmlib: " + e.Msg }

// DomainError reports a value that is individually well-formed but
// violates a domain rule: a LogZero entry in a continuous emission
// row, or an observation symbol outside [0, NSymbol).
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return "hmmlib: " + e.Msg }

// NumericError reports a NaN produced during re-estimation, which
// validated inputs should make unreachable.
type NumericError struct {
	Where string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("hmmlib: NaN encountered in %s", e.Where)
}
