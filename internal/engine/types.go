package engine

import "github.com/bianoble/flakeref/internal/flakeref"

// InputError represents an error associated with a specific input.
type InputError struct {
	Input string
	Err   error
}

func (e InputError) Error() string {
	return e.Input + ": " + e.Err.Error()
}

func (e InputError) Unwrap() error {
	return e.Err
}

// InputDelta records how the canonical form of an input differs from the
// lockfile.
type InputDelta struct {
	Input  string
	Before string
	After  string
}

// CheckedInput is a configured input whose reference parsed.
type CheckedInput struct {
	Name string
	Ref  flakeref.Reference
}

// CheckResult holds the outcome of a check operation.
type CheckResult struct {
	Clean   bool
	Valid   []CheckedInput
	Invalid []InputError
}

// VerifyResult holds the outcome of a verify operation.
type VerifyResult struct {
	UpToDate []string
	Changed  []InputDelta
	Errors   []InputError
}
