package flakeref

import (
	"errors"
	"fmt"
)

// ErrInvalid means no reference grammar matched the input.
var ErrInvalid = errors.New("invalid flake reference")

// ErrNoVariant means a structured value matched no reference variant.
var ErrNoVariant = errors.New("attribute set matches no reference variant")

// Family groups the variants whose parse errors share a meaning.
type Family string

const (
	FamilyFile       Family = "file"
	FamilyGitService Family = "git-service"
	FamilyGit        Family = "git"
	FamilyPath       Family = "path"
	FamilyIndirect   Family = "indirect"
)

// ParseError reports a string that could not be parsed. Family is empty
// when no grammar recognized the input; otherwise it names the variant
// family that accepted the input and Err is that variant's failure.
type ParseError struct {
	Family Family
	Input  string
	Err    error
	Hint   string
}

func (e *ParseError) Error() string {
	var msg string
	if e.Family == "" {
		msg = fmt.Sprintf("%q: %s", e.Input, e.Err)
	} else {
		msg = fmt.Sprintf("%s reference %q: %s", e.Family, e.Input, e.Err)
	}
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DecodeError reports a structured reference that could not be decoded.
// Type is the "type" field of the attribute set, if any.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("decoding flake reference: %s", e.Err)
	}
	return fmt.Sprintf("decoding %s flake reference: %s", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errMismatch is returned by variant decoders whose structure does not
// fit the attribute set; the next variant is tried.
var errMismatch = errors.New("structural mismatch")
