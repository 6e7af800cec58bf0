package flakeref

import (
	"fmt"
	"regexp"
)

// identifierPattern matches registry names and git-service owner/repo
// segments. Anchored at both ends: "1flox" and "flox/" are rejected.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// refPattern matches a branch or tag name given as a path segment of a
// shorthand reference.
var refPattern = regexp.MustCompile(`^[a-zA-Z0-9@][a-zA-Z0-9_.@+-]*$`)

// IdentifierError reports a value that is not a valid flake identifier.
type IdentifierError struct {
	Label string
	Value string
}

func (e *IdentifierError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s is empty", e.Label)
	}
	return fmt.Sprintf("invalid %s %q: must start with a letter followed by letters, digits, '_' or '-'", e.Label, e.Value)
}

// ValidateIdentifier checks s against the flake identifier grammar
// [a-zA-Z][a-zA-Z0-9_-]*.
func ValidateIdentifier(s string) error {
	return validateIdentifier(s, "identifier")
}

// IsIdentifier reports whether s is a valid flake identifier.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

func validateIdentifier(s, label string) error {
	if !identifierPattern.MatchString(s) {
		return &IdentifierError{Label: label, Value: s}
	}
	return nil
}

func validateRefName(s string) error {
	if !refPattern.MatchString(s) {
		return fmt.Errorf("invalid ref %q", s)
	}
	return nil
}
