package flakeref

import (
	"path/filepath"
	"regexp"
)

// schemePattern matches the leading "<scheme>:" of a URL-like string.
var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// ImpureRef is what a user may type on a command line: either a pure
// reference with a scheme, or a raw string such as "." or "./sub" whose
// meaning depends on the working directory.
type ImpureRef struct {
	pure Reference
	raw  string
}

// ParseImpure parses s as a pure reference when it starts with a URL
// scheme and keeps it verbatim otherwise. Only the pure form can fail.
func ParseImpure(s string) (ImpureRef, error) {
	if !schemePattern.MatchString(s) {
		return ImpureRef{raw: s}, nil
	}
	r, err := Parse(s)
	if err != nil {
		return ImpureRef{}, err
	}
	return ImpureRef{pure: r}, nil
}

// IsPure reports whether the input carried a scheme.
func (r ImpureRef) IsPure() bool { return !r.pure.IsZero() }

// Pure returns the parsed reference, or the zero Reference when impure.
func (r ImpureRef) Pure() Reference { return r.pure }

// Impure returns the raw string, or "" when pure.
func (r ImpureRef) Impure() string { return r.raw }

func (r ImpureRef) String() string {
	if r.IsPure() {
		return r.pure.String()
	}
	return r.raw
}

// ResolvePath returns the pure reference unchanged. An impure string is
// joined onto base (when relative), cleaned and returned as a PathRef.
// No filesystem access takes place.
func (r ImpureRef) ResolvePath(base string) (Reference, error) {
	if r.IsPure() {
		return r.pure, nil
	}
	p := r.raw
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	p = filepath.Clean(p)
	if err := validatePathValue(p); err != nil {
		return Reference{}, &ParseError{Family: FamilyPath, Input: r.raw, Err: err}
	}
	return Reference{ref: PathRef{Path: p}}, nil
}
