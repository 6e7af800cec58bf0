package flakeref

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind identifies one concrete reference variant.
type Kind int

const (
	KindFileFile Kind = iota + 1
	KindFileHTTP
	KindFileHTTPS
	KindTarballFile
	KindTarballHTTP
	KindTarballHTTPS
	KindGithub
	KindGitlab
	KindPath
	KindGitFile
	KindGitSSH
	KindGitHTTPS
	KindGitHTTP
	KindIndirect
)

var kindNames = map[Kind]string{
	KindFileFile:     "file+file",
	KindFileHTTP:     "file+http",
	KindFileHTTPS:    "file+https",
	KindTarballFile:  "tarball+file",
	KindTarballHTTP:  "tarball+http",
	KindTarballHTTPS: "tarball+https",
	KindGithub:       "github",
	KindGitlab:       "gitlab",
	KindPath:         "path",
	KindGitFile:      "git+file",
	KindGitSSH:       "git+ssh",
	KindGitHTTPS:     "git+https",
	KindGitHTTP:      "git+http",
	KindIndirect:     "indirect",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown reference kind %q", s)
}

// Family returns the error family of the variant.
func (k Kind) Family() Family {
	switch k {
	case KindFileFile, KindFileHTTP, KindFileHTTPS, KindTarballFile, KindTarballHTTP, KindTarballHTTPS:
		return FamilyFile
	case KindGithub, KindGitlab:
		return FamilyGitService
	case KindGitFile, KindGitSSH, KindGitHTTPS, KindGitHTTP:
		return FamilyGit
	case KindPath:
		return FamilyPath
	case KindIndirect:
		return FamilyIndirect
	}
	return ""
}

// Kinds returns every variant in dispatch priority order: qualified
// file/tarball/git forms, then git services, path and indirect. Parse
// and structured decoding both resolve ambiguity in this order.
func Kinds() []Kind {
	return []Kind{
		KindFileFile, KindFileHTTP, KindFileHTTPS,
		KindTarballFile, KindTarballHTTP, KindTarballHTTPS,
		KindGitFile, KindGitSSH, KindGitHTTPS, KindGitHTTP,
		KindGithub, KindGitlab,
		KindPath,
		KindIndirect,
	}
}

// Ref is implemented by every concrete variant: FileRef, TarballRef,
// GitServiceRef, GitRef, PathRef and IndirectRef.
type Ref interface {
	// String renders the canonical form.
	String() string
	Kind() Kind
	Attrs() Attributes

	isRef()
}

// Reference holds exactly one parsed variant. The zero value is unset.
type Reference struct {
	ref Ref
}

// New wraps a variant.
func New(r Ref) Reference {
	return Reference{ref: r}
}

// Parse classifies s and parses it with the first grammar that
// recognizes it.
func Parse(s string) (Reference, error) {
	for _, g := range grammars {
		if !g.Recognize(s) {
			continue
		}
		r, err := g.Parse(s)
		if err != nil {
			return Reference{}, &ParseError{Family: g.Kind().Family(), Input: s, Err: err}
		}
		return Reference{ref: r}, nil
	}
	return Reference{}, &ParseError{
		Input: s,
		Err:   ErrInvalid,
		Hint:  "expected a form such as github:owner/repo, path:/dir, git+https://host/repo or flake:id",
	}
}

// MustParse is like Parse but panics on error. Use in tests and static
// initialization where the input is known-valid.
func MustParse(s string) Reference {
	r, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("flakeref.MustParse(%q): %v", s, err))
	}
	return r
}

// Ref returns the variant, or nil for the zero value.
func (r Reference) Ref() Ref { return r.ref }

// IsZero reports whether no variant is set.
func (r Reference) IsZero() bool { return r.ref == nil }

// Kind returns the variant kind, or 0 for the zero value.
func (r Reference) Kind() Kind {
	if r.ref == nil {
		return 0
	}
	return r.ref.Kind()
}

// String returns the canonical form.
func (r Reference) String() string {
	if r.ref == nil {
		return ""
	}
	return r.ref.String()
}

// Args returns the reference as the single positional argument of a nix
// command such as "nix flake metadata".
func (r Reference) Args() []string {
	if r.ref == nil {
		return nil
	}
	return []string{r.ref.String()}
}

// MarshalText implements encoding.TextMarshaler with the canonical form.
func (r Reference) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the canonical (or any accepted) string form. Empty
// input produces the zero value.
func (r *Reference) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*r = Reference{}
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML emits the canonical string.
func (r Reference) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML accepts a string scalar or an attribute mapping.
func (r *Reference) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return r.UnmarshalText([]byte(node.Value))
	case yaml.MappingNode:
		var attrs map[string]any
		if err := node.Decode(&attrs); err != nil {
			return &DecodeError{Err: err}
		}
		parsed, err := decodeAttrMap(attrs)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}
	return &DecodeError{Err: errors.New("expected a string or a mapping")}
}
