package flakeref

import (
	"encoding/json"
	"errors"
	"strings"
)

const pathScheme = "path"

// PathRef is a directory on the local filesystem, absolute or relative.
// No network semantics apply.
type PathRef struct {
	Path       string
	Attributes Attributes
}

func (PathRef) isRef() {}

func (PathRef) Kind() Kind { return KindPath }

func (r PathRef) Attrs() Attributes { return r.Attributes }

func (r PathRef) String() string {
	var b strings.Builder
	b.WriteString(pathScheme)
	b.WriteByte(':')
	b.WriteString(r.Path)
	writeQuery(&b, r.Attributes.values())
	return b.String()
}

func (r PathRef) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	r.Attributes.fields(m)
	m["type"] = pathScheme
	m["path"] = r.Path
	return json.Marshal(m)
}

func validatePathValue(p string) error {
	switch {
	case p == "":
		return errors.New("path is empty")
	case strings.ContainsRune(p, 0):
		return errors.New("path contains a NUL byte")
	case strings.Contains(p, "#"):
		return errors.New("fragment is not part of a flake reference")
	}
	return nil
}

type pathGrammar struct{}

func (pathGrammar) Kind() Kind { return KindPath }

func (pathGrammar) Recognize(s string) bool {
	return strings.HasPrefix(s, pathScheme+":")
}

func (pathGrammar) Parse(s string) (Ref, error) {
	p, rawQuery := splitQuery(strings.TrimPrefix(s, pathScheme+":"))
	if err := validatePathValue(p); err != nil {
		return nil, err
	}
	attrs, err := ParseAttributes(rawQuery)
	if err != nil {
		return nil, err
	}
	return PathRef{Path: p, Attributes: attrs}, nil
}

func decodePath(fields map[string]json.RawMessage) (Ref, error) {
	if fieldType(fields) != pathScheme {
		return nil, errMismatch
	}
	p, err := stringField(fields, "path")
	if err != nil {
		return nil, err
	}
	if err := validatePathValue(p); err != nil {
		return nil, err
	}
	if strings.Contains(p, "?") {
		return nil, errors.New("path must not contain '?'")
	}
	attrs, err := decodeAttributes(fields, "type", "path")
	if err != nil {
		return nil, err
	}
	return PathRef{Path: p, Attributes: attrs}, nil
}
