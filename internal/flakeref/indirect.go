package flakeref

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

const indirectScheme = "flake"

// IndirectRef names a flake to be looked up in a registry, optionally
// pinned to a ref and/or a rev held in Attributes.
type IndirectRef struct {
	ID         string
	Attributes Attributes
}

func (IndirectRef) isRef() {}

func (IndirectRef) Kind() Kind { return KindIndirect }

func (r IndirectRef) Attrs() Attributes { return r.Attributes }

// String always renders the "flake:" prefix, also for references parsed
// from the bare "<id>" form.
func (r IndirectRef) String() string {
	var b strings.Builder
	b.WriteString(indirectScheme)
	b.WriteByte(':')
	b.WriteString(r.ID)

	query := r.Attributes.values()
	ref, rev := r.Attributes.Ref, r.Attributes.Rev
	if ref != "" && refPattern.MatchString(ref) && !plumbing.IsHash(ref) {
		b.WriteByte('/')
		b.WriteString(ref)
		query.Del(attrRef)
	}
	if rev != "" && plumbing.IsHash(rev) {
		b.WriteByte('/')
		b.WriteString(rev)
		query.Del(attrRev)
	}
	writeQuery(&b, query)
	return b.String()
}

func (r IndirectRef) MarshalJSON() ([]byte, error) {
	m := map[string]any{}
	r.Attributes.fields(m)
	m["type"] = "indirect"
	m["id"] = r.ID
	return json.Marshal(m)
}

type indirectGrammar struct{}

func (indirectGrammar) Kind() Kind { return KindIndirect }

// Recognize accepts "flake:..." and the bare form, which has no ':' and
// starts with an identifier.
func (indirectGrammar) Recognize(s string) bool {
	if strings.HasPrefix(s, indirectScheme+":") {
		return true
	}
	if strings.Contains(s, ":") {
		return false
	}
	first := s
	if i := strings.IndexAny(s, "/?"); i >= 0 {
		first = s[:i]
	}
	return identifierPattern.MatchString(first)
}

func (indirectGrammar) Parse(s string) (Ref, error) {
	body, rawQuery := splitQuery(strings.TrimPrefix(s, indirectScheme+":"))
	if strings.Contains(body, "#") {
		return nil, errors.New("fragment is not part of a flake reference")
	}

	segments := strings.Split(body, "/")
	if err := validateIdentifier(segments[0], "flake id"); err != nil {
		return nil, err
	}
	if len(segments) > 3 {
		return nil, fmt.Errorf("too many path segments in %q: expected <id>[/<ref>][/<rev>]", body)
	}

	attrs, err := ParseAttributes(rawQuery)
	if err != nil {
		return nil, err
	}
	switch len(segments) {
	case 2:
		if err := placeRefOrRev(&attrs, segments[1]); err != nil {
			return nil, err
		}
	case 3:
		if plumbing.IsHash(segments[1]) {
			return nil, fmt.Errorf("expected a ref before the rev, got commit hash %q", segments[1])
		}
		if err := placeRefOrRev(&attrs, segments[1]); err != nil {
			return nil, err
		}
		if !plumbing.IsHash(segments[2]) {
			return nil, fmt.Errorf("rev %q is not a commit hash", segments[2])
		}
		if err := placeRefOrRev(&attrs, segments[2]); err != nil {
			return nil, err
		}
	}
	return IndirectRef{ID: segments[0], Attributes: attrs}, nil
}

func decodeIndirect(fields map[string]json.RawMessage) (Ref, error) {
	if fieldType(fields) != "indirect" {
		return nil, errMismatch
	}
	id, err := stringField(fields, "id")
	if err != nil {
		return nil, err
	}
	if err := validateIdentifier(id, "flake id"); err != nil {
		return nil, err
	}
	attrs, err := decodeAttributes(fields, "type", "id")
	if err != nil {
		return nil, err
	}
	return IndirectRef{ID: id, Attributes: attrs}, nil
}
