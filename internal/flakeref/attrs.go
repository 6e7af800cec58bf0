package flakeref

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strconv"
	"strings"
)

// Attribute keys with a typed meaning.
const (
	attrDir          = "dir"
	attrNarHash      = "narHash"
	attrRev          = "rev"
	attrRef          = "ref"
	attrRevCount     = "revCount"
	attrLastModified = "lastModified"
	attrShallow      = "shallow"
	attrSubmodules   = "submodules"
)

// ErrDuplicateAttribute marks a query that names the same key twice.
var ErrDuplicateAttribute = errors.New("attribute given more than once")

// AttributeError reports a malformed attribute.
type AttributeError struct {
	Key string
	Err error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute %q: %v", e.Key, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// Attributes is the typed view of the key=value set that follows a
// reference. Keys without a typed meaning are kept in Extra.
type Attributes struct {
	Dir          string
	NarHash      string
	Rev          string
	Ref          string
	RevCount     *int64
	LastModified *Timestamp
	Shallow      *bool
	Submodules   *bool
	Extra        map[string]string
}

// ParseAttributes decodes a raw query string such as
// "ref=main&shallow=true". Ordering is irrelevant; repeating a key is an
// error.
func ParseAttributes(rawQuery string) (Attributes, error) {
	var attrs Attributes
	if rawQuery == "" {
		return attrs, nil
	}

	seen := make(map[string]bool)
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, ok := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return Attributes{}, &AttributeError{Key: rawKey, Err: err}
		}
		if !ok {
			return Attributes{}, &AttributeError{Key: key, Err: errors.New("missing '=value'")}
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return Attributes{}, &AttributeError{Key: key, Err: err}
		}
		if seen[key] {
			return Attributes{}, &AttributeError{Key: key, Err: ErrDuplicateAttribute}
		}
		seen[key] = true

		if err := attrs.set(key, value); err != nil {
			return Attributes{}, &AttributeError{Key: key, Err: err}
		}
	}
	return attrs, nil
}

func (a *Attributes) set(key, value string) error {
	switch key {
	case attrDir, attrNarHash, attrRev, attrRef:
		if value == "" {
			return errors.New("empty value")
		}
	}

	switch key {
	case attrDir:
		if err := validateDir(value); err != nil {
			return err
		}
		a.Dir = value
	case attrNarHash:
		a.NarHash = value
	case attrRev:
		a.Rev = value
	case attrRef:
		a.Ref = value
	case attrRevCount:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf("%q is not a non-negative integer", value)
		}
		a.RevCount = &n
	case attrLastModified:
		ts, err := ParseTimestamp(value)
		if err != nil {
			return err
		}
		a.LastModified = &ts
	case attrShallow:
		b, err := ParseBool(value)
		if err != nil {
			return err
		}
		a.Shallow = &b
	case attrSubmodules:
		b, err := ParseBool(value)
		if err != nil {
			return err
		}
		a.Submodules = &b
	default:
		if a.Extra == nil {
			a.Extra = make(map[string]string)
		}
		a.Extra[key] = value
	}
	return nil
}

// take removes an untyped key from Extra and returns its value.
func (a *Attributes) take(key string) (string, bool) {
	value, ok := a.Extra[key]
	if !ok {
		return "", false
	}
	delete(a.Extra, key)
	if len(a.Extra) == 0 {
		a.Extra = nil
	}
	return value, true
}

// validateDir requires a relative path that stays inside the flake.
func validateDir(dir string) error {
	if strings.ContainsRune(dir, 0) {
		return errors.New("dir contains a NUL byte")
	}
	if strings.HasPrefix(dir, "/") {
		return fmt.Errorf("dir %q must be a relative path", dir)
	}
	cleaned := path.Clean(dir)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("dir %q escapes the flake root", dir)
	}
	return nil
}

// IsZero reports whether no attribute is set.
func (a Attributes) IsZero() bool {
	return a.Dir == "" && a.NarHash == "" && a.Rev == "" && a.Ref == "" &&
		a.RevCount == nil && a.LastModified == nil && a.Shallow == nil &&
		a.Submodules == nil && len(a.Extra) == 0
}

// values returns the normalized textual form of every set attribute.
func (a Attributes) values() url.Values {
	v := url.Values{}
	for key, value := range a.Extra {
		v.Set(key, value)
	}
	if a.Dir != "" {
		v.Set(attrDir, a.Dir)
	}
	if a.NarHash != "" {
		v.Set(attrNarHash, a.NarHash)
	}
	if a.Rev != "" {
		v.Set(attrRev, a.Rev)
	}
	if a.Ref != "" {
		v.Set(attrRef, a.Ref)
	}
	if a.RevCount != nil {
		v.Set(attrRevCount, strconv.FormatInt(*a.RevCount, 10))
	}
	if a.LastModified != nil {
		v.Set(attrLastModified, a.LastModified.String())
	}
	if a.Shallow != nil {
		v.Set(attrShallow, strconv.FormatBool(*a.Shallow))
	}
	if a.Submodules != nil {
		v.Set(attrSubmodules, strconv.FormatBool(*a.Submodules))
	}
	return v
}

// Encode renders the canonical query string: keys sorted, values
// normalized. Empty attributes encode to "".
func (a Attributes) Encode() string {
	return a.values().Encode()
}

// writeQuery appends "?<query>" to b when v is non-empty.
func writeQuery(b *strings.Builder, v url.Values) {
	if len(v) == 0 {
		return
	}
	b.WriteByte('?')
	b.WriteString(v.Encode())
}

// fields adds every set attribute to m in its native JSON type.
func (a Attributes) fields(m map[string]any) {
	for key, value := range a.Extra {
		m[key] = value
	}
	if a.Dir != "" {
		m[attrDir] = a.Dir
	}
	if a.NarHash != "" {
		m[attrNarHash] = a.NarHash
	}
	if a.Rev != "" {
		m[attrRev] = a.Rev
	}
	if a.Ref != "" {
		m[attrRef] = a.Ref
	}
	if a.RevCount != nil {
		m[attrRevCount] = *a.RevCount
	}
	if a.LastModified != nil {
		m[attrLastModified] = a.LastModified.Unix()
	}
	if a.Shallow != nil {
		m[attrShallow] = *a.Shallow
	}
	if a.Submodules != nil {
		m[attrSubmodules] = *a.Submodules
	}
}

// decodeAttributes reads every field of an attribute-set object except
// the reserved identity fields of the variant.
func decodeAttributes(fields map[string]json.RawMessage, reserved ...string) (Attributes, error) {
	var attrs Attributes
	for key, raw := range fields {
		if slices.Contains(reserved, key) {
			continue
		}
		if err := attrs.decodeJSON(key, raw); err != nil {
			return Attributes{}, &AttributeError{Key: key, Err: err}
		}
	}
	return attrs, nil
}

func (a *Attributes) decodeJSON(key string, raw json.RawMessage) error {
	if isJSONNull(raw) {
		switch key {
		case attrShallow, attrSubmodules:
			return &BoolError{Value: "null"}
		case attrLastModified:
			return &TimestampError{Kind: ErrTimestampFromInt, Value: "null", Err: errNotInteger}
		}
		return errors.New("null is not an attribute value")
	}

	switch key {
	case attrShallow, attrSubmodules:
		b, err := decodeJSONBool(raw)
		if err != nil {
			return err
		}
		if key == attrShallow {
			a.Shallow = &b
		} else {
			a.Submodules = &b
		}
		return nil
	case attrLastModified:
		var ts Timestamp
		if err := ts.UnmarshalJSON(raw); err != nil {
			return err
		}
		a.LastModified = &ts
		return nil
	case attrRevCount:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("expected an integer: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("%d is not a non-negative integer", n)
		}
		a.RevCount = &n
		return nil
	case attrDir, attrNarHash, attrRev, attrRef:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("expected a string: %w", err)
		}
		return a.set(key, s)
	}

	if a.Extra == nil {
		a.Extra = make(map[string]string)
	}
	a.Extra[key] = scalarText(raw)
	return nil
}

// scalarText returns a JSON string's contents, or the literal text of any
// other JSON value.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
