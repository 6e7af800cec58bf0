package flakeref

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type decoder func(fields map[string]json.RawMessage) (Ref, error)

// decoders mirrors Kinds(): the first decoder whose structure fits wins.
var decoders = []decoder{
	func(f map[string]json.RawMessage) (Ref, error) { return decodeFileBased(f, false, TransportFile) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeFileBased(f, false, TransportHTTP) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeFileBased(f, false, TransportHTTPS) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeFileBased(f, true, TransportFile) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeFileBased(f, true, TransportHTTP) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeFileBased(f, true, TransportHTTPS) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeGit(f, TransportFile) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeGit(f, TransportSSH) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeGit(f, TransportHTTPS) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeGit(f, TransportHTTP) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeGitService(f, ServiceGithub) },
	func(f map[string]json.RawMessage) (Ref, error) { return decodeGitService(f, ServiceGitlab) },
	decodePath,
	decodeIndirect,
}

// MarshalJSON emits the attribute-set form, or null for the zero value.
func (r Reference) MarshalJSON() ([]byte, error) {
	if r.ref == nil {
		return []byte("null"), nil
	}
	m, ok := r.ref.(json.Marshaler)
	if !ok {
		return nil, fmt.Errorf("flake reference kind %s has no attribute-set form", r.ref.Kind())
	}
	return m.MarshalJSON()
}

// UnmarshalJSON accepts an attribute set, a reference string, or null.
func (r *Reference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*r = Reference{}
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &DecodeError{Err: err}
		}
		return r.UnmarshalText([]byte(s))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return &DecodeError{Err: err}
	}
	parsed, err := decodeFields(fields)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Decode builds a reference from an attribute set such as the "original"
// or "locked" node of a flake.lock file.
func Decode(data []byte) (Reference, error) {
	var r Reference
	if err := r.UnmarshalJSON(data); err != nil {
		return Reference{}, err
	}
	return r, nil
}

func decodeFields(fields map[string]json.RawMessage) (Reference, error) {
	typeName := fieldType(fields)
	for _, d := range decoders {
		ref, err := d(fields)
		if errors.Is(err, errMismatch) {
			continue
		}
		if err != nil {
			return Reference{}, &DecodeError{Type: typeName, Err: err}
		}
		return Reference{ref: ref}, nil
	}
	return Reference{}, &DecodeError{Type: typeName, Err: ErrNoVariant}
}

// decodeAttrMap decodes an attribute set that arrived through another
// codec, such as a YAML mapping.
func decodeAttrMap(attrs map[string]any) (Reference, error) {
	data, err := json.Marshal(attrs)
	if err != nil {
		return Reference{}, &DecodeError{Err: err}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Reference{}, &DecodeError{Err: err}
	}
	return decodeFields(fields)
}

// fieldType returns the "type" field, or "" when it is absent or not a
// string.
func fieldType(fields map[string]json.RawMessage) string {
	raw, ok := fields["type"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	var s string
	if isJSONNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", fmt.Errorf("field %q: expected a string", key)
	}
	return s, nil
}

// decodeURLField returns the url of a {"type": typeName, "url": ...} set
// whose scheme is t. Any other type or scheme is a mismatch.
func decodeURLField(fields map[string]json.RawMessage, typeName string, t Transport) (string, error) {
	if fieldType(fields) != typeName {
		return "", errMismatch
	}
	rawURL, err := stringField(fields, "url")
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(rawURL, t.Scheme()+":") {
		return "", errMismatch
	}
	return rawURL, nil
}
