package flakeref

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrBoolDecode is the sentinel for boolean attributes that are neither a
// native boolean nor "true"/"false".
var ErrBoolDecode = errors.New("invalid boolean")

// BoolError reports an unrecognized boolean spelling.
type BoolError struct {
	Value string
}

func (e *BoolError) Error() string {
	return fmt.Sprintf("invalid boolean %q: expected \"true\" or \"false\"", e.Value)
}

func (e *BoolError) Unwrap() error { return ErrBoolDecode }

// ParseBool decodes the string spelling of a boolean attribute.
func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &BoolError{Value: s}
}

// isJSONNull reports whether raw is the JSON null literal. encoding/json
// decodes null into a value as a no-op, so callers must reject it first.
func isJSONNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeJSONBool accepts a native JSON boolean or its string spelling.
func decodeJSONBool(raw json.RawMessage) (bool, error) {
	if isJSONNull(raw) {
		return false, &BoolError{Value: "null"}
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return false, &BoolError{Value: string(bytes.TrimSpace(raw))}
	}
	return ParseBool(s)
}

var (
	// ErrTimestampFromInt marks an epoch value outside the supported range.
	ErrTimestampFromInt = errors.New("timestamp out of range")

	// ErrTimestampFromString marks a string that is not decimal epoch seconds.
	ErrTimestampFromString = errors.New("timestamp is not epoch seconds")

	errNotInteger = errors.New("not an integer")
)

// Supported instants: 0001-01-01T00:00:00Z through 9999-12-31T23:59:59Z.
const (
	minUnixSeconds = -62135596800
	maxUnixSeconds = 253402300799
)

// TimestampError reports a timestamp attribute that could not be decoded.
// Kind is ErrTimestampFromString for string input and ErrTimestampFromInt
// otherwise. Err, when set, is the parse failure; a nil Err means the value
// parsed but is out of range.
type TimestampError struct {
	Kind  error
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse %q to UTC date: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("could not parse %q to UTC date: %s", e.Value, e.Kind)
}

func (e *TimestampError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Timestamp is a UTC instant with second precision, encoded as epoch
// seconds.
type Timestamp struct {
	t time.Time
}

// NewTimestamp truncates t to the second and converts it to UTC.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{t: t.Truncate(time.Second).UTC()}
}

// TimestampFromInt interprets n as seconds since the Unix epoch.
func TimestampFromInt(n int64) (Timestamp, error) {
	if n < minUnixSeconds || n > maxUnixSeconds {
		return Timestamp{}, &TimestampError{Kind: ErrTimestampFromInt, Value: strconv.FormatInt(n, 10)}
	}
	return Timestamp{t: time.Unix(n, 0).UTC()}, nil
}

// ParseTimestamp decodes a decimal string of epoch seconds.
func ParseTimestamp(s string) (Timestamp, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Timestamp{}, &TimestampError{Kind: ErrTimestampFromString, Value: s, Err: errNotInteger}
	}
	return TimestampFromInt(n)
}

// Time returns the instant in UTC.
func (ts Timestamp) Time() time.Time { return ts.t }

// Unix returns the instant as epoch seconds.
func (ts Timestamp) Unix() int64 { return ts.t.Unix() }

// String returns the decimal epoch seconds.
func (ts Timestamp) String() string { return strconv.FormatInt(ts.Unix(), 10) }

// MarshalJSON always emits an integer.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(ts.String()), nil
}

// UnmarshalJSON accepts an integer or a string of epoch seconds.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return &TimestampError{Kind: ErrTimestampFromString, Value: string(data), Err: err}
		}
		parsed, err := ParseTimestamp(s)
		if err != nil {
			return err
		}
		*ts = parsed
		return nil
	}

	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return &TimestampError{Kind: ErrTimestampFromInt, Value: string(data), Err: errNotInteger}
	}
	parsed, err := TimestampFromInt(n)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

// MarshalYAML emits an integer.
func (ts Timestamp) MarshalYAML() (any, error) {
	return ts.Unix(), nil
}

// UnmarshalYAML accepts an integer or a quoted string of epoch seconds.
func (ts *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return &TimestampError{Kind: ErrTimestampFromString, Value: node.Value, Err: errors.New("expected a scalar")}
	}

	var (
		parsed Timestamp
		err    error
	)
	if node.Tag == "!!str" {
		parsed, err = ParseTimestamp(node.Value)
	} else {
		n, convErr := strconv.ParseInt(node.Value, 10, 64)
		if convErr != nil {
			return &TimestampError{Kind: ErrTimestampFromInt, Value: node.Value, Err: errNotInteger}
		}
		parsed, err = TimestampFromInt(n)
	}
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
