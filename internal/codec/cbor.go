// Package codec holds the binary encoding of flake references and the
// records that carry them.
package codec

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	opts := cbor.CoreDetEncOptions()
	// flakeref.Reference keeps its variant in an unexported field; it has
	// to travel as its canonical text or it would encode as an empty map.
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic("codec: cbor encoder: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType:  reflect.TypeOf(map[string]any(nil)),
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("codec: cbor decoder: " + err.Error())
	}
}

// Marshal encodes v with core deterministic encoding: the same value
// always yields the same bytes.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// Diagnose renders data in CBOR diagnostic notation.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
