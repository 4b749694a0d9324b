package bigjson

import (
	"bytes"
	"encoding/json"
	"io"
)

// Marshal encodes v as JSON. Numeric values held as json.Number are written
// verbatim, so values produced by Unmarshal survive a round-trip unchanged.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes data into v. Numbers destined for untyped containers
// become json.Number rather than float64.
func Unmarshal(data []byte, v any) error {
	return Decode(bytes.NewReader(data), v)
}

// Decode reads a single JSON value from r into v with number preservation.
func Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return dec.Decode(v)
}
