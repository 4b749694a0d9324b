// Package bigjson provides JSON encoding helpers that preserve 64-bit
// integer identifiers across (de)serialization.
//
// The default behavior of encoding/json is to decode any numeric value into
// float64 when the target is an untyped container (map[string]any, []any,
// any). Identifiers beyond 2^53 silently lose precision that way. This
// package decodes numbers as json.Number instead, so callers working with
// dynamic payloads can round-trip snowflake-style IDs without corruption.
//
// Typed targets (struct fields declared int64, json.Number, string) are
// unaffected by the float64 problem and work identically through both this
// package and encoding/json; bigjson exists for the dynamic paths.
//
// # Usage
//
//	var body map[string]any
//	if err := bigjson.Unmarshal(data, &body); err != nil {
//		// handle error
//	}
//	id := body["id"].(json.Number) // "9007199254740993", intact
package bigjson
