package apiclient

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math"
	"reflect"
	"strings"
)

// base64 chunk size for data-URL decoding, a multiple of the 4-character
// quantum so chunks decode independently.
const base64ChunkSize = 4096

// Blob is a content-typed byte payload, the uniform shape every download
// body is coerced into.
type Blob struct {
	Content []byte
	Type    string
}

// IsEmpty reports whether the blob carries no content
func (b Blob) IsEmpty() bool { return len(b.Content) == 0 }

// ToBlob converts a payload of unknown in-memory shape into a Blob tagged
// with contentType. The coercion is total: malformed input degrades to a
// best-effort or empty blob and is logged, never returned as an error.
// Response bodies arrive in wildly different representations depending on
// transport configuration, and this sits on the download success path where
// a failure would strand the caller without a result.
func ToBlob(payload any, contentType string) Blob {
	switch p := payload.(type) {
	case nil:
		return Blob{Type: contentType}
	case Blob:
		return p
	case *Blob:
		if p == nil {
			return Blob{Type: contentType}
		}
		return *p
	case []byte:
		return Blob{Content: p, Type: contentType}
	case json.RawMessage:
		return Blob{Content: p, Type: contentType}
	case string:
		return stringToBlob(p, contentType)
	default:
		return valueToBlob(p, contentType)
	}
}

// stringToBlob handles the two string shapes: a base64 data URL and plain
// text. A failed data-URL decode degrades to literal text.
func stringToBlob(s, contentType string) Blob {
	if !strings.HasPrefix(s, "data:") {
		return Blob{Content: []byte(s), Type: contentType}
	}

	comma := strings.IndexByte(s, ',')
	if comma < 0 {
		return Blob{Content: []byte(s), Type: contentType}
	}

	header, encoded := s[len("data:"):comma], s[comma+1:]

	decoded, err := decodeBase64Chunked(encoded)
	if err != nil {
		slog.Debug("apiclient: data URL decode failed, keeping literal text", "error", err)
		return Blob{Content: []byte(s), Type: contentType}
	}

	if contentType == "" {
		contentType = strings.TrimSuffix(header, ";base64")
	}
	return Blob{Content: decoded, Type: contentType}
}

// decodeBase64Chunked decodes in fixed-size chunks to bound peak memory on
// large data URLs.
func decodeBase64Chunked(encoded string) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(base64.StdEncoding.DecodedLen(len(encoded)))

	for len(encoded) > 0 {
		n := min(len(encoded), base64ChunkSize)
		chunk, err := base64.StdEncoding.DecodeString(encoded[:n])
		if err != nil {
			return nil, err
		}
		out.Write(chunk)
		encoded = encoded[n:]
	}

	return out.Bytes(), nil
}

// valueToBlob coerces the remaining shapes: byte-like sequences element-wise
// and everything else through JSON serialization. Failures degrade to an
// empty blob with the original content type.
func valueToBlob(payload any, contentType string) Blob {
	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Blob{Type: contentType}
		}
		v = v.Elem()
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		content := make([]byte, v.Len())
		for i := 0; i < v.Len(); i++ {
			content[i] = coerceByte(v.Index(i))
		}
		return Blob{Content: content, Type: contentType}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Debug("apiclient: payload serialization failed, degrading to empty blob",
			"error", err)
		return Blob{Type: contentType}
	}
	return Blob{Content: data, Type: contentType}
}

// coerceByte converts one sequence element to an unsigned byte; non-numeric
// and NaN elements become 0.
func coerceByte(v reflect.Value) byte {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0
		}
		v = v.Elem()
	}

	if n, ok := v.Interface().(json.Number); ok {
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return byte(int64(f))
	}

	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return byte(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return byte(v.Uint())
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return byte(int64(f))
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	default:
		return 0
	}
}
