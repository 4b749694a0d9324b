package apiclient_test

import (
	"encoding/base64"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionlab/authkit/pkg/apiclient"
)

func TestToBlob_Nil(t *testing.T) {
	t.Parallel()

	blob := apiclient.ToBlob(nil, "application/pdf")
	assert.True(t, blob.IsEmpty())
	assert.Equal(t, "application/pdf", blob.Type)
}

func TestToBlob_Identity(t *testing.T) {
	t.Parallel()

	original := apiclient.Blob{Content: []byte("x"), Type: "text/plain"}
	assert.Equal(t, original, apiclient.ToBlob(original, "ignored"))
}

func TestToBlob_Bytes(t *testing.T) {
	t.Parallel()

	blob := apiclient.ToBlob([]byte("file content"), "application/octet-stream")
	assert.Equal(t, []byte("file content"), blob.Content)
	assert.Equal(t, "application/octet-stream", blob.Type)
}

func TestToBlob_PlainString(t *testing.T) {
	t.Parallel()

	blob := apiclient.ToBlob("hello", "text/plain")
	assert.Equal(t, []byte("hello"), blob.Content)
}

func TestToBlob_DataURL(t *testing.T) {
	t.Parallel()

	payload := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString([]byte("pdf bytes"))

	blob := apiclient.ToBlob(payload, "application/pdf")
	assert.Equal(t, []byte("pdf bytes"), blob.Content)
	assert.Equal(t, "application/pdf", blob.Type)
}

func TestToBlob_DataURLLarge(t *testing.T) {
	t.Parallel()

	// Bigger than one decode chunk
	content := []byte(strings.Repeat("0123456789abcdef", 1024))
	payload := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(content)

	blob := apiclient.ToBlob(payload, "")
	assert.Equal(t, content, blob.Content)
	assert.Equal(t, "application/octet-stream", blob.Type)
}

func TestToBlob_MalformedDataURLDegradesToText(t *testing.T) {
	t.Parallel()

	payload := "data:application/pdf;base64,!!!not-base64!!!"

	blob := apiclient.ToBlob(payload, "application/pdf")
	assert.Equal(t, []byte(payload), blob.Content)
	assert.Equal(t, "application/pdf", blob.Type)
}

func TestToBlob_NumericSlices(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload any
		want    []byte
	}{
		{"ints", []int{72, 105}, []byte{72, 105}},
		{"floats", []float64{72.9, 105.1}, []byte{72, 105}},
		{"mixed with non-numeric", []any{72, "x", nil, 105.0}, []byte{72, 0, 0, 105}},
		{"json numbers", []any{json.Number("72"), json.Number("105")}, []byte{72, 105}},
		{"nan becomes zero", []float64{1, math.NaN(), 3}, []byte{1, 0, 3}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, apiclient.ToBlob(tt.payload, "application/octet-stream").Content)
		})
	}
}

func TestToBlob_PlainObjectSerializedAsJSON(t *testing.T) {
	t.Parallel()

	blob := apiclient.ToBlob(map[string]string{"key": "value"}, "application/json")

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(blob.Content, &decoded))
	assert.Equal(t, "value", decoded["key"])
}

func TestToBlob_UnserializableDegradesToEmpty(t *testing.T) {
	t.Parallel()

	// Channels cannot be JSON-serialized
	blob := apiclient.ToBlob(map[string]any{"ch": make(chan int)}, "application/json")
	assert.True(t, blob.IsEmpty())
	assert.Equal(t, "application/json", blob.Type)
}

func TestToBlob_CyclicStructureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	type node struct {
		Next *node `json:"next"`
	}
	n := &node{}
	n.Next = n

	assert.NotPanics(t, func() {
		blob := apiclient.ToBlob(n, "application/json")
		assert.True(t, blob.IsEmpty())
	})
}

func TestToBlob_NilPointer(t *testing.T) {
	t.Parallel()

	var p *struct{ X int }
	blob := apiclient.ToBlob(p, "application/json")
	assert.True(t, blob.IsEmpty())
	assert.Equal(t, "application/json", blob.Type)
}
