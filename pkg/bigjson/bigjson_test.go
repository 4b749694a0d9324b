package bigjson_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionlab/authkit/pkg/bigjson"
)

func TestUnmarshal_PreservesBigIntegers(t *testing.T) {
	t.Parallel()

	// 2^53+1 is not representable as float64
	data := []byte(`{"id":9007199254740993,"name":"alice"}`)

	var body map[string]any
	require.NoError(t, bigjson.Unmarshal(data, &body))

	num, ok := body["id"].(json.Number)
	require.True(t, ok, "id should decode as json.Number")
	assert.Equal(t, "9007199254740993", num.String())

	id, err := num.Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), id)
}

func TestUnmarshal_NestedContainers(t *testing.T) {
	t.Parallel()

	data := []byte(`{"items":[{"id":18446744073709551615}]}`)

	var body map[string]any
	require.NoError(t, bigjson.Unmarshal(data, &body))

	items := body["items"].([]any)
	item := items[0].(map[string]any)
	assert.Equal(t, json.Number("18446744073709551615"), item["id"])
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	src := []byte(`{"id":9007199254740993}`)

	var body map[string]any
	require.NoError(t, bigjson.Unmarshal(src, &body))

	out, err := bigjson.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, string(src), string(out))
}

func TestDecode_Reader(t *testing.T) {
	t.Parallel()

	var v any
	require.NoError(t, bigjson.Decode(strings.NewReader(`123456789012345678`), &v))
	assert.Equal(t, json.Number("123456789012345678"), v)
}

func TestUnmarshal_TypedTarget(t *testing.T) {
	t.Parallel()

	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, bigjson.Unmarshal([]byte(`{"id":9007199254740993}`), &out))
	assert.Equal(t, int64(9007199254740993), out.ID)
}

func TestUnmarshal_InvalidJSON(t *testing.T) {
	t.Parallel()

	var v any
	assert.Error(t, bigjson.Unmarshal([]byte(`{oops`), &v))
}
