package canonical

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, text string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	return v
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{name: "null", input: nil, expected: "null"},
		{name: "true", input: true, expected: "true"},
		{name: "false", input: false, expected: "false"},
		{name: "integer float", input: float64(100), expected: "100"},
		{name: "fraction", input: 1.5, expected: "1.5"},
		{name: "negative zero", input: math.Copysign(0, -1), expected: "0"},
		{name: "large exponent", input: 1e21, expected: "1e+21"},
		{name: "small exponent", input: 0.0000001, expected: "1e-7"},
		{name: "below exponent threshold", input: 1e20, expected: "100000000000000000000"},
		{name: "not a number", input: math.NaN(), expected: "null"},
		{name: "int64", input: int64(17179869184), expected: "17179869184"},
		{name: "uint64", input: uint64(42), expected: "42"},
		{name: "json number", input: json.Number("2.50"), expected: "2.5"},
		{name: "empty object", input: map[string]any{}, expected: "{}"},
		{name: "empty array", input: []any{}, expected: "[]"},
		{name: "string slice", input: []string{"b", "a"}, expected: `["b","a"]`},
		{
			name:     "sorted keys",
			input:    map[string]any{"b": float64(1), "a": float64(2), "C": float64(3)},
			expected: `{"C":3,"a":2,"b":1}`,
		},
		{
			name:     "nested structures",
			input:    decode(t, `{"b":1,"a":[3,{"d":true,"c":null}]}`),
			expected: `{"a":[3,{"c":null,"d":true}],"b":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarshalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain", input: "hello", expected: `"hello"`},
		{name: "quote and backslash", input: `a"b\c`, expected: `"a\"b\\c"`},
		{name: "short escapes", input: "\b\f\n\r\t", expected: `"\b\f\n\r\t"`},
		{name: "other control characters", input: "\x01\x1f", expected: `"\u0001\u001f"`},
		{name: "html characters are literal", input: "<a&b>", expected: `"<a&b>"`},
		{name: "non-ascii is literal", input: "شركة اليسر", expected: `"شركة اليسر"`},
		{name: "line separators are literal", input: "a\u2028b\u2029", expected: "\"a\u2028b\u2029\""},
		{name: "delete is literal", input: "\x7f", expected: "\"\x7f\""},
		{name: "invalid utf8 is replaced", input: "a\xffb", expected: "\"a�b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMarshalIsOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{`{"a":1,"b":2}`, `{"b":2,"a":1}`},
		{
			`{"licenseId":"L-1","features":["x","y"],"meta":{"z":1,"y":[{"q":1,"p":2}]}}`,
			`{"meta":{"y":[{"p":2,"q":1}],"z":1},"features":["x","y"],"licenseId":"L-1"}`,
		},
	}

	for _, pair := range pairs {
		first, err := Marshal(decode(t, pair[0]))
		require.NoError(t, err)
		second, err := Marshal(decode(t, pair[1]))
		require.NoError(t, err)
		assert.Equal(t, first, second)

		again, err := Marshal(decode(t, pair[0]))
		require.NoError(t, err)
		assert.Equal(t, first, again, "repeated canonicalization must be stable")
	}
}

func TestMarshalKeepsArrayOrder(t *testing.T) {
	first, err := Marshal(decode(t, `["a","b"]`))
	require.NoError(t, err)
	second, err := Marshal(decode(t, `["b","a"]`))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestMarshalUnsupportedType(t *testing.T) {
	_, err := Marshal(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")

	_, err = Marshal(map[string]any{"nested": []any{make(chan int)}})
	require.Error(t, err)

	assert.Panics(t, func() { MustMarshal(struct{}{}) })
}

func TestMarshalDeepNesting(t *testing.T) {
	var v any = "leaf"
	for i := 0; i < 500; i++ {
		v = []any{map[string]any{"k": v}}
	}
	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, out, `"leaf"`)
}
