// Package canonical produces the deterministic JSON encoding that license
// signatures and device fingerprints are computed over.
//
// The encoding must stay byte-for-byte identical to the one used by the
// offline signing tool: object keys are sorted, arrays keep their order,
// strings are escaped the way ECMAScript JSON.stringify escapes them and
// numbers use the shortest round-trip form. No whitespace is emitted.
package canonical

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Marshal returns the canonical encoding of v.
//
// v must be a JSON-like tree as produced by json.Unmarshal into an any:
// map[string]any, []any, string, float64, bool or nil. json.Number and Go
// integer types are accepted as well so callers can canonicalize facts they
// build themselves.
func Marshal(v any) (string, error) {
	var sb strings.Builder
	if err := encode(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// MustMarshal is like Marshal but panics on unsupported types. It is meant
// for values built in code, never for untrusted input.
func MustMarshal(v any) string {
	s, err := Marshal(v)
	if err != nil {
		panic(err)
	}
	return s
}

func encode(sb *strings.Builder, v any) error {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case string:
		writeString(sb, val)
	case float64:
		writeFloat(sb, val)
	case float32:
		writeFloat(sb, float64(val))
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return fmt.Errorf("canonical: invalid number %q: %w", val.String(), err)
		}
		writeFloat(sb, f)
	case int:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case int32:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		sb.WriteString(strconv.FormatInt(val, 10))
	case uint32:
		sb.WriteString(strconv.FormatUint(uint64(val), 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(val, 10))
	case []any:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := encode(sb, elem); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case []string:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, elem)
		}
		sb.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeString(sb, k)
			sb.WriteByte(':')
			if err := encode(sb, val[k]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("canonical: unsupported type %T", v)
	}
	return nil
}

// writeFloat follows ECMAScript Number::toString. encoding/json already
// formats float64 that way; only negative zero and non-finite values need
// special handling.
func writeFloat(sb *strings.Builder, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		sb.WriteString("null")
		return
	}
	if f == 0 {
		sb.WriteByte('0')
		return
	}
	b, _ := json.Marshal(f)
	sb.Write(b)
}

const hexDigits = "0123456789abcdef"

// writeString quotes s the way JSON.stringify does: only the quote, the
// backslash and C0 control characters are escaped. Invalid UTF-8 is
// replaced with U+FFFD, matching what encoding/json decoding produces.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				sb.WriteString(`\"`)
			case '\\':
				sb.WriteString(`\\`)
			case '\b':
				sb.WriteString(`\b`)
			case '\f':
				sb.WriteString(`\f`)
			case '\n':
				sb.WriteString(`\n`)
			case '\r':
				sb.WriteString(`\r`)
			case '\t':
				sb.WriteString(`\t`)
			default:
				if c < 0x20 {
					sb.WriteString(`\u00`)
					sb.WriteByte(hexDigits[c>>4])
					sb.WriteByte(hexDigits[c&0xF])
				} else {
					sb.WriteByte(c)
				}
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			sb.WriteRune(utf8.RuneError)
		} else {
			sb.WriteString(s[i : i+size])
		}
		i += size
	}
	sb.WriteByte('"')
}
