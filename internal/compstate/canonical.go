package compstate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a deterministic JSON encoding of v: object
// keys are sorted, strings are NFC-normalised, and HTML escaping is
// disabled. It is the only serialisation CompCore uses for content
// addressing (state hashes, tiebreaker match identities) — never for
// display.
//
// Only the JSON-safe value shapes produced by this package's own types
// are supported: strings, integers, bools, slices, and
// map[string]any with string-keyed nesting. Floats are rejected, since
// every numeric quantity CompCore hashes (match numbers, league points
// at halves/quarters resolution) is exactly representable as a decimal
// string and floats would reintroduce platform-dependent formatting.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case string:
		return encodeCanonicalString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case MatchNumber:
		fmt.Fprintf(buf, "%d", int(val))
		return nil
	case float64:
		return fmt.Errorf("canonical: floats are forbidden (got %v)", val)
	case []string:
		arr := make([]any, len(val))
		for i, s := range val {
			arr[i] = s
		}
		return encodeCanonicalArray(buf, arr)
	case []any:
		return encodeCanonicalArray(buf, val)
	case map[string]any:
		return encodeCanonicalObject(buf, val)
	default:
		return fmt.Errorf("canonical: unsupported type %T", v)
	}
}

func encodeCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)
	var enc bytes.Buffer
	e := json.NewEncoder(&enc)
	e.SetEscapeHTML(false)
	if err := e.Encode(normalized); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(enc.Bytes(), []byte("\n")))
	return nil
}

func encodeCanonicalArray(buf *bytes.Buffer, arr []any) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeCanonical(buf, elem); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func encodeCanonicalObject(buf *bytes.Buffer, obj map[string]any) error {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeCanonicalString(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := encodeCanonical(buf, obj[k]); err != nil {
			return fmt.Errorf("object[%q]: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}
