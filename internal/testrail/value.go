package testrail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind tags the JSON shape of a custom-field value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindObject
)

// Value holds one custom-field value in its wire form. The raw bytes are
// kept verbatim so a fetched value re-encodes to exactly what the server
// sent; decoding through interface{} would damage large integers.
type Value struct {
	raw json.RawMessage
}

// String builds a string value.
func String(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: b}
}

// Int builds an integer value.
func Int(n int) Value {
	return Value{raw: []byte(strconv.Itoa(n))}
}

// Bool builds a boolean value.
func Bool(b bool) Value {
	return Value{raw: []byte(strconv.FormatBool(b))}
}

// Raw wraps already-encoded JSON bytes as a value.
func Raw(data []byte) Value {
	return Value{raw: append(json.RawMessage(nil), data...)}
}

// List builds a list value from already-built elements.
func List(items ...Value) Value {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(item.JSON())
	}
	buf.WriteByte(']')
	return Value{raw: buf.Bytes()}
}

// Marshal encodes v (via encoding/json) into a value.
func Marshal(v any) (Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Value{}, err
	}
	return Value{raw: b}, nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw == nil {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	v.raw = append(v.raw[:0], data...)
	return nil
}

// JSON returns the wire bytes of the value ("null" when unset).
func (v Value) JSON() []byte {
	if v.raw == nil {
		return []byte("null")
	}
	return v.raw
}

// Kind reports the JSON shape of the value.
func (v Value) Kind() ValueKind {
	trimmed := bytes.TrimSpace(v.raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return KindNull
	}
	switch trimmed[0] {
	case '"':
		return KindString
	case '[':
		return KindList
	case '{':
		return KindObject
	case 't', 'f':
		return KindBool
	default:
		return KindNumber
	}
}

// IsNull reports whether the value is absent or JSON null.
func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

// AsString decodes a string value.
func (v Value) AsString() (string, bool) {
	var s string
	if err := json.Unmarshal(v.JSON(), &s); err != nil {
		return "", false
	}
	return s, true
}

// AsInt decodes an integer value.
func (v Value) AsInt() (int, bool) {
	n, err := strconv.Atoi(string(bytes.TrimSpace(v.JSON())))
	if err != nil {
		return 0, false
	}
	return n, true
}

// AsBool decodes a boolean value.
func (v Value) AsBool() (bool, bool) {
	var b bool
	if err := json.Unmarshal(v.JSON(), &b); err != nil {
		return false, false
	}
	return b, true
}

// AsList decodes a list value into its elements.
func (v Value) AsList() ([]Value, bool) {
	var items []Value
	if err := json.Unmarshal(v.JSON(), &items); err != nil {
		return nil, false
	}
	return items, true
}

// Decode unmarshals the value into out.
func (v Value) Decode(out any) error {
	return json.Unmarshal(v.JSON(), out)
}

// Display renders the value for human-facing output: strings decode,
// scalars print as-is, lists join their displays with ", ".
func (v Value) Display() string {
	switch v.Kind() {
	case KindNull:
		return ""
	case KindString:
		s, _ := v.AsString()
		return s
	case KindList:
		items, ok := v.AsList()
		if !ok {
			return string(v.JSON())
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = item.Display()
		}
		return strings.Join(parts, ", ")
	default:
		return string(bytes.TrimSpace(v.JSON()))
	}
}

// Fields is a dynamic field dictionary keyed by remote field name.
// Case payloads and custom-field records both use this shape because the
// set of legal keys depends on the template and is only known at runtime.
type Fields map[string]Value

// Has reports whether key is present.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// Equal reports whether two field sets carry identical wire bytes.
func (f Fields) Equal(other Fields) bool {
	if len(f) != len(other) {
		return false
	}
	for k, v := range f {
		ov, ok := other[k]
		if !ok || !bytes.Equal(v.JSON(), ov.JSON()) {
			return false
		}
	}
	return true
}

func (f Fields) String() string {
	b, err := json.Marshal(f)
	if err != nil {
		return fmt.Sprintf("fields<%v>", err)
	}
	return string(b)
}
