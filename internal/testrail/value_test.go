package testrail

import (
	"encoding/json"
	"testing"
)

func TestValueKind(t *testing.T) {
	tests := []struct {
		name string
		json string
		want ValueKind
	}{
		{name: "string", json: `"hello"`, want: KindString},
		{name: "number", json: `42`, want: KindNumber},
		{name: "negative number", json: `-7`, want: KindNumber},
		{name: "true", json: `true`, want: KindBool},
		{name: "false", json: `false`, want: KindBool},
		{name: "list", json: `[1,2]`, want: KindList},
		{name: "object", json: `{"a":1}`, want: KindObject},
		{name: "null", json: `null`, want: KindNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Raw([]byte(tt.json)).Kind(); got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
	if got := (Value{}).Kind(); got != KindNull {
		t.Errorf("zero Value Kind() = %v, want KindNull", got)
	}
}

func TestValuePreservesWireBytes(t *testing.T) {
	// Large ids would be damaged by a float64 round trip.
	original := []byte(`{"custom_big": 9007199254740993, "custom_text": "x"}`)
	var fields Fields
	if err := json.Unmarshal(original, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	out, err := json.Marshal(fields["custom_big"])
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "9007199254740993" {
		t.Errorf("large int re-encoded as %s", out)
	}
}

func TestValueAccessors(t *testing.T) {
	if s, ok := String("abc").AsString(); !ok || s != "abc" {
		t.Errorf("AsString() = (%q, %v)", s, ok)
	}
	if n, ok := Int(42).AsInt(); !ok || n != 42 {
		t.Errorf("AsInt() = (%d, %v)", n, ok)
	}
	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Errorf("AsBool() = (%v, %v)", b, ok)
	}
	if _, ok := String("abc").AsInt(); ok {
		t.Error("AsInt() on a string should fail")
	}
	items, ok := List(Int(1), String("two")).AsList()
	if !ok || len(items) != 2 {
		t.Fatalf("AsList() = (%v, %v)", items, ok)
	}
	if n, _ := items[0].AsInt(); n != 1 {
		t.Errorf("first element = %d", n)
	}
}

func TestValueDisplay(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "string decodes", value: String("hello"), want: "hello"},
		{name: "number as-is", value: Int(5), want: "5"},
		{name: "null is empty", value: Value{}, want: ""},
		{name: "list joins", value: List(String("a"), String("b")), want: "a, b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFieldsEqual(t *testing.T) {
	a := Fields{"custom_mission": String("Test App"), "priority_id": Int(2)}
	b := Fields{"custom_mission": String("Test App"), "priority_id": Int(2)}
	c := Fields{"custom_mission": String("Other"), "priority_id": Int(2)}
	d := Fields{"custom_mission": String("Test App")}

	if !a.Equal(b) {
		t.Error("identical field sets should compare equal")
	}
	if a.Equal(c) {
		t.Error("differing values should not compare equal")
	}
	if a.Equal(d) {
		t.Error("differing key sets should not compare equal")
	}
}
