package parse

import (
	"reflect"
	"testing"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "plain id", input: "42", want: 42},
		{name: "surrounding whitespace", input: " 7 ", want: 7},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "negative rejected", input: "-3", wantErr: true},
		{name: "non-numeric rejected", input: "abc", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseID() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseID() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int
		wantErr bool
	}{
		{name: "single", input: "5", want: []int{5}},
		{name: "multiple", input: "1,2,3", want: []int{1, 2, 3}},
		{name: "spaces and empties", input: " 1, ,2, 3 ", want: []int{1, 2, 3}},
		{name: "empty input yields nil", input: "", want: nil},
		{name: "bad element", input: "1,x,3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDList(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIDList() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIDList() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "epoch seconds", input: "1700000000", want: 1700000000},
		{name: "date only", input: "2023-11-14", want: 1699920000},
		{name: "datetime no zone is UTC", input: "2023-11-14T22:13:20", want: 1700000000},
		{name: "datetime with space", input: "2023-11-14 22:13:20", want: 1700000000},
		{name: "rfc3339 with zone", input: "2023-11-14T22:13:20Z", want: 1700000000},
		{name: "negative epoch rejected", input: "-5", wantErr: true},
		{name: "past 2100 rejected", input: "4102444801", wantErr: true},
		{name: "garbage rejected", input: "next tuesday", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantKey   string
		wantValue string
		wantErr   bool
	}{
		{name: "simple", input: "suite_id=3", wantKey: "suite_id", wantValue: "3"},
		{name: "value with equals", input: "filter=a=b", wantKey: "filter", wantValue: "a=b"},
		{name: "empty value allowed", input: "flag=", wantKey: "flag", wantValue: ""},
		{name: "missing separator", input: "nope", wantErr: true},
		{name: "empty key", input: "=v", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, value, err := ParseKeyValue(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseKeyValue() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if key != tt.wantKey || value != tt.wantValue {
				t.Errorf("ParseKeyValue() = (%q, %q), want (%q, %q)", key, value, tt.wantKey, tt.wantValue)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(" a, b ,,c ")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseList() = %v, want %v", got, want)
	}
	if ParseList("") != nil {
		t.Errorf("ParseList(\"\") should be nil")
	}
}
