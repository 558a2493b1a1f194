package convert

import (
	"reflect"
	"testing"
)

func TestToString(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		fallback string
		want     string
	}{
		{"string", "hello", "", "hello"},
		{"int", 42, "", "42"},
		{"int64", int64(42), "", "42"},
		{"uint", uint(42), "", "42"},
		{"uint64", uint64(42), "", "42"},
		{"float64 integral", float64(12345), "", "12345"},
		{"float64 fractional", 42.5, "", "42.5"},
		{"bool", true, "", "true"},
		{"nil", nil, "x", "x"},
		{"unsupported", []int{1}, "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToString(tt.input, tt.fallback); got != tt.want {
				t.Errorf("ToString(%v, %q) = %q, want %q", tt.input, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestToRef(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"zero float", float64(0), ""},
		{"zero int", 0, ""},
		{"id as float", float64(999), "999"},
		{"id as int", 123, "123"},
		{"id as string", "456", "456"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRef(tt.input); got != tt.want {
				t.Errorf("ToRef(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToStringSlice(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  []string
	}{
		{"nil", nil, nil},
		{"not a list", "x", nil},
		{"floats with nil entries", []interface{}{float64(1), nil, float64(2)}, []string{"1", "2"}},
		{"strings", []interface{}{"a", "b"}, []string{"a", "b"}},
		{"empty", []interface{}{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToStringSlice(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToStringSlice(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		fallback int
		want     int
	}{
		{"int", 42, 0, 42},
		{"int64", int64(42), 0, 42},
		{"float64", float64(42.9), 0, 42},
		{"string valid", "42", 0, 42},
		{"string invalid", "abc", 99, 99},
		{"nil", nil, 99, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToInt(tt.input, tt.fallback); got != tt.want {
				t.Errorf("ToInt(%v, %d) = %v, want %v", tt.input, tt.fallback, got, tt.want)
			}
		})
	}
}
