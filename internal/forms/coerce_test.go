package forms

import "testing"

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"-", 0},
		{"42", 42},
		{" 2001 ", 2001},
		{"12abc", 12},
		{"3.9", 3},
		{"-7", -7},
		{"+8", 8},
	}

	for _, tt := range tests {
		if got := CoerceInt(tt.in); got != tt.want {
			t.Errorf("CoerceInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"x", 0},
		{"2.5", 2.5},
		{"2,5", 2.5},
		{"10.", 10},
		{"1.2.3", 1.2},
	}

	for _, tt := range tests {
		if got := CoerceFloat(tt.in); got != tt.want {
			t.Errorf("CoerceFloat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCoerceBool(t *testing.T) {
	for _, in := range []string{"true", "on", "1", "Sí", " yes "} {
		if !CoerceBool(in) {
			t.Errorf("CoerceBool(%q) = false, want true", in)
		}
	}
	for _, in := range []string{"", "false", "no", "0", "maybe"} {
		if CoerceBool(in) {
			t.Errorf("CoerceBool(%q) = true, want false", in)
		}
	}
}
