package query

import "testing"

func TestCycle(t *testing.T) {
	tests := []struct {
		choices []string
		current string
		want    string
	}{
		{Directions, "ASC", "DESC"},
		{Directions, "DESC", "ASC"},
		{Functions, "", "COUNT"},
		{Functions, "MIN", ""},
		{JoinTypes, "", "INNER"},
		{Operators, "IS NULL", "="},
		{Operators, "~", "="},
		{nil, "x", "x"},
	}
	for _, tt := range tests {
		if got := Cycle(tt.choices, tt.current); got != tt.want {
			t.Errorf("Cycle(%v, %q) = %q, want %q", tt.choices, tt.current, got, tt.want)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"select", Select, true},
		{" INSERT ", Insert, true},
		{"Update", Update, true},
		{"delete", Delete, true},
		{"merge", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
