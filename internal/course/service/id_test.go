package service

import "testing"

func TestParseID(t *testing.T) {
	cases := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"2", 2, true},
		{"2abc", 2, true},
		{" 7", 7, true},
		{"+3", 3, true},
		{"-1", -1, true},
		{"0x10", 16, true},
		{"007", 7, true},
		{"abc", 0, false},
		{"", 0, false},
		{"0x", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseID(tc.raw)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseID(%q) = %d, %v; want %d, %v", tc.raw, got, ok, tc.want, tc.ok)
		}
	}
}
