package emergency

import "testing"

func TestNormalizeDial(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (800) 555-1234", "+18005551234"},
		{"911", "911"},
		{"0141 287 2000", "01412872000"},
		{"+91-141-2744447", "+911412744447"},
		{"", ""},
		{"call us", ""},
		{"+", ""},
		{"1+2", "12"},
	}

	for _, tt := range tests {
		if got := NormalizeDial(tt.in); got != tt.want {
			t.Errorf("NormalizeDial(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
