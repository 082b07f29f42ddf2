package emergency

import "testing"

func TestDialNumberFor_KnownCountries(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"us", "911"},
		{"ca", "911"},
		{"gb", "999"},
		{"au", "000"},
		{"in", "112"},
		{"eu", "112"},
	}

	for _, tt := range tests {
		if got := DialNumberFor(tt.code); got != tt.want {
			t.Errorf("DialNumberFor(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestDialNumberFor_CaseInsensitive(t *testing.T) {
	if DialNumberFor("US") != DialNumberFor("us") {
		t.Error("expected DialNumberFor to be case-insensitive")
	}
	if got := DialNumberFor("Gb"); got != "999" {
		t.Errorf("DialNumberFor(\"Gb\") = %q, want 999", got)
	}
}

func TestDialNumberFor_UnknownFallsBackTo112(t *testing.T) {
	for _, code := range []string{"zz", "", "xx", "unknown"} {
		if got := DialNumberFor(code); got != FallbackDialNumber {
			t.Errorf("DialNumberFor(%q) = %q, want %q", code, got, FallbackDialNumber)
		}
	}
}
