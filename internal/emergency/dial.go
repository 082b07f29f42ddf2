package emergency

import "strings"

// NormalizeDial strips every character except digits, keeping a single
// leading '+'. An input with no digits normalizes to the empty string and the
// contact carrying it is dropped before ranking.
func NormalizeDial(number string) string {
	var b strings.Builder
	for i, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "+" {
		return ""
	}
	return s
}
