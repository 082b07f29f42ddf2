package emergency

import "strings"

// FallbackDialNumber is the international emergency number used for any
// country code not present in the table.
const FallbackDialNumber = "112"

var dialNumbers = map[string]string{
	"us": "911",
	"ca": "911",
	"gb": "999",
	"au": "000",
	"in": "112",
	"eu": "112",
}

// DialNumberFor returns the canonical emergency number for a country code.
// Case-insensitive, total: unknown codes map to FallbackDialNumber.
func DialNumberFor(countryCode string) string {
	if n, ok := dialNumbers[strings.ToLower(countryCode)]; ok {
		return n
	}
	return FallbackDialNumber
}
