package normalize

import "strings"

// NPI trims whitespace and zero-pads to 10 digits, matching the
// normalization applied across all three input tables so exact-key joins
// line up.
func NPI(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}

// ValidNPI reports whether a normalized NPI is usable as a join key.
// Empty and all-zero NPIs are placeholders in the source data.
func ValidNPI(npi string) bool {
	return npi != "" && npi != "0000000000"
}
