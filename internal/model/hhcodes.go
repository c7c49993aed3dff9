package model

import "fmt"

// HomeHealthCodes is the HCPCS code set that scopes Signal 6:
// G0151-G0162, G0299-G0300, S9122-S9124, T1019-T1022.
var HomeHealthCodes = buildHomeHealthCodes()

func buildHomeHealthCodes() map[string]bool {
	codes := make(map[string]bool)
	for _, r := range []struct {
		prefix     string
		start, end int
	}{
		{"G", 151, 162},
		{"G", 299, 300},
		{"S", 9122, 9124},
		{"T", 1019, 1022},
	} {
		for n := r.start; n <= r.end; n++ {
			codes[fmt.Sprintf("%s%04d", r.prefix, n)] = true
		}
	}
	return codes
}

// IsHomeHealthCode reports whether the code is in the home health set.
func IsHomeHealthCode(code string) bool {
	return HomeHealthCodes[code]
}
