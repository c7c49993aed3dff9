package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// OfficialName builds the canonical "LAST, FIRST" key for grouping
// organizations by authorized official. Returns "" when the last name is
// missing; a missing first name yields "LAST, ".
func OfficialName(last, first *string) string {
	if last == nil {
		return ""
	}
	l := collapse(*last)
	if l == "" {
		return ""
	}
	f := ""
	if first != nil {
		f = collapse(*first)
	}
	return strings.ToUpper(l) + ", " + strings.ToUpper(f)
}

func collapse(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return multiSpace.ReplaceAllString(s, " ")
}
