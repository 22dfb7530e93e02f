package requirement

import (
	"regexp"
	"strings"
)

var legacyExclusion = regexp.MustCompile(`\)(\s*)-(\s*)\(`)

// Normalize rewrites the legacy dialect (&&, ||, and "(...) - (...)"
// exclusions) into the canonical one. Offsets are preserved, so error
// positions still point into the original text.
func Normalize(expression string) string {
	expression = strings.ReplaceAll(expression, "||", "| ")
	expression = strings.ReplaceAll(expression, "&&", "& ")
	return legacyExclusion.ReplaceAllString(expression, ")${1}!${2}(")
}
