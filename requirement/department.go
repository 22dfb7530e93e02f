package requirement

import (
	"regexp"
	"strconv"
)

var courseCodePattern = regexp.MustCompile(`^([A-Z]{2,4})([0-9]{1,4})([A-Z]{0,2})$`)

// Code is a parsed course code such as CSCI183L.
type Code struct {
	Text   string
	Dept   string
	Number int
	Suffix string

	leadingZero bool
}

func ParseCode(text string) (Code, bool) {
	submatches := courseCodePattern.FindStringSubmatch(text)
	if submatches == nil {
		return Code{}, false
	}
	number, err := strconv.Atoi(submatches[2])
	if err != nil {
		return Code{}, false
	}
	return Code{
		Text:        text,
		Dept:        submatches[1],
		Number:      number,
		Suffix:      submatches[3],
		leadingZero: len(submatches[2]) > 1 && submatches[2][0] == '0',
	}, true
}

// Department returns the leading letter run of a course code, so
// Department("CSCI183") is "CSCI".
func Department(code string) string {
	end := 0
	for end < len(code) && code[end] >= 'A' && code[end] <= 'Z' {
		end++
	}
	return code[:end]
}

// Variants returns the codes that satisfy a reference to code. A code
// without a suffix is also satisfied by its honors (H) and transfer (T)
// versions.
func Variants(code string) []string {
	c, ok := ParseCode(code)
	if !ok || c.Suffix != "" {
		return []string{code}
	}
	return []string{code, code + "H", code + "T"}
}
