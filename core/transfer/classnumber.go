package transfer

import (
	"regexp"
	"strconv"
	"strings"
)

// GraduatingGrade is the prefix of class numbers whose promotion means leaving school.
const GraduatingGrade = "11"

var classNumberRegex = regexp.MustCompile(`^(\d+)(.*)$`)

// ParseClassNumber splits a class number into its leading digits and the rest:
// "5А" -> ("5", "А"), "11" -> ("11", ""), "А" -> ("", "А").
func ParseClassNumber(number string) (digits, suffix string) {
	number = strings.TrimSpace(number)
	m := classNumberRegex.FindStringSubmatch(number)
	if m == nil {
		return "", number
	}
	return m[1], m[2]
}

// IncrementClassNumber adds one to the grade and keeps the section suffix:
// "5А" -> "6А", "10Б" -> "11Б". ok is false, and number is returned as is,
// when there is no leading grade to increment.
func IncrementClassNumber(number string) (next string, ok bool) {
	digits, suffix := ParseClassNumber(number)
	if digits == "" {
		return number, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return number, false
	}
	return strconv.Itoa(n+1) + suffix, true
}

// IsGraduating reports whether promoting this class archives its pupils.
func IsGraduating(number string) bool {
	return strings.HasPrefix(strings.TrimSpace(number), GraduatingGrade)
}
