package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading and trailing whitespace and collapses
// internal runs of whitespace to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeSubject(subject string) string {
	return TrimAndNormalize(subject)
}

func NormalizeTeacher(teacher string) string {
	return TrimAndNormalize(teacher)
}

func NormalizeClassroom(classroom string) string {
	return TrimAndNormalize(classroom)
}
