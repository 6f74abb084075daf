package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeSpaces collapses runs of whitespace, including non-breaking spaces, and trims the result.
func NormalizeSpaces(input string) string {
	s := strings.ReplaceAll(input, "\u00A0", " ")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func IntPtr(v int) *int { return &v }

func FloatPtr(v float64) *float64 { return &v }

// The Deref helpers turn a nil pointer into an empty cell value.
func DerefString(v *string) any {
	if v == nil {
		return ""
	}
	return *v
}

func DerefInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func DerefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
