package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	groupedComma = regexp.MustCompile(`^[+-]?\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
	groupedSpace = regexp.MustCompile(`^[+-]?\d{1,3}(?: \d{3})+(?:\.\d+)?$`)
	decimal      = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
)

// CoerceInt parses an integral stat such as "4,256". Sentinels like "AL" or "--" yield nil.
func CoerceInt(raw string) *int {
	token := normalizeNumericToken(raw)
	if token == "" {
		return nil
	}
	parsed, err := strconv.Atoi(token)
	if err != nil {
		return nil
	}
	return IntPtr(parsed)
}

// CoerceFloat parses a fractional stat such as ".366" or "0.4". Unparseable input yields nil,
// and so do NaN, infinities and hex floats.
func CoerceFloat(raw string) *float64 {
	token := normalizeNumericToken(raw)
	if !decimal.MatchString(token) {
		return nil
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil
	}
	return FloatPtr(parsed)
}

func normalizeNumericToken(raw string) string {
	s := strings.ReplaceAll(raw, "\u00A0", " ")
	s = strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
	if groupedComma.MatchString(s) {
		return strings.ReplaceAll(s, ",", "")
	}
	if groupedSpace.MatchString(s) {
		return strings.ReplaceAll(s, " ", "")
	}
	return strings.ReplaceAll(s, ",", "")
}
