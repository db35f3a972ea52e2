package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// yearSuffixPattern matches a trailing release year such as " (1999)".
var yearSuffixPattern = regexp.MustCompile(`\s*\(\d{4}\)$`)

// NormalizeTitle returns the comparison key for a title: a trailing "(YYYY)"
// is stripped, whitespace trimmed, and the result NFC-normalized and case
// folded so "Amélie (2001)" and "AMÉLIE" compare equal.
func NormalizeTitle(title string) string {
	trimmed := strings.TrimSpace(title)
	trimmed = yearSuffixPattern.ReplaceAllString(trimmed, "")
	trimmed = strings.TrimSpace(trimmed)
	return cases.Fold().String(norm.NFC.String(trimmed))
}

// SameTitle reports whether two titles normalize to the same key.
func SameTitle(a, b string) bool {
	return NormalizeTitle(a) == NormalizeTitle(b)
}

// RuneLen counts user-visible characters.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate clamps s to at most limit runes.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
