// Package normalize implements the title-normalization and fuzzy-similarity
// primitives shared by the catalog scraper and the fitness scorer.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

var romanNumeral = regexp.MustCompile(`^(?i)M{0,4}(CM|CD|D?C{0,3})(XC|XL|L?X{0,3})(IX|IV|V?I{0,3})$`)

var romanValues = []struct {
	symbol string
	value  int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400},
	{"C", 100}, {"XC", 90}, {"L", 50}, {"XL", 40},
	{"X", 10}, {"IX", 9}, {"V", 5}, {"IV", 4}, {"I", 1},
}

// Normalize lowercases s, collapses whitespace-separated Roman numeral
// tokens to their decimal value, strips leading zeros from leading digit
// runs within each token, and finally drops every character that is not an
// ASCII letter or digit.
func Normalize(s string) string {
	fields := strings.Fields(s)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, normalizeToken(f))
	}
	joined := strings.ToLower(strings.Join(parts, ""))
	return nonAlnum.ReplaceAllString(joined, "")
}

func normalizeToken(token string) string {
	if isRomanNumeral(token) {
		return romanToInt(token)
	}
	return stripLeadingZeros(token)
}

func isRomanNumeral(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		switch unicode.ToUpper(r) {
		case 'I', 'V', 'X', 'L', 'C', 'D', 'M':
		default:
			return false
		}
	}
	return romanNumeral.MatchString(token)
}

func romanToInt(token string) string {
	upper := strings.ToUpper(token)
	total := 0
	i := 0
	for _, rv := range romanValues {
		for strings.HasPrefix(upper[i:], rv.symbol) {
			total += rv.value
			i += len(rv.symbol)
		}
	}
	return intToString(total)
}

func intToString(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func stripLeadingZeros(token string) string {
	i := 0
	for i < len(token) && token[i] >= '0' && token[i] <= '9' {
		i++
	}
	if i == 0 {
		return token
	}
	digits := token[:i]
	rest := token[i:]
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return trimmed + rest
}

// IntToRoman renders n (1..3999) as an uppercase Roman numeral. Used by the
// catalog title-variant expander to build forms like "Bakuman III".
func IntToRoman(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			b.WriteString(rv.symbol)
			n -= rv.value
		}
	}
	return b.String()
}

// Ratio returns the longest-common-subsequence-based similarity of a and b
// in [0, 1], the same measure Python's difflib.SequenceMatcher.ratio()
// computes.
func Ratio(a, b string) float64 {
	matcher := difflib.NewMatcher(splitChars(a), splitChars(b))
	return matcher.Ratio()
}

func splitChars(s string) []string {
	runes := []rune(s)
	chars := make([]string, len(runes))
	for i, r := range runes {
		chars[i] = string(r)
	}
	return chars
}
