package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize upper-cases s and strips diacritics, so "Lámpara Azúl" becomes
// "LAMPARA AZUL". Search matching and SKU derivation both operate on this
// canonical form.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// Clean is the lenient entry point for cell values of unknown type: strings
// are normalized, anything else collapses to an empty string.
func Clean(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return Normalize(s)
}
