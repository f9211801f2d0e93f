// Package price normalizes the money format the operators actually type:
// period as thousands separator, comma as decimal separator ("2.000,50").
package price

import (
	"fmt"
	"strconv"
	"strings"
)

// Separator normalization: spaces (including non-breaking ones) and thousand
// periods are removed, the decimal comma becomes a period.
var replacer = strings.NewReplacer("\u00a0", "", "\u202f", "", " ", "", ".", "", ",", ".")

// Parse coerces a cell value to a float64 and never fails: a malformed
// string or an unsupported type yields 0. Callers must not rely on a parse
// failure being observable except as a zero value.
func Parse(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := ParseStrict(x)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ParseStrict applies the same separator normalization as Parse but reports
// malformed input instead of collapsing it to zero. Bulk import uses it so a
// typo in a price column fails the import instead of silently zeroing the
// price.
func ParseStrict(s string) (float64, error) {
	cleaned := replacer.Replace(strings.TrimSpace(s))
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	return f, nil
}

// Format renders an amount so it round-trips through Parse: comma decimal
// separator, no thousands separator.
func Format(f float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(f, 'f', -1, 64), ".", ",")
}
