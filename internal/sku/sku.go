package sku

import (
	"strings"
	"unicode"

	"tiendafacil/backend/internal/textnorm"
	"tiendafacil/backend/internal/xid"
)

// Generate derives a short, human-readable product code from a name: the
// first three letters plus every digit of the normalized name, then a random
// three-character suffix ("Lámpara LED 12V" -> "LAM12-4F7"). The suffix
// keeps repeated imports of the same name from colliding; uniqueness is
// probabilistic, which is plenty for a catalog this size. An empty name
// yields a purely random six-character token.
func Generate(name string) string {
	if strings.TrimSpace(name) == "" {
		return xid.Short(6)
	}

	clean := textnorm.Normalize(name)
	var letters, digits strings.Builder
	for _, r := range clean {
		switch {
		case unicode.IsLetter(r) && letters.Len() < 3:
			letters.WriteRune(r)
		case unicode.IsDigit(r):
			digits.WriteRune(r)
		}
	}

	return letters.String() + digits.String() + "-" + xid.Short(3)
}
