package xid

import (
	"strings"

	"github.com/google/uuid"
)

// New returns an 8-character opaque identifier, the format the existing
// sheets already contain in ID_PRODUCTO and ID_VENTA.
func New() string {
	return uuid.NewString()[:8]
}

// Short returns the first n characters of a random UUID, uppercased.
func Short(n int) string {
	s := strings.ToUpper(uuid.NewString())
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
