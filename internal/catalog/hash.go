package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/conorfennell/zeal/internal/domain"
)

// Normalize joins the item's fields after lowercasing, trimming and
// converting CRLF line endings. Fields are separated by newlines so that
// adjacent fields cannot run together.
func Normalize(item domain.Item) string {
	clean := func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimSpace(s)
		return strings.ReplaceAll(s, "\r\n", "\n")
	}
	return strings.Join([]string{clean(item.Front), clean(item.Back), clean(item.Context)}, "\n")
}

// ItemID returns the hex SHA-256 of the normalized item.
func ItemID(item domain.Item) string {
	sum := sha256.Sum256([]byte(Normalize(item)))
	return hex.EncodeToString(sum[:])
}
