package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// Slugify converts a string to a URL-friendly slug
func Slugify(s string) string {
	return slug.Make(s)
}

// SKU derives a stock-keeping code from a material name, e.g. "3mm Acrylic Sheet" -> "3MM-ACRYLIC-SHEET"
func SKU(name string) string {
	return strings.ToUpper(slug.Make(name))
}

// RandomToken returns n random bytes hex-encoded
func RandomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
