package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize joins a card's front, back and notes after cleaning each part.
// It trims whitespace, lowercases, and normalizes line endings for each field.
func Normalize(front, back, notes string) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		p = strings.ReplaceAll(p, "\t", " ")
		return strings.TrimSpace(p)
	}

	// Newline keeps "ab"+"c" apart from "a"+"bc".
	return strings.Join([]string{normalizePart(front), normalizePart(back), normalizePart(notes)}, "\n")
}

// Of returns the SHA-256 of the normalized content as a hex string.
// Cards that differ only in case, surrounding whitespace or tabs share a
// fingerprint, which is what duplicate detection on import relies on.
func Of(front, back, notes string) string {
	sum := sha256.Sum256([]byte(Normalize(front, back, notes)))
	return fmt.Sprintf("%x", sum)
}
