// Package digest fingerprints note content so sync can tell whether a
// source file already has a note in the database.
package digest

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Normalize cleans note content before hashing: lowercased, surrounding
// whitespace trimmed, line endings unified. Two files that differ only in
// casing or trailing whitespace map to the same note.
func Normalize(content string) string {
	c := strings.ToLower(content)
	c = strings.ReplaceAll(c, "\r\n", "\n")
	return strings.TrimSpace(c)
}

// Hash returns the SHA-256 of the normalized content as a hex string.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(Normalize(content)))
	return fmt.Sprintf("%x", sum)
}
