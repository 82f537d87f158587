package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a hex SHA-256 of data. Logs carry it in place of the
// document itself.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
