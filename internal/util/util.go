// Package util contains small helpers shared across the SDK.
package util

import "crypto/sha256"

// Sha256 hashes the concatenation of the given chunks.
func Sha256(chunks ...[]byte) []byte {
	hasher := sha256.New()
	for _, chunk := range chunks {
		hasher.Write(chunk)
	}
	return hasher.Sum(nil)
}
