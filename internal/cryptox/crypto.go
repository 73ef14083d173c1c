// Package cryptox computes content digests for saved recordings.
//
// Digests are BLAKE2b-256, hex encoded. They are stored alongside video
// metadata and in the journal so a file can later be checked for
// corruption or accidental replacement.
package cryptox

import (
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Checksum returns the hex BLAKE2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ChecksumReader digests everything readable from r.
func ChecksumReader(r io.Reader) (string, int64, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", 0, fmt.Errorf("blake2b init: %w", err)
	}
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, fmt.Errorf("digest read: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// Verify reports whether data matches the expected hex digest.
func Verify(data []byte, expected string) bool {
	return expected != "" && Checksum(data) == expected
}

// Wipe zeroes b in place. Used for secrets read from the terminal.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
