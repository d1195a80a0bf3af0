// Package cryptox computes the content digest exchanged between the client
// and the intake server: lowercase hex of BLAKE2b-256.
package cryptox

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// NewDigest returns an unkeyed BLAKE2b-256 hash.
func NewDigest() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only reachable with an oversized key
		panic(err)
	}
	return h
}

// EncodeDigest renders a finished hash the way it travels on the wire.
func EncodeDigest(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// DigestReader consumes r and returns its digest and byte count.
func DigestReader(r io.Reader) (string, int64, error) {
	h := NewDigest()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return EncodeDigest(h), n, nil
}

// DigestFile is DigestReader over the file at path.
func DigestFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return DigestReader(f)
}
