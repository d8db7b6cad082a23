// Package checksum computes file digests and persists the manifest of
// digests recorded at the last successful sync.
package checksum

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the read size used while hashing.
const ChunkSize = 4096

// FileDigest returns the hex MD5 of the file at path. MD5 matches the ETag
// the object store reports for single-part uploads, so local and remote
// digests are directly comparable.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Digest(f)
}

// Digest hashes r in ChunkSize reads.
func Digest(r io.Reader) (string, error) {
	h := md5.New()
	buf := make([]byte, ChunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
