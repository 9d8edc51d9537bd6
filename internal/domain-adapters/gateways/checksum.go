// Package gateways implements the filesystem-facing gate operations.
package gateways

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// hashChunkSize is the read size used when streaming files through the digest
const hashChunkSize = 64 * 1024

// ChecksumHasher computes SHA256 digests using pure Go
type ChecksumHasher struct{}

// NewChecksumHasher creates a new checksum hasher
func NewChecksumHasher() *ChecksumHasher {
	return &ChecksumHasher{}
}

// HashFile returns the hex SHA256 of a file, streamed in fixed-size chunks.
// A missing file yields "" and a nil error; any other I/O failure is returned.
func (h *ChecksumHasher) HashFile(ctx context.Context, filePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	//nolint:gosec // G304: filePath comes from the discovered package tree
	f, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	digest := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(digest, f, buf); err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", filePath, err)
	}

	return hex.EncodeToString(digest.Sum(nil)), nil
}
