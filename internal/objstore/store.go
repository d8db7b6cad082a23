// Package objstore is the narrow object-store surface the sync commands
// need: list with digests, upload a file, download a key.
package objstore

import (
	"context"
	"errors"
)

var (
	ErrAccessDenied = errors.New("access denied")
	ErrNotFound     = errors.New("object not found")
)

// Object is one listed key. Digest is the store's content digest for the
// object (the unquoted ETag on S3).
type Object struct {
	Key    string
	Digest string
	Size   int64
}

type Store interface {
	// List returns every object whose key starts with prefix.
	List(ctx context.Context, prefix string) ([]Object, error)
	// Upload stores the file at localPath under key.
	Upload(ctx context.Context, key, localPath string) error
	// Download writes key to localPath, creating parent directories.
	Download(ctx context.Context, key, localPath string) error
}
