// Package storage abstracts where recordings physically live.
//
// Paths handed to a Store are the same strings the user sees: absolute
// filesystem paths for LocalStore, s3://bucket/key URLs for S3Store.
// Router picks the right one by scheme.
package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dmitrijs2005/vidkeeper/internal/common"
)

// Store writes, reads and removes recordings.
type Store interface {
	// Write stores data at path in full before returning. An existing
	// object at path is replaced.
	Write(ctx context.Context, path string, data []byte) error

	// Open returns a reader over the stored bytes.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes the object at path. Implementations do not check for
	// existence first; the removal error is the signal.
	Remove(ctx context.Context, path string) error
}

// Presigner is implemented by stores that can hand out a time-limited
// direct download URL.
type Presigner interface {
	PresignGet(ctx context.Context, path string) (string, error)
}

// S3Scheme prefixes object paths.
const S3Scheme = "s3://"

// IsS3Path reports whether path addresses an object store.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, S3Scheme)
}

// classify adds the shared sentinels to filesystem errors so callers can
// match them with errors.Is regardless of the backend.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return errors.Join(common.ErrorNotFound, err)
	case errors.Is(err, fs.ErrPermission), errors.Is(err, os.ErrPermission):
		return errors.Join(common.ErrPermissionDenied, err)
	default:
		return err
	}
}
