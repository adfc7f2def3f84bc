// Package storage keeps job-posting source files in an S3-compatible bucket.
package storage

import (
	"context"
	"io"
)

// FileStore is the object storage the extraction flow depends on.
type FileStore interface {
	// Upload stores the file under a fresh key and returns that key.
	Upload(ctx context.Context, fileName, contentType string, reader io.Reader, size int64) (string, error)

	// Open returns the object and its content type. The caller closes it.
	Open(ctx context.Context, fileKey string) (io.ReadCloser, string, error)

	// ValidateUpload checks the content type and size before Upload.
	ValidateUpload(contentType string, sizeBytes int64) error
}
