package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const jobFilesFolder = "job-files"

// MinIOStore implements FileStore on one MinIO bucket.
type MinIOStore struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
	now         func() time.Time
}

// NewMinIOStore creates the store bound to the job-files bucket.
func NewMinIOStore(cfg config.StorageConfig) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOStore{
		client:      client,
		bucket:      cfg.GetMinIOBucketJobFiles(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
		now:         time.Now,
	}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOStore) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// ValidateUpload applies the content type allowlist and the size limit.
func (s *MinIOStore) ValidateUpload(contentType string, sizeBytes int64) error {
	if err := ValidateContentType(contentType); err != nil {
		return err
	}
	return ValidateFileSize(sizeBytes, s.maxFileSize)
}

// Upload stores the file under job-files/<yyyymm>/<name>_<rand><ext>.
func (s *MinIOStore) Upload(ctx context.Context, fileName, contentType string, reader io.Reader, size int64) (string, error) {
	fileKey := BuildFileKey(s.now(), fileName, uuid.New().String()[:8])

	_, err := s.client.PutObject(ctx, s.bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType: NormalizeContentType(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", fileKey, err)
	}
	return fileKey, nil
}

// Open fetches an object. A missing key maps to NotFound.
func (s *MinIOStore) Open(ctx context.Context, fileKey string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object %s: %w", fileKey, err)
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", apperr.NotFound("file not found")
		}
		return nil, "", fmt.Errorf("failed to stat object %s: %w", fileKey, err)
	}
	return obj, info.ContentType, nil
}

// BuildFileKey derives a collision-resistant key from the original name.
func BuildFileKey(at time.Time, fileName, suffix string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := strings.TrimSuffix(base, path.Ext(base))
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == ' ' || r < 0x20 {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." {
		name = "file"
	}
	return path.Join(jobFilesFolder, at.Format("200601"), fmt.Sprintf("%s_%s%s", name, suffix, ext))
}

var _ FileStore = (*MinIOStore)(nil)
