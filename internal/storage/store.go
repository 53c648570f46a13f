// Package storage wraps the S3-compatible content bucket holding thesis
// point attachments.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"investing-journal-go/internal/config"
	"investing-journal-go/internal/models"
)

// MaxAttachmentSize is the upload size ceiling in bytes.
const MaxAttachmentSize = 3_000_000

// Errors returned by the store.
var (
	ErrInvalidMimeType  = errors.New("invalid mime type")
	ErrSizeExceeded     = errors.New("file exceeds the maximum allowed size")
	ErrFileNotFound     = errors.New("file not found in object store")
	ErrStoreUnavailable = errors.New("object store operation failed")
)

// mimeExtensions is the allow-list of accepted MIME types mapped to the
// extension appended to the generated object key.
var mimeExtensions = map[string]string{
	"image/png":          "png",
	"image/jpeg":         "jpeg",
	"image/jpg":          "jpg",
	"application/pdf":    "pdf",
	"application/msword": "doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":     "docx",
	"application/vnd.ms-powerpoint":                                               "ppt",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation":   "pptx",
}

// Client is the subset of the S3 API the store uses. *s3.Client satisfies it.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Store provides attachment object operations against a single bucket.
type Store struct {
	client   Client
	bucket   string
	region   string
	endpoint string
}

// NewStore creates a Store over the given client.
func NewStore(client Client, bucket, region, endpoint string) *Store {
	return &Store{client: client, bucket: bucket, region: region, endpoint: endpoint}
}

// NewStoreFromConfig builds the S3 client from application configuration.
// A non-empty endpoint targets an S3-compatible store such as MinIO.
func NewStoreFromConfig(ctx context.Context, appConfig *config.Config) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(appConfig.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			appConfig.S3AccessKey,
			appConfig.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if appConfig.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(appConfig.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewStore(client, appConfig.S3Bucket, appConfig.S3Region, appConfig.S3Endpoint), nil
}

// Upload validates and stores one file, returning its attachment record.
// The object key is a random identifier plus an extension derived from the
// MIME type; it is never derived from the original filename. Validation
// failures are reported before the store is touched.
func (s *Store) Upload(ctx context.Context, data []byte, mimeType, originalName string) (models.Attachment, error) {
	ext, ok := mimeExtensions[mimeType]
	if !ok {
		return models.Attachment{}, fmt.Errorf("%w: %q", ErrInvalidMimeType, mimeType)
	}
	if len(data) > MaxAttachmentSize {
		return models.Attachment{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrSizeExceeded, len(data), MaxAttachmentSize)
	}

	key := uuid.NewString() + "." + ext
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return models.Attachment{}, fmt.Errorf("%w: put %q: %v", ErrStoreUnavailable, key, err)
	}

	return models.Attachment{
		Key:          key,
		OriginalName: originalName,
		URL:          s.objectURL(key),
	}, nil
}

// Delete removes one object. The existence check lets the caller
// distinguish "already gone" (ErrFileNotFound) from a failed deletion.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: %q", ErrFileNotFound, key)
		}
		return fmt.Errorf("%w: head %q: %v", ErrStoreUnavailable, key, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("%w: delete %q: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// DeleteMany batch-deletes objects. Per-key failures reported by the store
// are surfaced in the returned error rather than dropped, since the caller
// cannot recover partial state on its own.
func (s *Store) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &types.Delete{Objects: objects},
	})
	if err != nil {
		return fmt.Errorf("%w: batch delete: %v", ErrStoreUnavailable, err)
	}

	if len(out.Errors) > 0 {
		failed := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			failed = append(failed, aws.ToString(e.Key))
		}
		return fmt.Errorf("%w: batch delete failed for keys: %s", ErrStoreUnavailable, strings.Join(failed, ", "))
	}
	return nil
}

// objectURL returns the retrievable URL for a stored object.
func (s *Store) objectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
