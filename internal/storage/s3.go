package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"resizeit/internal/config"
	"resizeit/internal/models"
	"resizeit/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// deleteBatchSize is the provider limit for a single DeleteObjects call
const deleteBatchSize = 1000

// S3Store implements ObjectStore for AWS S3 and S3-compatible storage
// (MinIO, Garage)
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	config   *config.S3Config
	bucket   string
}

// NewS3Store creates a new S3 object store. Connectivity is not verified
// here; callers run Initialize with retry at startup.
func NewS3Store(cfg *config.S3Config) (ObjectStore, error) {
	logger.Info("Initializing S3 object store",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("region", cfg.Region),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("use_ssl", cfg.UseSSL))

	awsConfig, err := createAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "https://s3.amazonaws.com" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Required for MinIO and custom endpoints
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024 // 10MB parts for multipart uploads
		u.Concurrency = 3
	})

	return &S3Store{
		client:   client,
		uploader: uploader,
		config:   cfg,
		bucket:   cfg.Bucket,
	}, nil
}

// Initialize verifies connectivity and credentials against the bucket
func (s *S3Store) Initialize(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		return models.StorageUnavailableError{
			Endpoint: s.config.Endpoint,
			Reason:   err.Error(),
		}
	}

	logger.Info("S3 object store initialized successfully",
		zap.String("bucket", s.bucket))
	return nil
}

// Get retrieves an object with its content type
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, string, error) {
	logger.DebugWithContext(ctx, "Getting object from S3",
		zap.String("key", key))

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, "", models.NotFoundError{Resource: "object", Path: key}
		}
		logger.ErrorWithContext(ctx, "Failed to get object from S3",
			zap.String("key", key),
			zap.Error(err))
		return nil, "", models.StorageError{Operation: "get", Reason: err.Error()}
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, "", models.StorageError{Operation: "get", Reason: err.Error()}
	}

	return data, aws.ToString(result.ContentType), nil
}

// Put stores an object, overwriting any existing content at the key
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	logger.DebugWithContext(ctx, "Putting object to S3",
		zap.String("key", key),
		zap.Int("size", len(data)),
		zap.String("content_type", contentType))

	// The uploader switches to multipart automatically for large payloads
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to put object to S3",
			zap.String("key", key),
			zap.Error(err))
		return "", models.StorageError{Operation: "put", Reason: err.Error()}
	}

	return key, nil
}

// Exists checks if an object exists, treating not-found as false
func (s *S3Store) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, models.StorageError{Operation: "exists", Reason: err.Error()}
	}

	return true, nil
}

// Remove deletes a single object
func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete object from S3",
			zap.String("key", key),
			zap.Error(err))
		return models.StorageError{Operation: "remove", Reason: err.Error()}
	}

	return nil
}

// RemoveMany deletes objects in batches of deleteBatchSize. A failed batch
// is reported but does not stop the remaining batches; already-deleted
// batches stay deleted.
func (s *S3Store) RemoveMany(ctx context.Context, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	logger.DebugWithContext(ctx, "Batch deleting objects from S3",
		zap.Int("count", len(keys)))

	deleted := 0
	var errs error

	for _, batch := range chunkKeys(keys, deleteBatchSize) {
		identifiers := make([]types.ObjectIdentifier, len(batch))
		for i, key := range batch {
			identifiers[i] = types.ObjectIdentifier{Key: aws.String(key)}
		}

		result, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(false), // We want to know which failed
			},
		})
		if err != nil {
			logger.ErrorWithContext(ctx, "Batch delete failed",
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			errs = multierr.Append(errs, models.StorageError{
				Operation: "remove_many",
				Reason:    err.Error(),
			})
			continue
		}

		deleted += len(result.Deleted)
		for _, deleteError := range result.Errors {
			errs = multierr.Append(errs, models.StorageError{
				Operation: "remove_many",
				Reason: fmt.Sprintf("%s: %s",
					aws.ToString(deleteError.Key), aws.ToString(deleteError.Message)),
			})
		}
	}

	logger.DebugWithContext(ctx, "Batch delete completed",
		zap.Int("requested", len(keys)),
		zap.Int("deleted", deleted))

	return deleted, errs
}

// List returns a page of objects under prefix using marker pagination.
// Backends that do not implement listing degrade to an empty page.
func (s *S3Store) List(ctx context.Context, prefix string, limit int, marker string) ([]ObjectInfo, string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}
	if limit > 0 {
		input.MaxKeys = aws.Int32(int32(limit))
	}
	if marker != "" {
		input.StartAfter = aws.String(marker)
	}

	result, err := s.client.ListObjectsV2(ctx, input)
	if err != nil {
		if isNotImplementedError(err) {
			logger.WarnWithContext(ctx, "Storage backend does not support listing, returning empty result",
				zap.String("prefix", prefix))
			return []ObjectInfo{}, "", nil
		}
		return nil, "", models.StorageError{Operation: "list", Reason: err.Error()}
	}

	objects := make([]ObjectInfo, len(result.Contents))
	for i, obj := range result.Contents {
		objects[i] = ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
			ETag:         aws.ToString(obj.ETag),
		}
	}

	// The next marker is the last key of a truncated page
	nextMarker := ""
	if aws.ToBool(result.IsTruncated) && len(objects) > 0 {
		nextMarker = objects[len(objects)-1].Key
	}

	return objects, nextMarker, nil
}

// URLFor builds a client-facing URL for an object. With a base URL the
// object is addressed through the resize endpoint, otherwise a direct
// storage URL is returned.
func (s *S3Store) URLFor(key string, baseURL string) string {
	if baseURL != "" {
		return fmt.Sprintf("%s/images/resize/%s", strings.TrimSuffix(baseURL, "/"), key)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.config.Endpoint, "/"), s.bucket, key)
}

// Health checks storage connectivity with a minimal listing
func (s *S3Store) Health(ctx context.Context) error {
	_, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(s.bucket),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("S3 health check failed: %w", err)
	}
	return nil
}

// Helper functions

// createAWSConfig creates AWS configuration
func createAWSConfig(cfg *config.S3Config) (aws.Config, error) {
	// Static credentials provider
	credProvider := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"", // session token not needed for static credentials
	)

	awsConfig, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credProvider),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return aws.Config{}, err
	}

	return awsConfig, nil
}

// chunkKeys splits keys into provider-sized batches
func chunkKeys(keys []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		chunks = append(chunks, keys[start:end])
	}
	return chunks
}

// isNotFoundError checks if the error is a "not found" error
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	// Check for HTTP 404 in error message
	return strings.Contains(err.Error(), "404") ||
		strings.Contains(err.Error(), "NoSuchKey") ||
		strings.Contains(err.Error(), "Not Found")
}

// isNotImplementedError detects backends without native listing support
func isNotImplementedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "NotImplemented") ||
		strings.Contains(err.Error(), "501")
}
