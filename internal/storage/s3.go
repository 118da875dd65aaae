package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// S3API is the subset of the S3 client used by S3Store
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// NewS3Client builds an S3 client. A non-empty endpoint targets an
// S3-compatible service using path-style addressing.
func NewS3Client(awsCfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
}

// S3Store implements BlobStore on S3 buckets
type S3Store struct {
	client  S3API
	baseURL string
	logger  *zap.Logger
}

// NewS3Store creates an S3Store. baseURL prefixes the URLs handed to clients.
func NewS3Store(client S3API, baseURL string, logger *zap.Logger) *S3Store {
	return &S3Store{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (s *S3Store) Upload(ctx context.Context, bucket string, data []byte, contentType string) (string, error) {
	id := newObjectID()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(id),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to %s: %w", bucket, err)
	}

	s.logger.Debug("Uploaded object",
		zap.String("bucket", bucket),
		zap.String("object_id", id),
		zap.Int("size", len(data)),
	)
	return id, nil
}

func (s *S3Store) Delete(ctx context.Context, bucket, objectID string) (bool, error) {
	if err := checkObjectID(objectID); err != nil {
		return false, err
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectID),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up object %s/%s: %w", bucket, objectID, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectID),
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete object %s/%s: %w", bucket, objectID, err)
	}
	return true, nil
}

func (s *S3Store) URL(bucket, objectID string) string {
	if objectID == "" {
		return ""
	}
	return s.baseURL + "/" + bucket + "/" + objectID
}
