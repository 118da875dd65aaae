// Package service implements catalog use cases on top of the repositories,
// the blob store and the event publisher.
package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-service/internal/events"
	"catalog-service/internal/repository"
	"catalog-service/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidReference = errors.New("referenced entity does not exist")
	ErrWriteRejected    = errors.New("write rejected by the store")
)

// ImageBucket uploads and removes the images of one entity kind
type ImageBucket struct {
	Blobs    storage.BlobStore
	Bucket   string
	MaxBytes int64
}

func (b ImageBucket) upload(ctx context.Context, data []byte) (string, error) {
	contentType, err := storage.DetectImage(data, b.MaxBytes)
	if err != nil {
		return "", err
	}
	ref, err := b.Blobs.Upload(ctx, b.Bucket, data, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return ref, nil
}

// discard deletes a blob and only logs failures; orphaned blobs do not affect the catalog
func (b ImageBucket) discard(ctx context.Context, ref string, logger *zap.Logger) {
	if ref == "" {
		return
	}
	if _, err := b.Blobs.Delete(ctx, b.Bucket, ref); err != nil {
		logger.Warn("Failed to delete image blob",
			zap.String("bucket", b.Bucket),
			zap.String("object_id", ref),
			zap.Error(err),
		)
	}
}

// publish emits an event after a committed write. Failures are logged only.
func publish(ctx context.Context, publisher events.Publisher, logger *zap.Logger, eventType string, id uuid.UUID, payload interface{}) {
	event, err := events.New(eventType, id, payload)
	if err != nil {
		logger.Error("Failed to build event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", eventType),
			zap.String("aggregate_id", event.AggregateID),
			zap.Error(err),
		)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// URL returns the public address of an image, or "" when there is none
func (b ImageBucket) URL(ref string) string {
	if ref == "" {
		return ""
	}
	return b.Blobs.URL(b.Bucket, ref)
}
