// Package storage keeps uploaded catalog images in a blob store. Catalog rows
// only hold the returned object id.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

var (
	ErrEmptyUpload            = errors.New("upload is empty")
	ErrUploadTooLarge         = errors.New("upload exceeds size limit")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrInvalidObjectID        = errors.New("invalid object id")
)

// BlobStore persists binary objects grouped in buckets
type BlobStore interface {
	// Upload stores data and returns the generated object id.
	Upload(ctx context.Context, bucket string, data []byte, contentType string) (string, error)

	// Delete reports false when the object did not exist.
	Delete(ctx context.Context, bucket, objectID string) (bool, error)

	URL(bucket, objectID string) string
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// DetectImage checks size and sniffs the content type of an image upload
func DetectImage(data []byte, maxBytes int64) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, maxBytes)
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
	return contentType, nil
}

func newObjectID() string {
	return uuid.NewString()
}

func checkObjectID(objectID string) error {
	if _, err := uuid.Parse(objectID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidObjectID, objectID)
	}
	return nil
}
