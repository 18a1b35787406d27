package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage implements AssetStorage on Cloudinary.
type CloudinaryStorage struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryStorage creates a new CloudinaryStorage instance.
func NewCloudinaryStorage(cld *cloudinary.Cloudinary, cloudName string) AssetStorage {
	return &CloudinaryStorage{
		cld:       cld,
		cloudName: cloudName,
	}
}

// Upload stores the payload under container/key and returns the public URL.
func (s *CloudinaryStorage) Upload(ctx context.Context, container, key string, data []byte) (string, error) {
	uploadParams := uploader.UploadParams{
		PublicID: key,
		Folder:   container,
	}
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploadParams)
	if err != nil {
		if isContainerMissing(err.Error()) {
			return "", fmt.Errorf("%w: %s", ErrContainerMissing, container)
		}
		return "", fmt.Errorf("CloudinaryStorage: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		if isContainerMissing(result.Error.Message) {
			return "", fmt.Errorf("%w: %s", ErrContainerMissing, container)
		}
		return "", fmt.Errorf("CloudinaryStorage: upload rejected: %s", result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("CloudinaryStorage: no URL returned")
	}
	return result.SecureURL, nil
}

// isContainerMissing reports whether the storage backend rejected the target
// folder itself rather than the payload.
func isContainerMissing(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "folder") && strings.Contains(lower, "not found") ||
		strings.Contains(lower, "bucket not found")
}
