package storage

import (
	"context"
	"errors"
)

// Containers used by the service. Each maps to a storage folder.
const (
	ContainerProfilePhotos       = "profile-photos"
	ContainerPrivatePhotos       = "private-photos"
	ContainerVerificationSelfies = "verification-selfies"
)

// ErrContainerMissing signals that the target storage container does not
// exist. Callers surface this as a configuration problem, not an upload
// failure.
var ErrContainerMissing = errors.New("storage container missing")

// AssetStorage uploads image payloads and returns their public URL.
type AssetStorage interface {
	Upload(ctx context.Context, container, key string, data []byte) (string, error)
}
