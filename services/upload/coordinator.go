package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"covenant/models"
	"covenant/services/storage"
	"covenant/utils"

	"go.uber.org/zap"
)

// SlotKind distinguishes the five public photo positions from the single
// private one.
type SlotKind string

const (
	SlotPublic  SlotKind = "public"
	SlotPrivate SlotKind = "private"
)

// ErrNotAuthenticated is returned when an upload is attempted without an
// identity.
var ErrNotAuthenticated = errors.New("identity required for upload")

// ErrBadSlotIndex is returned for a public upload outside the slot range.
var ErrBadSlotIndex = errors.New("photo slot index out of range")

// ErrUploadInFlight rejects a second upload against a slot that is still
// uploading. Per-slot uploads are serialized; distinct slots run
// concurrently.
var ErrUploadInFlight = errors.New("upload already in flight for this slot")

// Coordinator manages the asynchronous lifecycle of photo uploads. Each slot
// is tracked by its own transient ticket; the in-flight marker is always
// cleared when the upload settles, success or failure.
type Coordinator struct {
	Storage storage.AssetStorage

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewCoordinator creates a Coordinator on the given storage backend.
func NewCoordinator(store storage.AssetStorage) *Coordinator {
	return &Coordinator{
		Storage:  store,
		inFlight: make(map[string]bool),
	}
}

// SlotKey is the ticket key for a slot: "public_<index>" or "private".
func SlotKey(kind SlotKind, index int) string {
	if kind == SlotPrivate {
		return "private"
	}
	return fmt.Sprintf("public_%d", index)
}

// InFlight reports whether an upload is currently running for the slot.
func (c *Coordinator) InFlight(kind SlotKind, index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[SlotKey(kind, index)]
}

// Tickets returns a snapshot of the per-slot in-flight markers.
func (c *Coordinator) Tickets() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool, len(c.inFlight))
	for k, v := range c.inFlight {
		out[k] = v
	}
	return out
}

// Upload stores the image payload and returns the public URL to write into
// the draft, with a cache-busting token already appended so a replaced photo
// is never served stale. The caller folds the URL into the draft; on failure
// the draft is left untouched.
func (c *Coordinator) Upload(ctx context.Context, userID, filename string, data []byte, kind SlotKind, index int) (string, error) {
	logger := utils.GetLogger()

	if userID == "" {
		return "", ErrNotAuthenticated
	}
	if kind == SlotPublic && (index < 0 || index >= models.PhotoSlotCount) {
		return "", ErrBadSlotIndex
	}

	ticket := SlotKey(kind, index)
	c.mu.Lock()
	if c.inFlight[ticket] {
		c.mu.Unlock()
		return "", ErrUploadInFlight
	}
	c.inFlight[ticket] = true
	c.mu.Unlock()

	// The ticket never survives the call, whatever the outcome.
	defer func() {
		c.mu.Lock()
		delete(c.inFlight, ticket)
		c.mu.Unlock()
	}()

	// Identity plus timestamp keeps repeated uploads of the same filename
	// from colliding.
	key := fmt.Sprintf("%s_%d%s", userID, time.Now().UnixNano(), filepath.Ext(filename))
	container := storage.ContainerProfilePhotos
	if kind == SlotPrivate {
		container = storage.ContainerPrivatePhotos
	}

	url, err := c.Storage.Upload(ctx, container, key, data)
	if err != nil {
		logger.Error("Photo upload failed",
			zap.String("userId", userID),
			zap.String("slot", ticket),
			zap.Error(err))
		return "", err
	}

	logger.Debug("Photo uploaded", zap.String("userId", userID), zap.String("slot", ticket))
	return withCacheBuster(url, time.Now()), nil
}

// withCacheBuster appends a timestamp query token so a re-fetch of the same
// slot after replacement bypasses any cached copy.
func withCacheBuster(url string, now time.Time) string {
	sep := "?"
	for _, r := range url {
		if r == '?' {
			sep = "&"
			break
		}
	}
	return fmt.Sprintf("%s%st=%d", url, sep, now.UnixMilli())
}
