package upload

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"covenant/services/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blockingStorage struct {
	started chan string
	release chan struct{}
	err     error
}

func (s *blockingStorage) Upload(ctx context.Context, container, key string, data []byte) (string, error) {
	if s.started != nil {
		s.started <- container + "/" + key
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return "", s.err
	}
	return "https://cdn.test/" + container + "/" + key, nil
}

func TestUploadRequiresIdentity(t *testing.T) {
	c := NewCoordinator(&blockingStorage{})
	_, err := c.Upload(context.Background(), "", "p.jpg", []byte("x"), SlotPublic, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUploadRejectsOutOfRangeSlot(t *testing.T) {
	c := NewCoordinator(&blockingStorage{})
	_, err := c.Upload(context.Background(), "u1", "p.jpg", []byte("x"), SlotPublic, 5)
	assert.ErrorIs(t, err, ErrBadSlotIndex)

	_, err = c.Upload(context.Background(), "u1", "p.jpg", []byte("x"), SlotPublic, -1)
	assert.ErrorIs(t, err, ErrBadSlotIndex)
}

func TestUploadAppendsCacheBuster(t *testing.T) {
	c := NewCoordinator(&blockingStorage{})
	url, err := c.Upload(context.Background(), "u1", "photo.jpg", []byte("x"), SlotPublic, 2)
	require.NoError(t, err)
	assert.Contains(t, url, "?t=")
	assert.Contains(t, url, storage.ContainerProfilePhotos)
	// Key carries the extension of the original filename.
	assert.Contains(t, url, ".jpg?t=")
}

func TestPrivateUploadTargetsPrivateContainer(t *testing.T) {
	c := NewCoordinator(&blockingStorage{})
	url, err := c.Upload(context.Background(), "u1", "p.png", []byte("x"), SlotPrivate, 0)
	require.NoError(t, err)
	assert.Contains(t, url, storage.ContainerPrivatePhotos)
}

func TestSecondUploadOnSameSlotRejected(t *testing.T) {
	st := &blockingStorage{started: make(chan string, 1), release: make(chan struct{})}
	c := NewCoordinator(st)

	done := make(chan error, 1)
	go func() {
		_, err := c.Upload(context.Background(), "u1", "p.jpg", []byte("x"), SlotPublic, 1)
		done <- err
	}()
	<-st.started
	assert.True(t, c.InFlight(SlotPublic, 1))

	_, err := c.Upload(context.Background(), "u1", "q.jpg", []byte("y"), SlotPublic, 1)
	assert.ErrorIs(t, err, ErrUploadInFlight)

	close(st.release)
	require.NoError(t, <-done)
	assert.False(t, c.InFlight(SlotPublic, 1))
}

func TestDistinctSlotsUploadConcurrently(t *testing.T) {
	st := &blockingStorage{started: make(chan string, 8), release: make(chan struct{})}
	c := NewCoordinator(st)

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Upload(context.Background(), "u1", "p.jpg", []byte("x"), SlotPublic, i)
		}(i)
	}

	// All three acquire their tickets before any finishes.
	for i := 0; i < 3; i++ {
		<-st.started
	}
	tickets := c.Tickets()
	assert.Len(t, tickets, 3)
	assert.True(t, tickets[SlotKey(SlotPublic, 0)])

	close(st.release)
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Empty(t, c.Tickets())
}

func TestTicketClearedOnFailure(t *testing.T) {
	c := NewCoordinator(&blockingStorage{err: errors.New("boom")})
	_, err := c.Upload(context.Background(), "u1", "p.jpg", []byte("x"), SlotPublic, 0)
	require.Error(t, err)
	assert.False(t, c.InFlight(SlotPublic, 0))

	// The slot accepts a fresh attempt immediately.
	c.Storage = &blockingStorage{}
	_, err = c.Upload(context.Background(), "u1", "p.jpg", []byte("x"), SlotPublic, 0)
	assert.NoError(t, err)
}

func TestSlotKeyShape(t *testing.T) {
	assert.Equal(t, "public_3", SlotKey(SlotPublic, 3))
	assert.Equal(t, "private", SlotKey(SlotPrivate, 0))
}

func TestCacheBusterSeparator(t *testing.T) {
	now := time.UnixMilli(1756600000000)

	fresh := withCacheBuster("https://cdn.test/a.jpg", now)
	assert.Equal(t, "https://cdn.test/a.jpg?t=1756600000000", fresh)

	versioned := withCacheBuster("https://cdn.test/a.jpg?v=2", now)
	assert.True(t, strings.Contains(versioned, "?v=2&t=1756600000000"))
}
