package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsContainerMissing(t *testing.T) {
	assert.True(t, isContainerMissing("Folder 'profile-photos' not found"))
	assert.True(t, isContainerMissing("bucket not found"))
	assert.False(t, isContainerMissing("invalid image file"))
	assert.False(t, isContainerMissing("folder name too long"))
}
