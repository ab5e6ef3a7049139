package app

import (
	"testing"

	"github.com/dkeye/Board/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreLastWriteWins(t *testing.T) {
	s := NewSnapshotStore()
	_, ok := s.Get("r1")
	assert.False(t, ok)

	s.Set("r1", domain.ImageData(`"one"`))
	s.Set("r1", domain.ImageData(`"two"`))

	img, ok := s.Get("r1")
	require.True(t, ok)
	assert.Equal(t, `"two"`, string(img))
	assert.True(t, s.Has("r1"))
	assert.False(t, s.Has("r2"))
}

func TestSnapshotStoreClearKeepsRoom(t *testing.T) {
	s := NewSnapshotStore()
	s.Set("r1", domain.ImageData(`"one"`))
	s.Clear("r1")

	_, ok := s.Get("r1")
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())
}

func TestSnapshotStoreEvict(t *testing.T) {
	s := NewSnapshotStore()
	s.Set("r1", domain.ImageData(`"one"`))
	s.Set("r2", domain.ImageData(`"two"`))
	s.Evict("r1")

	assert.False(t, s.Has("r1"))
	assert.True(t, s.Has("r2"))
	assert.Equal(t, 1, s.Len())
}
