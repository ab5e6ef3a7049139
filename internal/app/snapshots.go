package app

import (
	"sync"

	"github.com/dkeye/Board/internal/domain"
)

// SnapshotStore keeps the latest canvas image per room.
// An entry with a nil image means the room exists but its canvas is empty.
type SnapshotStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]domain.ImageData
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{rooms: make(map[domain.RoomID]domain.ImageData)}
}

// Set replaces the room's image. Last write wins.
func (s *SnapshotStore) Set(room domain.RoomID, img domain.ImageData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room] = img
}

func (s *SnapshotStore) Clear(room domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room] = nil
}

// Get returns the room's image, or false when the room has none.
func (s *SnapshotStore) Get(room domain.RoomID) (domain.ImageData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img := s.rooms[room]
	if img == nil {
		return nil, false
	}
	return img, true
}

func (s *SnapshotStore) Has(room domain.RoomID) bool {
	_, ok := s.Get(room)
	return ok
}

func (s *SnapshotStore) Evict(room domain.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, room)
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
