package orch

import (
	"bytes"

	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

var jsonNull = []byte("null")

// DrawUpdate stores img as the room's snapshot and relays it to everyone
// else in the room. The sender does not get its own image back.
func (o *Orchestrator) DrawUpdate(id domain.ConnectionID, img domain.ImageData) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.roomOf(id)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("conn", string(id)).Msg("draw_update without a present participant, dropped")
		return ErrNotBound
	}
	if len(bytes.TrimSpace(img)) == 0 || bytes.Equal(bytes.TrimSpace(img), jsonNull) {
		log.Warn().Str("module", "app.orch").Str("conn", string(id)).Str("room", string(room)).Msg("draw_update without image, ignored")
		return ErrEmptyImage
	}

	o.Snapshots.Set(room, img)
	res := o.broadcastRoom(room, id, Snapshot{Type: TypeSnapshot, ImageData: []byte(img)})
	log.Debug().Str("module", "app.orch").
		Str("room", string(room)).
		Int("bytes", len(img)).
		Int("sent", res.SendTo).
		Int("dropped", len(res.Dropped)).
		Msg("draw_update relayed")
	return nil
}

// ClearCanvas empties the room's snapshot and tells everyone else in the room.
func (o *Orchestrator) ClearCanvas(id domain.ConnectionID) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.roomOf(id)
	if !ok {
		log.Warn().Str("module", "app.orch").Str("conn", string(id)).Msg("clear_canvas without a present participant, dropped")
		return ErrNotBound
	}

	o.Snapshots.Clear(room)
	o.broadcastRoom(room, id, Notice{Type: TypeCanvasCleared})
	log.Info().Str("module", "app.orch").Str("room", string(room)).Str("conn", string(id)).Msg("canvas cleared")
	return nil
}

// roomOf resolves the room through the registry, so only a connection that
// currently routes to a present participant can change a room's canvas.
func (o *Orchestrator) roomOf(id domain.ConnectionID) (domain.RoomID, bool) {
	p, ok := o.Registry.LookupByConnection(id)
	if !ok {
		return "", false
	}
	return p.RoomID, true
}
