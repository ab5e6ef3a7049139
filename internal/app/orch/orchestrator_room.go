package orch

import (
	"fmt"

	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join binds the connection to the requested room and announces the newcomer.
// The joiner gets join_confirmed and, if the room has one, the current snapshot.
// Everyone else in the room gets participant_joined followed by roster_updated.
func (o *Orchestrator) Join(id domain.ConnectionID, req JoinRequest) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, err := domain.NewParticipant(req.Name, req.ParticipantID, req.RoomID, req.IsHost, req.IsPresenter)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("conn", string(id)).Msg("rejected join")
		o.sendTo("", id, NewError(ErrKindValidation, "missing required fields: "+err.Error()))
		return fmt.Errorf("join: %w", err)
	}

	if room, pid, ok := o.Conns.RoomOf(id); ok && (room != p.RoomID || pid != p.ID) {
		log.Warn().Str("module", "app.orch").
			Str("conn", string(id)).
			Str("room", string(room)).
			Str("requested", string(p.RoomID)).
			Msg("join on bound connection")
		o.sendTo(room, id, NewError(ErrKindValidation, ErrAlreadyBound.Error()))
		return ErrAlreadyBound
	}

	if !o.Conns.Bind(id, p.RoomID, p.ID) {
		return ErrUnknownConnection
	}
	// a reconnect takes over routing; the previous socket may no longer act in the room
	if prev, ok := o.Registry.ConnectionOf(p.RoomID, p.ID); ok && prev != id {
		o.Conns.Release(prev)
	}

	roster := o.Registry.Add(*p, id)
	log.Info().Str("module", "app.orch").
		Str("conn", string(id)).
		Str("participant", string(p.ID)).
		Str("room", string(p.RoomID)).
		Int("roster", len(roster)).
		Msg("joined room")

	o.sendTo(p.RoomID, id, JoinConfirmed{Type: TypeJoinConfirmed, Success: true, Roster: roster, RoomID: p.RoomID})
	o.broadcastRoom(p.RoomID, id, ParticipantNotice{Type: TypeParticipantJoined, Name: nameOf(roster, p)})
	o.broadcastRoom(p.RoomID, id, RosterUpdated{Type: TypeRosterUpdated, Roster: roster})

	if img, ok := o.Snapshots.Get(p.RoomID); ok {
		o.sendTo(p.RoomID, id, Snapshot{Type: TypeSnapshot, ImageData: []byte(img)})
	}
	return nil
}

// OnDisconnect forgets the connection and, if it carried a participant,
// tells the rest of the room. The last one out evicts the room's snapshot.
func (o *Orchestrator) OnDisconnect(id domain.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Conns.Unbind(id)
	left, ok := o.Registry.RemoveByConnection(id)
	if !ok {
		log.Debug().Str("module", "app.orch").Str("conn", string(id)).Msg("disconnect without participant")
		return
	}

	remaining := o.Registry.ListByRoom(left.RoomID)
	log.Info().Str("module", "app.orch").
		Str("conn", string(id)).
		Str("participant", string(left.ID)).
		Str("room", string(left.RoomID)).
		Int("roster", len(remaining)).
		Msg("left room")

	o.broadcastRoom(left.RoomID, id, ParticipantNotice{Type: TypeParticipantLeft, Name: left.Name})
	o.broadcastRoom(left.RoomID, id, RosterUpdated{Type: TypeRosterUpdated, Roster: remaining})

	if len(remaining) == 0 {
		o.Snapshots.Evict(left.RoomID)
		log.Info().Str("module", "app.orch").Str("room", string(left.RoomID)).Msg("room empty, evicted")
	}
}

// EvictRoom drops every participant of the room, closes their connections
// and discards the room's snapshot. It returns how many participants were removed.
func (o *Orchestrator) EvictRoom(room domain.RoomID) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	removed := o.Registry.ClearRoom(room)
	for _, id := range o.Conns.ReleaseRoom(room) {
		o.kick(id)
	}
	o.Snapshots.Evict(room)
	log.Info().Str("module", "app.orch").Str("room", string(room)).Int("removed", len(removed)).Msg("evicted room")
	return len(removed)
}

func (o *Orchestrator) Roster(room domain.RoomID) []domain.Participant {
	return o.Registry.ListByRoom(room)
}

// Rooms summarizes every occupied room.
func (o *Orchestrator) Rooms() []domain.RoomInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	rooms := o.Registry.Rooms()
	for i := range rooms {
		rooms[i].HasSnapshot = o.Snapshots.Has(rooms[i].ID)
	}
	return rooms
}

// nameOf returns the recorded name of p, which a rejoin does not change.
func nameOf(roster []domain.Participant, p *domain.Participant) string {
	for _, r := range roster {
		if r.ID == p.ID {
			return r.Name
		}
	}
	return p.Name
}
