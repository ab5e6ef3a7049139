package app

import (
	"slices"
	"sync"
	"time"

	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

type memberKey struct {
	room domain.RoomID
	id   domain.ParticipantID
}

// Registry is the set of participants currently present in any room.
// Records are kept in global join order; rosters are derived from it.
type Registry struct {
	mu     sync.RWMutex
	order  []*domain.Participant
	byConn map[domain.ConnectionID]*domain.Participant
	byKey  map[memberKey]*domain.Participant
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[domain.ConnectionID]*domain.Participant),
		byKey:  make(map[memberKey]*domain.Participant),
		now:    time.Now,
	}
}

// Add records p as present on conn and returns the resulting roster of p's room.
// A participant already present in the same room is rebound to conn; every
// other field of the existing record, including its position, is kept.
func (r *Registry) Add(p domain.Participant, conn domain.ConnectionID) []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := memberKey{room: p.RoomID, id: p.ID}
	if cur, ok := r.byKey[key]; ok {
		if cur.ConnectionID != conn {
			if r.byConn[cur.ConnectionID] == cur {
				delete(r.byConn, cur.ConnectionID)
			}
			log.Info().Str("module", "app.registry").
				Str("participant", string(p.ID)).
				Str("room", string(p.RoomID)).
				Str("old_conn", string(cur.ConnectionID)).
				Str("conn", string(conn)).
				Msg("rebound participant")
		}
		cur.ConnectionID = conn
		r.byConn[conn] = cur
		return r.listLocked(p.RoomID)
	}

	rec := p
	rec.ConnectionID = conn
	rec.JoinedAt = r.now()
	r.order = append(r.order, &rec)
	r.byConn[conn] = &rec
	r.byKey[key] = &rec
	log.Info().Str("module", "app.registry").
		Str("participant", string(p.ID)).
		Str("room", string(p.RoomID)).
		Str("conn", string(conn)).
		Msg("added participant")
	return r.listLocked(p.RoomID)
}

// RemoveByConnection drops the participant bound to conn, if any.
func (r *Registry) RemoveByConnection(conn domain.ConnectionID) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byConn[conn]
	if !ok {
		return domain.Participant{}, false
	}
	r.dropLocked(rec)
	log.Info().Str("module", "app.registry").
		Str("participant", string(rec.ID)).
		Str("room", string(rec.RoomID)).
		Str("conn", string(conn)).
		Msg("removed participant")
	return *rec, true
}

func (r *Registry) ListByRoom(room domain.RoomID) []domain.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(room)
}

// ConnectionOf returns the connection currently routing to the participant.
func (r *Registry) ConnectionOf(room domain.RoomID, id domain.ParticipantID) (domain.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byKey[memberKey{room: room, id: id}]
	if !ok {
		return "", false
	}
	return rec.ConnectionID, true
}

// LookupByConnection returns the participant that conn currently routes to.
func (r *Registry) LookupByConnection(conn domain.ConnectionID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.byConn[conn]
	if !ok {
		return domain.Participant{}, false
	}
	return *rec, true
}

// LookupByParticipantID returns the first record, in join order, with the given id.
func (r *Registry) LookupByParticipantID(id domain.ParticipantID) (domain.Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.order {
		if rec.ID == id {
			return *rec, true
		}
	}
	return domain.Participant{}, false
}

// ClearRoom removes every participant of room and returns them in join order.
func (r *Registry) ClearRoom(room domain.RoomID) []domain.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.listLocked(room)
	for i := range out {
		rec := r.byKey[memberKey{room: room, id: out[i].ID}]
		r.dropLocked(rec)
	}
	if len(out) > 0 {
		log.Info().Str("module", "app.registry").Str("room", string(room)).Int("count", len(out)).Msg("cleared room")
	}
	return out
}

// Rooms lists the occupied rooms in order of their first present participant.
func (r *Registry) Rooms() []domain.RoomInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := make(map[domain.RoomID]int)
	out := make([]domain.RoomInfo, 0)
	for _, rec := range r.order {
		i, ok := idx[rec.RoomID]
		if !ok {
			i = len(out)
			idx[rec.RoomID] = i
			out = append(out, domain.RoomInfo{ID: rec.RoomID})
		}
		out[i].Participants++
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) listLocked(room domain.RoomID) []domain.Participant {
	out := make([]domain.Participant, 0)
	for _, rec := range r.order {
		if rec.RoomID == room {
			out = append(out, *rec)
		}
	}
	return out
}

func (r *Registry) dropLocked(rec *domain.Participant) {
	if r.byConn[rec.ConnectionID] == rec {
		delete(r.byConn, rec.ConnectionID)
	}
	delete(r.byKey, memberKey{room: rec.RoomID, id: rec.ID})
	if i := slices.Index(r.order, rec); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}
