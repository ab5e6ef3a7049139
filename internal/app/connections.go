package app

import (
	"context"
	"sync"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

type ConnState int

const (
	ConnUnbound ConnState = iota
	ConnBound
	ConnClosed
)

func (s ConnState) String() string {
	switch s {
	case ConnUnbound:
		return "unbound"
	case ConnBound:
		return "bound"
	default:
		return "closed"
	}
}

type connEntry struct {
	RoomID        domain.RoomID
	ParticipantID domain.ParticipantID
	Signal        core.SignalConnection
	Cancel        context.CancelFunc
}

// Connections tracks every live gateway connection and the room it joined.
// A connection that is not in the table is Closed.
type Connections struct {
	mu    sync.RWMutex
	conns map[domain.ConnectionID]*connEntry
}

func NewConnections() *Connections {
	return &Connections{conns: make(map[domain.ConnectionID]*connEntry)}
}

func (c *Connections) BindSignal(id domain.ConnectionID, sig core.SignalConnection, cancel context.CancelFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[id] = &connEntry{Signal: sig, Cancel: cancel}
	log.Info().Str("module", "app.connections").Str("conn", string(id)).Msg("bound signal")
}

func (c *Connections) Signal(id domain.ConnectionID) (core.SignalConnection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.conns[id]; ok {
		return e.Signal, true
	}
	return nil, false
}

// Bind attaches the connection to a room under the given participant identity.
// It returns false when the connection is unknown.
func (c *Connections) Bind(id domain.ConnectionID, room domain.RoomID, pid domain.ParticipantID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.conns[id]
	if !ok {
		return false
	}
	e.RoomID = room
	e.ParticipantID = pid
	log.Info().Str("module", "app.connections").Str("conn", string(id)).Str("room", string(room)).Msg("bound room")
	return true
}

func (c *Connections) RoomOf(id domain.ConnectionID) (domain.RoomID, domain.ParticipantID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.conns[id]
	if !ok || e.RoomID == "" {
		return "", "", false
	}
	return e.RoomID, e.ParticipantID, true
}

func (c *Connections) State(id domain.ConnectionID) ConnState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.conns[id]
	switch {
	case !ok:
		return ConnClosed
	case e.RoomID == "":
		return ConnUnbound
	default:
		return ConnBound
	}
}

// Release returns a single connection to the Unbound state.
func (c *Connections) Release(id domain.ConnectionID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.conns[id]
	if !ok || e.RoomID == "" {
		return false
	}
	e.RoomID = ""
	e.ParticipantID = ""
	log.Info().Str("module", "app.connections").Str("conn", string(id)).Msg("released connection")
	return true
}

// ReleaseRoom returns every connection bound to room to the Unbound state.
func (c *Connections) ReleaseRoom(room domain.RoomID) []domain.ConnectionID {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []domain.ConnectionID
	for id, e := range c.conns {
		if e.RoomID == room {
			e.RoomID = ""
			e.ParticipantID = ""
			out = append(out, id)
		}
	}
	if len(out) > 0 {
		log.Info().Str("module", "app.connections").Str("room", string(room)).Int("count", len(out)).Msg("released room")
	}
	return out
}

func (c *Connections) Unbind(id domain.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, id)
	log.Info().Str("module", "app.connections").Str("conn", string(id)).Msg("unbind connection")
}

func (c *Connections) Cancel(id domain.ConnectionID) bool {
	c.mu.RLock()
	e, ok := c.conns[id]
	c.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.connections").Str("conn", string(id)).Msg("canceled connection")
	return true
}

func (c *Connections) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.conns)
}
