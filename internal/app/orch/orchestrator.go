package orch

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/Board/internal/app"
	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownConnection = errors.New("unknown connection")
	ErrAlreadyBound      = errors.New("already joined a room")
	ErrNotBound          = errors.New("connection has not joined a room")
	ErrEmptyImage        = errors.New("image data missing")
)

// Orchestrator applies client events to the registry and snapshot store and
// fans the results out to room members. Events are applied one at a time, so
// every member observes a room's events in the same order.
type Orchestrator struct {
	Registry  *app.Registry
	Snapshots *app.SnapshotStore
	Conns     *app.Connections
	Policy    app.Policy

	mu sync.Mutex
}

func New(policy app.Policy) *Orchestrator {
	return &Orchestrator{
		Registry:  app.NewRegistry(),
		Snapshots: app.NewSnapshotStore(),
		Conns:     app.NewConnections(),
		Policy:    policy,
	}
}

// Connect registers a freshly opened connection in the Unbound state.
func (o *Orchestrator) Connect(id domain.ConnectionID, sig core.SignalConnection, cancel context.CancelFunc) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Conns.BindSignal(id, sig, cancel)
}

// broadcastRoom sends v to every present member of room except the one on except.
func (o *Orchestrator) broadcastRoom(room domain.RoomID, except domain.ConnectionID, v any) core.PublishResult {
	var res core.PublishResult
	frame, err := encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Str("room", string(room)).Msg("encode broadcast")
		return res
	}
	for _, p := range o.Registry.ListByRoom(room) {
		if p.ConnectionID == except {
			continue
		}
		sig, ok := o.Conns.Signal(p.ConnectionID)
		if !ok {
			continue
		}
		if err := sig.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, p.ConnectionID)
			continue
		}
		res.SendTo++
	}
	o.applyPolicy(room, res.Dropped)
	return res
}

// sendTo sends v to a single connection.
func (o *Orchestrator) sendTo(room domain.RoomID, id domain.ConnectionID, v any) {
	sig, ok := o.Conns.Signal(id)
	if !ok {
		return
	}
	frame, err := encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orch").Str("conn", string(id)).Msg("encode message")
		return
	}
	if err := sig.TrySend(frame); err != nil {
		o.applyPolicy(room, []domain.ConnectionID{id})
	}
}

func (o *Orchestrator) applyPolicy(room domain.RoomID, dropped []domain.ConnectionID) {
	if o.Policy == nil {
		return
	}
	for _, id := range dropped {
		switch o.Policy.OnBackPressure(room, id) {
		case app.KickMember:
			log.Warn().Str("module", "app.orch").Str("room", string(room)).Str("conn", string(id)).Msg("kicking slow peer")
			o.kick(id)
		case app.MarkSlow, app.DropFrame, app.NoAction:
		}
	}
}

// kick closes the connection. Its read loop then reports the disconnect.
func (o *Orchestrator) kick(id domain.ConnectionID) {
	o.Conns.Cancel(id)
	if sig, ok := o.Conns.Signal(id); ok {
		sig.Close()
	}
}
