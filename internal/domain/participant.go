// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"
)

var (
	ErrNameEmpty          = errors.New("name empty")
	ErrParticipantIDEmpty = errors.New("participant id empty")
	ErrRoomIDEmpty        = errors.New("room id empty")
)

type (
	ParticipantID string
	ConnectionID  string
)

// Participant is one person bound to a room.
// Identity is (ID, RoomID); ConnectionID only routes frames and is
// overwritten when the same participant reconnects.
type Participant struct {
	Name         string        `json:"name"`
	ID           ParticipantID `json:"participant_id"`
	RoomID       RoomID        `json:"room_id"`
	IsHost       bool          `json:"is_host"`
	IsPresenter  bool          `json:"is_presenter"`
	ConnectionID ConnectionID  `json:"-"`
	JoinedAt     time.Time     `json:"joined_at"`
}

// NewParticipant is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewParticipant(name string, id ParticipantID, room RoomID, host, presenter bool) (*Participant, error) {
	p := &Participant{
		Name:        name,
		ID:          id,
		RoomID:      room,
		IsHost:      host,
		IsPresenter: presenter,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Participant) Validate() error {
	switch {
	case p.Name == "":
		return ErrNameEmpty
	case p.ID == "":
		return ErrParticipantIDEmpty
	case p.RoomID == "":
		return ErrRoomIDEmpty
	}
	return nil
}
