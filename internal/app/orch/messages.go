package orch

import (
	"encoding/json"

	"github.com/dkeye/Board/internal/core"
	"github.com/dkeye/Board/internal/domain"
)

// Outbound message types.
const (
	TypeJoinConfirmed     = "join_confirmed"
	TypeRosterUpdated     = "roster_updated"
	TypeParticipantJoined = "participant_joined"
	TypeParticipantLeft   = "participant_left"
	TypeSnapshot          = "snapshot"
	TypeCanvasCleared     = "canvas_cleared"
	TypeError             = "error"
	TypePong              = "pong"
)

// Error kinds carried in the error field of an error message.
const (
	ErrKindValidation  = "validation"
	ErrKindBadPayload  = "bad_payload"
	ErrKindRateLimited = "rate_limited"
	ErrKindInternal    = "internal"
)

// JoinRequest is what a client declares about itself when it joins a room.
type JoinRequest struct {
	Name          string               `json:"name"`
	ParticipantID domain.ParticipantID `json:"participant_id"`
	RoomID        domain.RoomID        `json:"room_id"`
	IsHost        bool                 `json:"is_host"`
	IsPresenter   bool                 `json:"is_presenter"`
}

type JoinConfirmed struct {
	Type    string               `json:"type"`
	Success bool                 `json:"success"`
	Roster  []domain.Participant `json:"roster"`
	RoomID  domain.RoomID        `json:"room_id"`
}

type RosterUpdated struct {
	Type   string               `json:"type"`
	Roster []domain.Participant `json:"roster"`
}

type ParticipantNotice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type Snapshot struct {
	Type      string          `json:"type"`
	ImageData json.RawMessage `json:"image_data"`
}

// Notice is a message with no payload, such as canvas_cleared or pong.
type Notice struct {
	Type string `json:"type"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewError(kind, msg string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Error: kind, Message: msg}
}

func encode(v any) (core.Frame, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}
