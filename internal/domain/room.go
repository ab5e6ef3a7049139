package domain

type RoomID string

// ImageData is the opaque canvas image a presenter submits.
// It is kept exactly as received; nil means the canvas is empty.
type ImageData []byte

// RoomInfo is a read-only summary of a room for diagnostics.
type RoomInfo struct {
	ID           RoomID `json:"room_id"`
	Participants int    `json:"participants"`
	HasSnapshot  bool   `json:"has_snapshot"`
}
