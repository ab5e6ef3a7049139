package core

import (
	"errors"

	"github.com/dkeye/Board/internal/domain"
)

// ErrBackpressure is returned by TrySend when the peer's outbound queue is full.
var ErrBackpressure = errors.New("backpressure")

// ErrClosed is returned by TrySend once the connection has been closed.
var ErrClosed = errors.New("connection closed")

// Frame is a raw encoded message.
type Frame []byte

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend enqueues f without blocking.
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []domain.ConnectionID
}
