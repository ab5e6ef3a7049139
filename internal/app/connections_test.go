package app

import (
	"testing"

	"github.com/dkeye/Board/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSignal struct{ closed bool }

func (n *nopSignal) TrySend(core.Frame) error { return nil }
func (n *nopSignal) Close()                   { n.closed = true }

func TestConnectionsLifecycle(t *testing.T) {
	c := NewConnections()
	assert.Equal(t, ConnClosed, c.State("c1"))

	canceled := false
	sig := &nopSignal{}
	c.BindSignal("c1", sig, func() { canceled = true })
	assert.Equal(t, ConnUnbound, c.State("c1"))

	got, ok := c.Signal("c1")
	require.True(t, ok)
	assert.Same(t, sig, got)

	_, _, ok = c.RoomOf("c1")
	assert.False(t, ok)

	require.True(t, c.Bind("c1", "r1", "p1"))
	assert.Equal(t, ConnBound, c.State("c1"))
	room, pid, ok := c.RoomOf("c1")
	require.True(t, ok)
	assert.Equal(t, "r1", string(room))
	assert.Equal(t, "p1", string(pid))

	assert.True(t, c.Cancel("c1"))
	assert.True(t, canceled)

	c.Unbind("c1")
	assert.Equal(t, ConnClosed, c.State("c1"))
	assert.False(t, c.Cancel("c1"))
	assert.Equal(t, 0, c.Count())
}

func TestConnectionsBindUnknown(t *testing.T) {
	c := NewConnections()
	assert.False(t, c.Bind("ghost", "r1", "p1"))
}

func TestConnectionsReleaseRoom(t *testing.T) {
	c := NewConnections()
	c.BindSignal("c1", &nopSignal{}, nil)
	c.BindSignal("c2", &nopSignal{}, nil)
	c.BindSignal("c3", &nopSignal{}, nil)
	c.Bind("c1", "r1", "a")
	c.Bind("c2", "r1", "b")
	c.Bind("c3", "r2", "z")

	released := c.ReleaseRoom("r1")
	require.Len(t, released, 2)
	assert.ElementsMatch(t, []string{"c1", "c2"}, []string{string(released[0]), string(released[1])})
	assert.Equal(t, ConnUnbound, c.State("c1"))
	assert.Equal(t, ConnUnbound, c.State("c2"))
	assert.Equal(t, ConnBound, c.State("c3"))
	assert.True(t, c.Cancel("c1"))
}

func TestConnectionsRelease(t *testing.T) {
	c := NewConnections()
	c.BindSignal("c1", &nopSignal{}, nil)
	assert.False(t, c.Release("c1"), "unbound connection has nothing to release")

	c.Bind("c1", "r1", "a")
	assert.True(t, c.Release("c1"))
	assert.Equal(t, ConnUnbound, c.State("c1"))
	assert.False(t, c.Release("ghost"))
}
