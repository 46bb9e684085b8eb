package hub

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_BroadcastAll(t *testing.T) {
	b := NewBroadcaster()
	alice, bob := &mockConn{}, &mockConn{}
	b.Attach(alice)
	b.Attach(bob)

	b.BroadcastAll(Message{Type: TypeChat, Sender: "alice", Content: "hi"})

	require.Len(t, alice.messages(), 1)
	require.Len(t, bob.messages(), 1)
	assert.Equal(t, "hi", bob.messages()[0].Content)
}

func TestBroadcaster_FailedSendDoesNotAbort(t *testing.T) {
	b := NewBroadcaster()
	broken := &mockConn{sendErr: errors.New("peer gone")}
	healthy := &mockConn{}
	b.Attach(broken)
	b.Attach(healthy)

	b.BroadcastAll(Message{Type: TypeChat, Content: "still delivered"})

	require.Len(t, healthy.messages(), 1)
	assert.Equal(t, "still delivered", healthy.messages()[0].Content)
}

func TestBroadcaster_Detach(t *testing.T) {
	b := NewBroadcaster()
	alice := &mockConn{}
	b.Attach(alice)
	b.Detach(alice)

	b.BroadcastAll(Message{Type: TypeChat, Content: "gone"})
	assert.Empty(t, alice.messages())

	// Detaching twice is harmless.
	b.Detach(alice)
}

func TestBroadcaster_SendOne(t *testing.T) {
	b := NewBroadcaster()
	alice, bob := &mockConn{}, &mockConn{}
	b.Attach(alice)
	b.Attach(bob)

	require.NoError(t, b.SendOne(alice, Message{Type: TypeChat, Content: "only you"}))

	assert.Len(t, alice.messages(), 1)
	assert.Empty(t, bob.messages())

	broken := &mockConn{sendErr: ErrSendBufferFull}
	assert.ErrorIs(t, b.SendOne(broken, Message{Type: TypeChat}), ErrSendBufferFull)
}
