package hub

import "errors"

var (
	// ErrIdentityTaken is returned when a JOIN asks for a username that is
	// already bound to another live connection.
	ErrIdentityTaken = errors.New("username already taken")

	// ErrSendBufferFull is returned when a connection's outbound buffer is
	// full; the hub drops the message instead of blocking on a slow peer.
	ErrSendBufferFull = errors.New("send buffer full")
)
