package hub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Conn is one client's outbound channel. The transport layer owns the
// connection lifetime; the hub only holds non-owning references. Send must
// not block on a slow peer.
type Conn interface {
	Send(payload []byte) error
}

// Broadcaster fans messages out to the set of live connections. Delivery is
// best effort: a failed send is logged and never prevents delivery to the
// remaining connections.
type Broadcaster struct {
	mu    sync.RWMutex
	conns map[Conn]struct{}
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{conns: make(map[Conn]struct{})}
}

func (b *Broadcaster) Attach(conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conns[conn] = struct{}{}
}

func (b *Broadcaster) Detach(conn Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conns, conn)
}

// BroadcastAll sends msg to every live connection. The connection set is
// snapshotted first, so attach/detach during the fan-out never faults the
// iteration; a connection added mid-broadcast may or may not receive msg.
func (b *Broadcaster) BroadcastAll(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal broadcast", "type", msg.Type, "error", err)
		return
	}
	for _, conn := range b.snapshot() {
		if err := conn.Send(payload); err != nil {
			slog.Warn("broadcast delivery failed", "type", msg.Type, "error", err)
		}
	}
}

// SendOne sends msg to exactly one connection.
func (b *Broadcaster) SendOne(conn Conn, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return conn.Send(payload)
}

func (b *Broadcaster) snapshot() []Conn {
	b.mu.RLock()
	defer b.mu.RUnlock()

	conns := make([]Conn, 0, len(b.conns))
	for conn := range b.conns {
		conns = append(conns, conn)
	}
	return conns
}
