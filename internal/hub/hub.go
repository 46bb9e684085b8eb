package hub

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// roomReplayLimit caps how much durable room history a joining client gets.
const roomReplayLimit = 50

// Hub dispatches inbound messages by type across the session registry, rate
// limiter, typing tracker, history cache and broadcaster. One unit of work
// runs per inbound message or connection event; units for different
// connections may run concurrently, each component guarding its own state.
type Hub struct {
	registry *SessionRegistry
	limiter  *RateLimiter
	typing   *TypingTracker
	history  *HistoryCache
	caster   *Broadcaster
	store    MessageStore

	now func() time.Time
}

// New builds a hub. The store may be nil; room persistence and room replay
// are then disabled.
func New(store MessageStore) *Hub {
	return &Hub{
		registry: NewSessionRegistry(),
		limiter:  NewRateLimiter(MessageCooldown),
		typing:   NewTypingTracker(),
		history:  NewHistoryCache(DefaultHistorySize, store),
		caster:   NewBroadcaster(),
		store:    store,
		now:      time.Now,
	}
}

// HandleConnect adds a freshly accepted connection to the broadcast set.
// The connection stays anonymous until a JOIN binds a username to it.
func (h *Hub) HandleConnect(conn Conn) {
	h.caster.Attach(conn)
}

// Dispatch routes one decoded inbound message. Every type except JOIN
// requires the connection to have a bound username; messages from unbound
// connections are dropped without surfacing an error to the sender.
func (h *Hub) Dispatch(conn Conn, msg Message) {
	if msg.Type == TypeJoin {
		h.handleJoin(conn, msg)
		return
	}

	identity, ok := h.registry.IdentityOf(conn)
	if !ok {
		slog.Debug("dropping message from unbound connection", "type", msg.Type)
		return
	}

	switch msg.Type {
	case TypeChat:
		h.handleChat(conn, identity, msg)
	case TypePrivate:
		h.handlePrivate(conn, identity, msg)
	case TypeLeave:
		h.departed(conn)
	case TypeTyping:
		h.handleTyping(msg)
	case TypeEdit:
		h.handleEdit(msg)
	case TypeDelete:
		h.handleDelete(msg)
	case TypeUsers:
		// Server-synthesized only; never accepted from clients.
	default:
		slog.Warn("unknown message type", "type", msg.Type, "sender", identity)
	}
}

// HandleClose runs when the transport reports a closed connection. The
// typing and active-user broadcasts fire even for connections that never
// joined, reflecting the (unchanged) registry state.
func (h *Hub) HandleClose(conn Conn) {
	h.caster.Detach(conn)
	h.departed(conn)
}

func (h *Hub) handleJoin(conn Conn, msg Message) {
	username := msg.Sender
	room := msg.Room

	if err := h.registry.Register(conn, username); err != nil {
		warning := NewSystemMessage("Username is already taken. Please choose another one.")
		h.stamp(&warning)
		if err := h.caster.SendOne(conn, warning); err != nil {
			slog.Warn("failed to deliver join conflict", "username", username, "error", err)
		}
		return
	}

	welcome := NewSystemMessage(username + " has joined the chat!")
	welcome.Room = room
	h.stamp(&welcome)
	h.caster.BroadcastAll(welcome)

	h.replayHistory(conn, username, room)
	h.broadcastActiveUsers()
}

// replayHistory sends the joining connection the in-memory history followed
// by the room's recent durable history, filtered to CHAT messages and to
// PRIVATE messages the joiner sent or received.
func (h *Hub) replayHistory(conn Conn, username, room string) {
	for _, m := range h.history.Snapshot() {
		if !visibleTo(m, username) {
			continue
		}
		if err := h.caster.SendOne(conn, m); err != nil {
			slog.Warn("history replay failed", "username", username, "error", err)
			return
		}
	}

	if room == "" || h.store == nil {
		return
	}
	recent, err := h.store.RecentByRoom(context.Background(), room, roomReplayLimit)
	if err != nil {
		slog.Error("failed to load room history", "room", room, "error", err)
		return
	}
	for _, m := range recent {
		if !visibleTo(m, username) {
			continue
		}
		if err := h.caster.SendOne(conn, m); err != nil {
			slog.Warn("room history replay failed", "username", username, "room", room, "error", err)
			return
		}
	}
}

func (h *Hub) handleChat(conn Conn, identity string, msg Message) {
	if !h.allowSend(conn, identity) {
		return
	}
	h.stamp(&msg)
	h.history.Append(msg)
	h.caster.BroadcastAll(msg)
}

// handlePrivate delivers to the recipient's connection and echoes to the
// sender's own connection; no other connection ever sees the message.
func (h *Hub) handlePrivate(conn Conn, identity string, msg Message) {
	if !h.allowSend(conn, identity) {
		return
	}
	h.stamp(&msg)
	h.history.Append(msg)

	if recipient, ok := h.registry.ConnOf(msg.Recipient); ok {
		if err := h.caster.SendOne(recipient, msg); err != nil {
			slog.Warn("private delivery failed", "recipient", msg.Recipient, "error", err)
		}
	}
	if sender, ok := h.registry.ConnOf(msg.Sender); ok {
		if err := h.caster.SendOne(sender, msg); err != nil {
			slog.Warn("private echo failed", "sender", msg.Sender, "error", err)
		}
	}
}

func (h *Hub) handleTyping(msg Message) {
	isTyping, _ := strconv.ParseBool(msg.Content)
	if isTyping {
		h.typing.Add(msg.Sender)
	} else {
		h.typing.Remove(msg.Sender)
	}
	h.broadcastTypingUsers()
}

func (h *Hub) handleEdit(msg Message) {
	if !h.history.MarkEdited(msg.ID, msg.Sender, msg.Content) {
		slog.Debug("edit rejected", "id", msg.ID, "sender", msg.Sender)
		return
	}
	h.caster.BroadcastAll(msg)
}

// handleDelete broadcasts the DELETE so clients hide the message; the
// buffer entry itself stays (soft delete).
func (h *Hub) handleDelete(msg Message) {
	if _, ok := h.history.FindDeletable(msg.ID, msg.Sender); !ok {
		slog.Debug("delete rejected", "id", msg.ID, "sender", msg.Sender)
		return
	}
	h.caster.BroadcastAll(msg)
}

// departed runs the identity teardown shared by an explicit LEAVE and a
// transport close.
func (h *Hub) departed(conn Conn) {
	identity, bound := h.registry.IdentityOf(conn)
	if bound {
		h.typing.Remove(identity)
	}
	h.broadcastTypingUsers()
	if bound {
		h.registry.Unregister(conn)
		left := NewSystemMessage(identity + " has left the chat.")
		h.stamp(&left)
		h.caster.BroadcastAll(left)
	}
	h.broadcastActiveUsers()
}

// allowSend applies the rate-limit gate shared by CHAT and PRIVATE. On
// throttle the sender alone gets a cooldown warning and the message is
// dropped.
func (h *Hub) allowSend(conn Conn, identity string) bool {
	remaining, ok := h.limiter.Acquire(identity, h.now())
	if ok {
		return true
	}
	warning := NewSystemMessage(fmt.Sprintf(
		"Please slow down. You can send another message in %dms.", remaining.Milliseconds()))
	h.stamp(&warning)
	if err := h.caster.SendOne(conn, warning); err != nil {
		slog.Warn("failed to deliver cooldown warning", "username", identity, "error", err)
	}
	return false
}

func (h *Hub) broadcastActiveUsers() {
	users := Message{
		Type:    TypeUsers,
		Content: strings.Join(h.registry.ActiveIdentities(), ","),
		Sender:  SystemSender,
	}
	h.stamp(&users)
	h.caster.BroadcastAll(users)
}

// broadcastTypingUsers is suppressed while the typing set is empty,
// including the transition back to empty.
func (h *Hub) broadcastTypingUsers() {
	typing := h.typing.Snapshot()
	if len(typing) == 0 {
		return
	}
	msg := Message{
		Type:    TypeTyping,
		Content: strings.Join(typing, ","),
		Sender:  SystemSender,
	}
	h.stamp(&msg)
	h.caster.BroadcastAll(msg)
}

// visibleTo reports whether a replayed history message may be shown to
// username: every CHAT, and PRIVATE traffic the user sent or received.
func visibleTo(m Message, username string) bool {
	switch m.Type {
	case TypeChat:
		return true
	case TypePrivate:
		return m.Sender == username || m.Recipient == username
	}
	return false
}

// stamp assigns the server-side ID and timestamp when the client left them
// out. An existing ID is never rewritten.
func (h *Hub) stamp(m *Message) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = h.now()
	}
}
