package hub

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultHistorySize is the capacity of the in-memory message buffer.
const DefaultHistorySize = 100

// MessageStore is the durable collaborator for room-tagged messages. The
// hub depends only on these two operations.
type MessageStore interface {
	Save(ctx context.Context, msg Message) error
	RecentByRoom(ctx context.Context, room string, limit int) ([]Message, error)
}

// HistoryCache is a bounded, time-ordered buffer of CHAT and PRIVATE
// messages, oldest first. Messages with a room are additionally forwarded
// to the store; that forward is fire-and-forget and never rolls back the
// in-memory append.
type HistoryCache struct {
	mu       sync.Mutex
	messages []Message
	capacity int
	store    MessageStore
}

// NewHistoryCache builds a cache with the given capacity. The store may be
// nil, in which case nothing is persisted.
func NewHistoryCache(capacity int, store MessageStore) *HistoryCache {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &HistoryCache{
		capacity: capacity,
		store:    store,
	}
}

// Append stores a CHAT or PRIVATE message at the tail, evicting from the
// head when the buffer is over capacity. Other types are ignored.
func (h *HistoryCache) Append(msg Message) {
	if msg.Type != TypeChat && msg.Type != TypePrivate {
		return
	}

	h.mu.Lock()
	h.messages = append(h.messages, msg)
	if over := len(h.messages) - h.capacity; over > 0 {
		h.messages = append(h.messages[:0], h.messages[over:]...)
	}
	h.mu.Unlock()

	if msg.Room == "" || h.store == nil {
		return
	}
	go func() {
		if err := h.store.Save(context.Background(), msg); err != nil {
			slog.Error("failed to persist message", "id", msg.ID, "room", msg.Room, "error", err)
		}
	}()
}

// Snapshot returns an ordered copy of the current contents, oldest first.
func (h *HistoryCache) Snapshot() []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// FindEditable returns the stored message with the given id when its sender
// matches, authorizing an edit.
func (h *HistoryCache) FindEditable(id, sender string) (Message, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if i := h.indexOf(id, sender); i >= 0 {
		return h.messages[i], true
	}
	return Message{}, false
}

// MarkEdited replaces the stored message's content in place when id and
// sender match. The durable copy, if any, is left untouched; persisted and
// in-memory history diverge after an edit on purpose.
func (h *HistoryCache) MarkEdited(id, sender, newContent string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	i := h.indexOf(id, sender)
	if i < 0 {
		return false
	}
	h.messages[i].Content = newContent
	return true
}

// FindDeletable authorizes a delete broadcast with the same lookup contract
// as FindEditable. The entry itself is never removed from the buffer; a
// delete only instructs clients to hide the message.
func (h *HistoryCache) FindDeletable(id, sender string) (Message, bool) {
	return h.FindEditable(id, sender)
}

func (h *HistoryCache) indexOf(id, sender string) int {
	for i, m := range h.messages {
		if m.ID == id && m.Sender == sender {
			return i
		}
	}
	return -1
}
