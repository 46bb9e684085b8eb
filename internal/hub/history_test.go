package hub

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatMsg(id, sender, content string) Message {
	return Message{ID: id, Type: TypeChat, Sender: sender, Content: content}
}

func TestHistoryCache_AppendFiltersTypes(t *testing.T) {
	h := NewHistoryCache(10, nil)

	h.Append(chatMsg("1", "alice", "hi"))
	h.Append(Message{ID: "2", Type: TypePrivate, Sender: "alice", Recipient: "bob"})
	h.Append(Message{ID: "3", Type: TypeJoin, Sender: "carol"})
	h.Append(Message{ID: "4", Type: TypeTyping, Sender: "carol", Content: "true"})
	h.Append(Message{ID: "5", Type: TypeUsers, Sender: SystemSender})

	snapshot := h.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "1", snapshot[0].ID)
	assert.Equal(t, "2", snapshot[1].ID)
}

func TestHistoryCache_EvictsOldestAtCapacity(t *testing.T) {
	h := NewHistoryCache(DefaultHistorySize, nil)

	for i := 0; i <= DefaultHistorySize; i++ {
		h.Append(chatMsg(fmt.Sprintf("m%d", i), "alice", "x"))
	}

	snapshot := h.Snapshot()
	require.Len(t, snapshot, DefaultHistorySize)
	assert.Equal(t, "m1", snapshot[0].ID, "the oldest entry is evicted first")
	assert.Equal(t, fmt.Sprintf("m%d", DefaultHistorySize), snapshot[len(snapshot)-1].ID)
}

func TestHistoryCache_RoomMessagesAreForwarded(t *testing.T) {
	store := &fakeStore{}
	h := NewHistoryCache(10, store)

	roomed := chatMsg("1", "alice", "kept")
	roomed.Room = "lobby"
	h.Append(roomed)
	h.Append(chatMsg("2", "alice", "memory only"))

	require.Eventually(t, func() bool {
		return len(store.savedMessages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "1", store.savedMessages()[0].ID)

	// Both live in the buffer regardless of persistence.
	assert.Len(t, h.Snapshot(), 2)
}

func TestHistoryCache_MarkEdited(t *testing.T) {
	h := NewHistoryCache(10, nil)
	h.Append(chatMsg("1", "alice", "original"))

	tests := []struct {
		name   string
		id     string
		sender string
		want   bool
	}{
		{name: "matching id and sender", id: "1", sender: "alice", want: true},
		{name: "wrong sender", id: "1", sender: "mallory", want: false},
		{name: "unknown id", id: "404", sender: "alice", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.MarkEdited(tt.id, tt.sender, "changed"))
		})
	}

	stored, ok := h.FindEditable("1", "alice")
	require.True(t, ok)
	assert.Equal(t, "changed", stored.Content)
}

func TestHistoryCache_FindDeletableKeepsEntry(t *testing.T) {
	h := NewHistoryCache(10, nil)
	h.Append(chatMsg("1", "alice", "hi"))

	_, ok := h.FindDeletable("1", "alice")
	assert.True(t, ok)
	_, ok = h.FindDeletable("1", "mallory")
	assert.False(t, ok)

	assert.Len(t, h.Snapshot(), 1, "delete authorization never mutates the buffer")
}
