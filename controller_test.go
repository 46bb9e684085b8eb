package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatws/internal/hub"
)

type stubStore struct {
	messages  []hub.Message
	err       error
	lastRoom  string
	lastLimit int
}

func (s *stubStore) Save(context.Context, hub.Message) error { return nil }

func (s *stubStore) RecentByRoom(_ context.Context, room string, limit int) ([]hub.Message, error) {
	s.lastRoom = room
	s.lastLimit = limit
	return s.messages, s.err
}

func newTestMux(store *stubStore) *http.ServeMux {
	controller := NewController(hub.New(store), store, 4096)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /messages/{room}", controller.HandleRoomMessages)
	mux.HandleFunc("/health", controller.HandleHealth)
	return mux
}

func TestHandleRoomMessages(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantLimit int
	}{
		{name: "default limit", target: "/messages/lobby", wantLimit: 50},
		{name: "explicit limit", target: "/messages/lobby?limit=10", wantLimit: 10},
		{name: "unparseable limit falls back", target: "/messages/lobby?limit=abc", wantLimit: 50},
		{name: "non-positive limit falls back", target: "/messages/lobby?limit=-5", wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{messages: []hub.Message{
				{ID: "1", Type: hub.TypeChat, Sender: "alice", Content: "hi", Room: "lobby"},
			}}
			mux := newTestMux(store)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "lobby", store.lastRoom)
			assert.Equal(t, tt.wantLimit, store.lastLimit)

			var got []hub.Message
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			require.Len(t, got, 1)
			assert.Equal(t, "hi", got[0].Content)
		})
	}
}

func TestHandleRoomMessages_UnknownRoom(t *testing.T) {
	mux := newTestMux(&stubStore{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages/nowhere", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestHandleRoomMessages_StoreError(t *testing.T) {
	mux := newTestMux(&stubStore{err: errors.New("disk on fire")})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages/lobby", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load room history")
}

func TestHandleHealth(t *testing.T) {
	mux := newTestMux(&stubStore{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
