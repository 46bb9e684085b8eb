package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"chatws/internal/hub"
)

const defaultRoomLimit = 50

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Controller struct {
	hub            *hub.Hub
	store          hub.MessageStore
	maxMessageSize int64
}

func NewController(h *hub.Hub, store hub.MessageStore, maxMessageSize int64) *Controller {
	return &Controller{
		hub:            h,
		store:          store,
		maxMessageSize: maxMessageSize,
	}
}

func (c *Controller) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("upgrade failed", "error", err)
		return
	}

	client := hub.NewClient(conn, c.hub, c.maxMessageSize)
	client.Start()
}

// HandleRoomMessages serves GET /messages/{room}?limit=N with the room's
// persisted history, newest first. Unknown rooms give an empty list; a
// missing or unparseable limit falls back to the default of 50.
func (c *Controller) HandleRoomMessages(w http.ResponseWriter, r *http.Request) {
	room := r.PathValue("room")

	limit := defaultRoomLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := c.store.RecentByRoom(r.Context(), room, limit)
	if err != nil {
		c.writeError(w, http.StatusInternalServerError, "Failed to load room history", err)
		return
	}
	if messages == nil {
		messages = []hub.Message{}
	}
	c.writeJSON(w, http.StatusOK, messages)
}

func (c *Controller) HandleHealth(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write json response", "error", err)
	}
}

func (c *Controller) writeError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		slog.Error(message, "error", err)
	}
	c.writeJSON(w, status, map[string]string{"error": message})
}
