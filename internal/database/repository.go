package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"chatws/internal/hub"
)

// MessageRepository persists room-scoped messages and answers the
// most-recent-by-room query used for join replay and the history endpoint.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Save(ctx context.Context, msg hub.Message) error {
	record := fromHub(msg)
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// RecentByRoom returns up to limit messages for the room, newest first.
// Unknown rooms yield an empty slice, never an error.
func (r *MessageRepository) RecentByRoom(ctx context.Context, room string, limit int) ([]hub.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []Message
	err := r.db.WithContext(ctx).
		Where("room = ?", room).
		Order("timestamp DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("query room history: %w", err)
	}

	messages := make([]hub.Message, 0, len(records))
	for _, record := range records {
		messages = append(messages, record.toHub())
	}
	return messages, nil
}

func fromHub(m hub.Message) Message {
	return Message{
		ID:        m.ID,
		Type:      string(m.Type),
		Content:   m.Content,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Room:      m.Room,
		Timestamp: m.Timestamp,
	}
}

func (m Message) toHub() hub.Message {
	return hub.Message{
		ID:        m.ID,
		Type:      hub.MessageType(m.Type),
		Content:   m.Content,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Room:      m.Room,
		Timestamp: m.Timestamp,
	}
}
