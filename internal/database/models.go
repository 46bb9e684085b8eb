package database

import "time"

// Message is the durable copy of a chat or private message that carried a
// room. In-memory edits are not written back here; the stored content stays
// as originally sent.
type Message struct {
	ID        string `gorm:"primaryKey"`
	Type      string `gorm:"not null"`
	Content   string
	Sender    string `gorm:"index"`
	Recipient string
	Room      string    `gorm:"index;not null"`
	Timestamp time.Time `gorm:"index"`
}
