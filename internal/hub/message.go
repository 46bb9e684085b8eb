package hub

import "time"

// MessageType identifies how a message is dispatched.
type MessageType string

const (
	TypeChat    MessageType = "CHAT"
	TypeJoin    MessageType = "JOIN"
	TypeLeave   MessageType = "LEAVE"
	TypePrivate MessageType = "PRIVATE"
	TypeUsers   MessageType = "USERS"
	TypeTyping  MessageType = "TYPING"
	TypeEdit    MessageType = "EDIT"
	TypeDelete  MessageType = "DELETE"
)

// SystemSender is the sender name used for server-generated messages.
const SystemSender = "System"

// Message is the wire format exchanged with clients. Content semantics
// depend on Type: chat text for CHAT/PRIVATE/EDIT, "true"/"false" for an
// inbound TYPING, and a comma-joined name list for USERS and outbound
// TYPING broadcasts.
type Message struct {
	ID        string      `json:"id,omitempty"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content,omitempty"`
	Sender    string      `json:"sender,omitempty"`
	Recipient string      `json:"recipient,omitempty"`
	Room      string      `json:"room,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewSystemMessage builds a CHAT-type message from the server itself.
// ID and timestamp are assigned by the hub before delivery.
func NewSystemMessage(content string) Message {
	return Message{
		Type:    TypeChat,
		Content: content,
		Sender:  SystemSender,
	}
}
