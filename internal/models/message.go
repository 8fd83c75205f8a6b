package models

import "time"

// Message types understood by clients.
const (
	MessageTypeText = "text"
	MessageTypeFile = "file"
)

// Message represents a direct or group message. Exactly one of RecipientID
// and GroupID is set.
type Message struct {
	ID          int       `db:"id" json:"id"`
	SenderID    int       `db:"sender_id" json:"sender_id"`
	RecipientID *int      `db:"recipient_id" json:"recipient_id,omitempty"`
	GroupID     *int      `db:"group_id" json:"group_id,omitempty"`
	Content     string    `db:"content" json:"content"`
	MessageType string    `db:"message_type" json:"message_type"`
	FileURL     *string   `db:"file_url" json:"file_url,omitempty"`
	FileName    *string   `db:"file_name" json:"file_name,omitempty"`
	FileSize    *int64    `db:"file_size" json:"file_size,omitempty"`
	ReplyTo     *int      `db:"reply_to" json:"reply_to,omitempty"`
	IsRead      bool      `db:"is_read" json:"is_read"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
