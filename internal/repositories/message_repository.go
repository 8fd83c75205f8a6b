package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"guardian-chat/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

const messageColumns = `id, sender_id, recipient_id, group_id, content, message_type, file_url, file_name, file_size, reply_to, is_read, created_at`

// MessageRepository defines interactions for direct and group messages.
type MessageRepository interface {
	CreateDirectMessage(ctx context.Context, msg models.Message) (models.Message, error)
	CreateGroupMessage(ctx context.Context, msg models.Message) (models.Message, error)
	GetMessage(ctx context.Context, messageID int) (models.Message, error)
	MarkRead(ctx context.Context, messageID int) error
	ListDirectMessages(ctx context.Context, userID, otherID int) ([]models.Message, error)
	ListGroupMessages(ctx context.Context, groupID int) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateDirectMessage stores a message addressed to a single recipient.
func (r *MessageRepo) CreateDirectMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	var out models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, recipient_id, content, message_type, file_url, file_name, file_size, reply_to)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+messageColumns,
		msg.SenderID, msg.RecipientID, msg.Content, msg.MessageType, msg.FileURL, msg.FileName, msg.FileSize, msg.ReplyTo).
		StructScan(&out)
	return out, err
}

// CreateGroupMessage stores a message addressed to a group.
func (r *MessageRepo) CreateGroupMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	var out models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, group_id, content, message_type, file_url, file_name, file_size, reply_to)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING `+messageColumns,
		msg.SenderID, msg.GroupID, msg.Content, msg.MessageType, msg.FileURL, msg.FileName, msg.FileSize, msg.ReplyTo).
		StructScan(&out)
	return out, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// MarkRead flags a message as read.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE WHERE id=$1`, messageID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// ListDirectMessages returns the conversation between two users in send order.
func (r *MessageRepo) ListDirectMessages(ctx context.Context, userID, otherID int) ([]models.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
        WHERE (sender_id=$1 AND recipient_id=$2) OR (sender_id=$2 AND recipient_id=$1)
        ORDER BY created_at ASC`
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, query, userID, otherID)
	return msgs, err
}

// ListGroupMessages returns a group's messages in send order.
func (r *MessageRepo) ListGroupMessages(ctx context.Context, groupID int) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs, `SELECT `+messageColumns+` FROM messages WHERE group_id=$1 ORDER BY created_at ASC`, groupID)
	return msgs, err
}
