package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Inbound event names, one per client action.
const (
	EventIdentify         = "user:join"
	EventConversationJoin = "conversation:join"
	EventGroupJoin        = "group:join"
	EventSendDirect       = "message:send"
	EventSendGroup        = "group:message:send"
	EventTypingStart      = "typing:start"
	EventTypingStop       = "typing:stop"
	EventGroupTypingStart = "group:typing:start"
	EventGroupTypingStop  = "group:typing:stop"
	EventMessageRead      = "message:read"
	EventMonitorJoin      = "join:parent-dashboard"
)

// Outbound event names.
const (
	EventUserOnline      = "user:online"
	EventUserOffline     = "user:offline"
	EventMessageReceive  = "message:receive"
	EventGroupMessage    = "group:message:receive"
	EventNotification    = "notification:new"
	EventTypingUser      = "typing:user"
	EventGroupTypingUser = "group:typing:user"
	EventReadConfirm     = "message:read:confirm"
	EventAlertNew        = "alert:new"
)

// Envelope frames every websocket message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads. Required fields are enforced before dispatch; an event
// failing validation is dropped without touching any shared state.

type IdentifyPayload struct {
	UserID int `json:"userId" validate:"required"`
}

type ConversationJoinPayload struct {
	UserID      int `json:"userId" validate:"required"`
	OtherUserID int `json:"otherUserId" validate:"required"`
}

type GroupJoinPayload struct {
	GroupID int `json:"groupId" validate:"required"`
}

type SendDirectPayload struct {
	Sender      int     `json:"sender" validate:"required"`
	Recipient   int     `json:"recipient" validate:"required"`
	Content     string  `json:"content" validate:"required"`
	MessageType string  `json:"messageType"`
	FileURL     *string `json:"fileUrl"`
	FileName    *string `json:"fileName"`
	FileSize    *int64  `json:"fileSize"`
	ReplyTo     *int    `json:"replyTo"`
}

type SendGroupPayload struct {
	Sender      int     `json:"sender" validate:"required"`
	GroupID     int     `json:"group" validate:"required"`
	Content     string  `json:"content" validate:"required"`
	MessageType string  `json:"messageType"`
	FileURL     *string `json:"fileUrl"`
	FileName    *string `json:"fileName"`
	FileSize    *int64  `json:"fileSize"`
	ReplyTo     *int    `json:"replyTo"`
}

type TypingPayload struct {
	UserID      int `json:"userId" validate:"required"`
	OtherUserID int `json:"otherUserId" validate:"required"`
}

type GroupTypingPayload struct {
	UserID   int    `json:"userId" validate:"required"`
	GroupID  int    `json:"groupId" validate:"required"`
	Username string `json:"username"`
}

type MessageReadPayload struct {
	MessageID int `json:"messageId" validate:"required"`
	UserID    int `json:"userId" validate:"required"`
}

// Outbound payloads.

type PresencePayload struct {
	UserID   int  `json:"userId"`
	IsOnline bool `json:"isOnline"`
}

type NotificationPayload struct {
	Type      string    `json:"type"`
	From      int       `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type TypingUserPayload struct {
	UserID   int  `json:"userId"`
	IsTyping bool `json:"isTyping"`
}

type GroupTypingUserPayload struct {
	UserID   int    `json:"userId"`
	Username string `json:"username,omitempty"`
	IsTyping bool   `json:"isTyping"`
}

type ReadConfirmPayload struct {
	MessageID int `json:"messageId"`
}

var validate = validator.New()

func decodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	if len(raw) == 0 {
		return payload, fmt.Errorf("empty payload")
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("decode payload: %w", err)
	}
	if err := validate.Struct(&payload); err != nil {
		return payload, fmt.Errorf("validate payload: %w", err)
	}
	return payload, nil
}

// MarshalEvent frames an outbound event. A payload that cannot marshal is a
// programming error; the frame is dropped and nil returned.
func MarshalEvent(event string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return frame
}
