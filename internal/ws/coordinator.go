package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"guardian-chat/internal/alerts"
	"guardian-chat/internal/classifier"
	"guardian-chat/internal/conversation"
	"guardian-chat/internal/models"
	"guardian-chat/internal/observability"
	"guardian-chat/internal/repositories"
)

// Coordinator wires inbound session events to presence, routing,
// persistence, classification and alert dispatch. Events for one session
// arrive in order from its read loop; the registry and router absorb the
// cross-session concurrency.
type Coordinator struct {
	presence *PresenceRegistry
	rooms    *RoomRouter

	messages repositories.MessageRepository
	users    repositories.UserRepository

	classifier classifier.Classifier
	dispatcher *alerts.Dispatcher

	storageTimeout time.Duration
}

// NewCoordinator constructs a Coordinator.
func NewCoordinator(presence *PresenceRegistry, rooms *RoomRouter, messages repositories.MessageRepository, users repositories.UserRepository, cls classifier.Classifier, dispatcher *alerts.Dispatcher, storageTimeout time.Duration) *Coordinator {
	return &Coordinator{
		presence:       presence,
		rooms:          rooms,
		messages:       messages,
		users:          users,
		classifier:     cls,
		dispatcher:     dispatcher,
		storageTimeout: storageTimeout,
	}
}

// Connect registers a freshly-upgraded session for broadcasts. The session
// stays anonymous until it identifies.
func (c *Coordinator) Connect(s *Session) {
	c.rooms.Attach(s)
	observability.IncWSActive()
}

// Disconnect tears a session down: all rooms left, presence entry removed
// if this session still owns it, offline broadcast when presence actually
// changed.
func (c *Coordinator) Disconnect(s *Session) {
	c.rooms.Detach(s)
	observability.DecWSActive()

	userID := s.UserID()
	if userID == 0 {
		return
	}
	if !c.presence.Unregister(userID, s) {
		// A newer session took over this user; leave it online.
		log.Printf("stale disconnect ignored user=%d session=%s", userID, s.ID)
		return
	}

	ctx, cancel := c.storageContext()
	defer cancel()
	if err := c.users.SetOnline(ctx, userID, false); err != nil {
		log.Printf("set offline failed user=%d: %v", userID, err)
	}
	c.rooms.Broadcast(s, MarshalEvent(EventUserOffline, PresencePayload{UserID: userID, IsOnline: false}))
}

// HandleEvent dispatches one inbound frame. Malformed or invalid frames
// are dropped; the connection's event loop never aborts on bad input.
func (c *Coordinator) HandleEvent(s *Session, raw []byte) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Event == "" {
		log.Printf("unparseable frame dropped session=%s: %v", s.ID, err)
		observability.IncWSEvent("unknown", "dropped")
		return
	}

	switch envelope.Event {
	case EventIdentify:
		c.handleIdentify(s, envelope.Data)
	case EventConversationJoin:
		c.handleConversationJoin(s, envelope.Data)
	case EventGroupJoin:
		c.handleGroupJoin(s, envelope.Data)
	case EventSendDirect:
		c.handleSendDirect(s, envelope.Data)
	case EventSendGroup:
		c.handleSendGroup(s, envelope.Data)
	case EventTypingStart:
		c.handleTyping(s, envelope.Data, true)
	case EventTypingStop:
		c.handleTyping(s, envelope.Data, false)
	case EventGroupTypingStart:
		c.handleGroupTyping(s, envelope.Data, true)
	case EventGroupTypingStop:
		c.handleGroupTyping(s, envelope.Data, false)
	case EventMessageRead:
		c.handleMessageRead(s, envelope.Data)
	case EventMonitorJoin:
		c.handleMonitorJoin(s)
	default:
		log.Printf("unknown event %q dropped session=%s", envelope.Event, s.ID)
		observability.IncWSEvent(envelope.Event, "dropped")
	}
}

func (c *Coordinator) handleIdentify(s *Session, raw json.RawMessage) {
	payload, err := decodePayload[IdentifyPayload](raw)
	if err != nil {
		c.drop(s, EventIdentify, err)
		return
	}
	// A session may only identify as the user its token was issued for.
	if payload.UserID != s.Claims.UserID {
		log.Printf("identify denied session=%s token_user=%d claimed=%d", s.ID, s.Claims.UserID, payload.UserID)
		observability.IncWSEvent(EventIdentify, "denied")
		return
	}

	s.userID = payload.UserID
	prev := c.presence.Register(payload.UserID, s)

	ctx, cancel := c.storageContext()
	defer cancel()
	if err := c.users.SetOnline(ctx, payload.UserID, true); err != nil {
		log.Printf("set online failed user=%d: %v", payload.UserID, err)
	}

	if prev == nil {
		// Genuine offline-to-online transition; a replaced session means
		// the user never stopped being online.
		c.rooms.Broadcast(s, MarshalEvent(EventUserOnline, PresencePayload{UserID: payload.UserID, IsOnline: true}))
	}
	observability.IncWSEvent(EventIdentify, "ok")
}

func (c *Coordinator) handleConversationJoin(s *Session, raw json.RawMessage) {
	payload, err := decodePayload[ConversationJoinPayload](raw)
	if err != nil {
		c.drop(s, EventConversationJoin, err)
		return
	}
	c.rooms.Join(s, conversation.DirectRoom(payload.UserID, payload.OtherUserID))
	observability.IncWSEvent(EventConversationJoin, "ok")
}

func (c *Coordinator) handleGroupJoin(s *Session, raw json.RawMessage) {
	payload, err := decodePayload[GroupJoinPayload](raw)
	if err != nil {
		c.drop(s, EventGroupJoin, err)
		return
	}
	c.rooms.Join(s, conversation.GroupRoom(payload.GroupID))
	observability.IncWSEvent(EventGroupJoin, "ok")
}

func (c *Coordinator) handleSendDirect(s *Session, raw json.RawMessage) {
	payload, err := decodePayload[SendDirectPayload](raw)
	if err != nil {
		c.drop(s, EventSendDirect, err)
		return
	}

	msg := directMessageFromPayload(payload)

	ctx, cancel := c.storageContext()
	defer cancel()
	persisted, err := c.messages.CreateDirectMessage(ctx, msg)
	if err != nil {
		// Never deliver a message that was not durably recorded.
		log.Printf("message persist failed sender=%d recipient=%d: %v", payload.Sender, payload.Recipient, err)
		observability.IncWSEvent(EventSendDirect, "dropped")
		return
	}

	roomID := conversation.DirectRoom(payload.Sender, payload.Recipient)
	c.rooms.Deliver(roomID, MarshalEvent(EventMessageReceive, persisted))

	if recipient, ok := c.presence.Lookup(payload.Recipient); ok && recipient != s {
		c.rooms.DeliverToSession(recipient, MarshalEvent(EventNotification, NotificationPayload{
			Type:      "message",
			From:      payload.Sender,
			Message:   payload.Content,
			Timestamp: time.Now(),
		}))
	}
	observability.IncWSEvent(EventSendDirect, "ok")

	// Delivery is complete; classification runs detached and never gates
	// or fails the send. It outlives the session on purpose: alerting is
	// about the conversation, not the connection.
	go c.classifyAndDispatch(payload.Sender, payload.Recipient, payload.Content)
}

func (c *Coordinator) classifyAndDispatch(senderID, recipientID int, content string) {
	key := conversation.Key(senderID, recipientID)

	verdict, err := c.classifier.Classify(context.Background(), key, content)
	if err != nil {
		// Best effort: an unavailable classifier only skips alerting.
		log.Printf("classification unavailable conversation=%s: %v", key, err)
		return
	}
	if !verdict.AlertTriggered {
		return
	}

	ctx, cancel := c.storageContext()
	defer cancel()
	if err := c.dispatcher.Dispatch(ctx, key, senderID, recipientID, content, verdict.ConfidenceScore); err != nil {
		log.Printf("alert dispatch failed conversation=%s: %v", key, err)
	}
}

func (c *Coordinator) handleSendGroup(s *Session, raw json.RawMessage) {
	payload, err := decodePayload[SendGroupPayload](raw)
	if err != nil {
		c.drop(s, EventSendGroup, err)
		return
	}

	msg := groupMessageFromPayload(payload)

	ctx, cancel := c.storageContext()
	defer cancel()
	persisted, err := c.messages.CreateGroupMessage(ctx, msg)
	if err != nil {
		log.Printf("group message persist failed sender=%d group=%d: %v", payload.Sender, payload.GroupID, err)
		observability.IncWSEvent(EventSendGroup, "dropped")
		return
	}

	c.rooms.Deliver(conversation.GroupRoom(payload.GroupID), MarshalEvent(EventGroupMessage, persisted))
	observability.IncWSEvent(EventSendGroup, "ok")
}

func (c *Coordinator) handleTyping(s *Session, raw json.RawMessage, typing bool) {
	event := EventTypingStop
	if typing {
		event = EventTypingStart
	}
	payload, err := decodePayload[TypingPayload](raw)
	if err != nil {
		c.drop(s, event, err)
		return
	}

	target, ok := c.presence.Lookup(payload.OtherUserID)
	if !ok {
		return
	}
	c.rooms.DeliverToSession(target, MarshalEvent(EventTypingUser, TypingUserPayload{
		UserID:   payload.UserID,
		IsTyping: typing,
	}))
}

func (c *Coordinator) handleGroupTyping(s *Session, raw json.RawMessage, typing bool) {
	event := EventGroupTypingStop
	if typing {
		event = EventGroupTypingStart
	}
	payload, err := decodePayload[GroupTypingPayload](raw)
	if err != nil {
		c.drop(s, event, err)
		return
	}

	c.rooms.DeliverExcept(conversation.GroupRoom(payload.GroupID), s, MarshalEvent(EventGroupTypingUser, GroupTypingUserPayload{
		UserID:   payload.UserID,
		Username: payload.Username,
		IsTyping: typing,
	}))
}

func (c *Coordinator) handleMessageRead(s *Session, raw json.RawMessage) {
	payload, err := decodePayload[MessageReadPayload](raw)
	if err != nil {
		c.drop(s, EventMessageRead, err)
		return
	}

	ctx, cancel := c.storageContext()
	defer cancel()

	msg, err := c.messages.GetMessage(ctx, payload.MessageID)
	if err != nil {
		log.Printf("read receipt load failed message=%d: %v", payload.MessageID, err)
		observability.IncWSEvent(EventMessageRead, "dropped")
		return
	}
	// Only the recipient may mark a message read. Anyone else is a silent
	// no-op, but observably so.
	if msg.RecipientID == nil || *msg.RecipientID != payload.UserID {
		log.Printf("read receipt denied message=%d user=%d", payload.MessageID, payload.UserID)
		observability.IncWSEvent(EventMessageRead, "denied")
		return
	}

	if err := c.messages.MarkRead(ctx, payload.MessageID); err != nil {
		log.Printf("mark read failed message=%d: %v", payload.MessageID, err)
		observability.IncWSEvent(EventMessageRead, "dropped")
		return
	}

	if sender, ok := c.presence.Lookup(msg.SenderID); ok {
		c.rooms.DeliverToSession(sender, MarshalEvent(EventReadConfirm, ReadConfirmPayload{MessageID: payload.MessageID}))
	}
	observability.IncWSEvent(EventMessageRead, "ok")
}

func (c *Coordinator) handleMonitorJoin(s *Session) {
	if !s.Claims.IsMonitor() {
		log.Printf("monitor join denied session=%s user=%d role=%s", s.ID, s.Claims.UserID, s.Claims.Role)
		observability.IncWSEvent(EventMonitorJoin, "denied")
		return
	}
	c.rooms.Join(s, conversation.MonitorRoom)
	observability.IncWSEvent(EventMonitorJoin, "ok")
}

func (c *Coordinator) drop(s *Session, event string, err error) {
	log.Printf("invalid %s dropped session=%s: %v", event, s.ID, err)
	observability.IncWSEvent(event, "dropped")
}

func (c *Coordinator) storageContext() (context.Context, context.CancelFunc) {
	timeout := c.storageTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func directMessageFromPayload(p SendDirectPayload) models.Message {
	recipient := p.Recipient
	msg := models.Message{
		SenderID:    p.Sender,
		RecipientID: &recipient,
		Content:     p.Content,
		MessageType: p.MessageType,
		FileURL:     p.FileURL,
		FileName:    p.FileName,
		FileSize:    p.FileSize,
		ReplyTo:     p.ReplyTo,
	}
	if msg.MessageType == "" {
		msg.MessageType = models.MessageTypeText
	}
	return msg
}

func groupMessageFromPayload(p SendGroupPayload) models.Message {
	group := p.GroupID
	msg := models.Message{
		SenderID:    p.Sender,
		GroupID:     &group,
		Content:     p.Content,
		MessageType: p.MessageType,
		FileURL:     p.FileURL,
		FileName:    p.FileName,
		FileSize:    p.FileSize,
		ReplyTo:     p.ReplyTo,
	}
	if msg.MessageType == "" {
		msg.MessageType = models.MessageTypeText
	}
	return msg
}
