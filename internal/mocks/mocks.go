package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"guardian-chat/internal/classifier"
	"guardian-chat/internal/models"
	"guardian-chat/internal/repositories"
)

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateDirectMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) CreateGroupMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	args := m.Called(ctx, msg)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var out models.Message
	if val := args.Get(0); val != nil {
		out = val.(models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, messageID int) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) ListDirectMessages(ctx context.Context, userID, otherID int) ([]models.Message, error) {
	args := m.Called(ctx, userID, otherID)
	var out []models.Message
	if val := args.Get(0); val != nil {
		out = val.([]models.Message)
	}
	return out, args.Error(1)
}

func (m *MessageRepositoryMock) ListGroupMessages(ctx context.Context, groupID int) ([]models.Message, error) {
	args := m.Called(ctx, groupID)
	var out []models.Message
	if val := args.Get(0); val != nil {
		out = val.([]models.Message)
	}
	return out, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var out models.User
	if val := args.Get(0); val != nil {
		out = val.(models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) BulkUsers(ctx context.Context, ids []int) ([]models.User, error) {
	args := m.Called(ctx, ids)
	var out []models.User
	if val := args.Get(0); val != nil {
		out = val.([]models.User)
	}
	return out, args.Error(1)
}

func (m *UserRepositoryMock) SetOnline(ctx context.Context, userID int, online bool) error {
	args := m.Called(ctx, userID, online)
	return args.Error(0)
}

type AlertRepositoryMock struct {
	mock.Mock
}

func (m *AlertRepositoryMock) CreateAlert(ctx context.Context, alert models.Alert) (models.Alert, error) {
	args := m.Called(ctx, alert)
	var out models.Alert
	if val := args.Get(0); val != nil {
		out = val.(models.Alert)
	}
	return out, args.Error(1)
}

func (m *AlertRepositoryMock) ListAlerts(ctx context.Context, limit int) ([]models.Alert, error) {
	args := m.Called(ctx, limit)
	var out []models.Alert
	if val := args.Get(0); val != nil {
		out = val.([]models.Alert)
	}
	return out, args.Error(1)
}

func (m *AlertRepositoryMock) UpdateStatus(ctx context.Context, alertID int, status string) (models.Alert, error) {
	args := m.Called(ctx, alertID, status)
	var out models.Alert
	if val := args.Get(0); val != nil {
		out = val.(models.Alert)
	}
	return out, args.Error(1)
}

func (m *AlertRepositoryMock) Stats(ctx context.Context) (models.AlertStats, error) {
	args := m.Called(ctx)
	var out models.AlertStats
	if val := args.Get(0); val != nil {
		out = val.(models.AlertStats)
	}
	return out, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var out models.Group
	if val := args.Get(0); val != nil {
		out = val.(models.Group)
	}
	return out, args.Error(1)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepositoryMock) ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	args := m.Called(ctx, userID)
	var out []models.Group
	if val := args.Get(0); val != nil {
		out = val.([]models.Group)
	}
	return out, args.Error(1)
}

type ClassifierMock struct {
	mock.Mock
}

func (m *ClassifierMock) Classify(ctx context.Context, conversationKey, text string) (classifier.Verdict, error) {
	args := m.Called(ctx, conversationKey, text)
	var out classifier.Verdict
	if val := args.Get(0); val != nil {
		out = val.(classifier.Verdict)
	}
	return out, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishJSON(ctx context.Context, routingKey string, message interface{}, headers map[string]string) error {
	args := m.Called(ctx, routingKey, message, headers)
	return args.Error(0)
}

var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.AlertRepository = (*AlertRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ classifier.Classifier = (*ClassifierMock)(nil)
