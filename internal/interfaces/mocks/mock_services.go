// Package mocks provides testify mocks of the service interfaces consumed
// by the API layer.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chatwithme/internal/llm"
	"chatwithme/internal/model"
)

type MockConversationService struct {
	mock.Mock
}

func NewMockConversationService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockConversationService {
	m := &MockConversationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockConversationService) SetMode(mode model.Mode) {
	m.Called(mode)
}

func (m *MockConversationService) Sessions() []*model.Session {
	args := m.Called()
	var sessions []*model.Session
	if v := args.Get(0); v != nil {
		sessions = v.([]*model.Session)
	}
	return sessions
}

func (m *MockConversationService) NewChat(ctx context.Context) (*model.Session, error) {
	args := m.Called(ctx)
	var session *model.Session
	if v := args.Get(0); v != nil {
		session = v.(*model.Session)
	}
	return session, args.Error(1)
}

func (m *MockConversationService) SelectSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockConversationService) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockConversationService) UploadDocument(ctx context.Context, filename string, data []byte) (*model.PDFInfo, error) {
	args := m.Called(ctx, filename, data)
	var info *model.PDFInfo
	if v := args.Get(0); v != nil {
		info = v.(*model.PDFInfo)
	}
	return info, args.Error(1)
}

func (m *MockConversationService) Send(ctx context.Context, content string) (*model.Message, error) {
	args := m.Called(ctx, content)
	var message *model.Message
	if v := args.Get(0); v != nil {
		message = v.(*model.Message)
	}
	return message, args.Error(1)
}

func (m *MockConversationService) SelectModel(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockConversationService) Snapshot() model.Snapshot {
	args := m.Called()
	return args.Get(0).(model.Snapshot)
}

type MockModelService struct {
	mock.Mock
}

func NewMockModelService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockModelService {
	m := &MockModelService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockModelService) List() []llm.ModelInfo {
	args := m.Called()
	var models []llm.ModelInfo
	if v := args.Get(0); v != nil {
		models = v.([]llm.ModelInfo)
	}
	return models
}
