// Package mocks provides a testify mock of repository.Repository for tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chatwithme/internal/model"
)

type MockRepository struct {
	mock.Mock
}

func NewMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) CreateSession(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockRepository) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	args := m.Called(ctx, sessionID)
	var session *model.Session
	if v := args.Get(0); v != nil {
		session = v.(*model.Session)
	}
	return session, args.Error(1)
}

func (m *MockRepository) ListSessions(ctx context.Context) ([]*model.Session, error) {
	args := m.Called(ctx)
	var sessions []*model.Session
	if v := args.Get(0); v != nil {
		sessions = v.([]*model.Session)
	}
	return sessions, args.Error(1)
}

func (m *MockRepository) DeleteSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockRepository) AddMessage(ctx context.Context, sessionID string, message *model.Message) error {
	args := m.Called(ctx, sessionID, message)
	return args.Error(0)
}

func (m *MockRepository) GetMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	args := m.Called(ctx, sessionID)
	var messages []model.Message
	if v := args.Get(0); v != nil {
		messages = v.([]model.Message)
	}
	return messages, args.Error(1)
}

func (m *MockRepository) SaveDocument(ctx context.Context, doc *model.Document, chunks []string) error {
	args := m.Called(ctx, doc, chunks)
	return args.Error(0)
}

func (m *MockRepository) GetChunks(ctx context.Context, documentID string) ([]string, error) {
	args := m.Called(ctx, documentID)
	var chunks []string
	if v := args.Get(0); v != nil {
		chunks = v.([]string)
	}
	return chunks, args.Error(1)
}
