// Package mocks provides a testify mock of llm.Gateway for tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chatwithme/internal/llm"
)

type MockGateway struct {
	mock.Mock
}

func NewMockGateway(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGateway {
	m := &MockGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGateway) Complete(ctx context.Context, prompt string, opts *llm.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}
