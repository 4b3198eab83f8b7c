// Package mocks provides a testify mock of retriever.Retriever for tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chatwithme/internal/retriever"
)

type MockRetriever struct {
	mock.Mock
}

func NewMockRetriever(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRetriever {
	m := &MockRetriever{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRetriever) Ingest(ctx context.Context, filename string, data []byte) (*retriever.Result, error) {
	args := m.Called(ctx, filename, data)
	var result *retriever.Result
	if v := args.Get(0); v != nil {
		result = v.(*retriever.Result)
	}
	return result, args.Error(1)
}

func (m *MockRetriever) Retrieve(ctx context.Context, query, documentID string) ([]string, error) {
	args := m.Called(ctx, query, documentID)
	var fragments []string
	if v := args.Get(0); v != nil {
		fragments = v.([]string)
	}
	return fragments, args.Error(1)
}
