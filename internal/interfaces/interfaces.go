package interfaces

import (
	"context"

	"chatwithme/internal/llm"
	"chatwithme/internal/model"
)

// Interfaces for the core services. The API layer depends on these rather
// than on the concrete implementations, which keeps the layers decoupled
// and the handlers testable with mocks.

// ConversationService is the contract the API layer drives the
// conversation orchestration core through.
type ConversationService interface {
	SetMode(mode model.Mode)
	Sessions() []*model.Session
	NewChat(ctx context.Context) (*model.Session, error)
	SelectSession(ctx context.Context, sessionID string) error
	DeleteSession(ctx context.Context, sessionID string) error
	UploadDocument(ctx context.Context, filename string, data []byte) (*model.PDFInfo, error)
	Send(ctx context.Context, content string) (*model.Message, error)
	SelectModel(id string) error
	Snapshot() model.Snapshot
}

// ModelService is the contract for the model catalog.
type ModelService interface {
	List() []llm.ModelInfo
}
