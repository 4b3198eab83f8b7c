package repository

import (
	"context"

	"chatwithme/internal/model"
)

// Repository defines the storage operations behind the session directory,
// the message history, and the document chunk store. Keeping this an
// interface decouples the services from the concrete database.
type Repository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	ListSessions(ctx context.Context) ([]*model.Session, error)
	DeleteSession(ctx context.Context, sessionID string) error

	AddMessage(ctx context.Context, sessionID string, message *model.Message) error
	GetMessages(ctx context.Context, sessionID string) ([]model.Message, error)

	SaveDocument(ctx context.Context, doc *model.Document, chunks []string) error
	GetChunks(ctx context.Context, documentID string) ([]string, error)
}
