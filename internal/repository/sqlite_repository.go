package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"chatwithme/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateSession(ctx context.Context, session *model.Session) error {
	query := "INSERT INTO sessions (id, name, mode, pdf_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.Name, string(session.Mode), session.PDFID, session.CreatedAt, session.UpdatedAt)
	return err
}

func (r *sqliteRepository) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	query := "SELECT id, name, mode, pdf_id, created_at, updated_at FROM sessions WHERE id = ?"
	row := r.db.QueryRowContext(ctx, query, sessionID)

	var session model.Session
	var pdfID sql.NullString
	err := row.Scan(&session.ID, &session.Name, &session.Mode, &pdfID, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if pdfID.Valid {
		session.PDFID = &pdfID.String
	}
	return &session, nil
}

// ListSessions returns every session, most recently created first. This is
// the ordering guarantee behind the session directory listing.
func (r *sqliteRepository) ListSessions(ctx context.Context) ([]*model.Session, error) {
	query := "SELECT id, name, mode, pdf_id, created_at, updated_at FROM sessions ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		var session model.Session
		var pdfID sql.NullString
		if err := rows.Scan(&session.ID, &session.Name, &session.Mode, &pdfID, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		if pdfID.Valid {
			session.PDFID = &pdfID.String
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

func (r *sqliteRepository) DeleteSession(ctx context.Context, sessionID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMessage inserts the message and bumps the session's updated_at in one
// transaction, so a listing never shows a session older than its last turn.
func (r *sqliteRepository) AddMessage(ctx context.Context, sessionID string, message *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := "INSERT INTO messages (id, session_id, role, content, timestamp) VALUES (?, ?, ?, ?, ?)"
	if _, err := tx.ExecContext(ctx, insertQuery,
		message.ID, sessionID, message.Role, message.Content, message.Timestamp); err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	updateQuery := "UPDATE sessions SET updated_at = ? WHERE id = ?"
	if _, err := tx.ExecContext(ctx, updateQuery, time.Now().UTC(), sessionID); err != nil {
		return fmt.Errorf("could not update session timestamp: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetMessages(ctx context.Context, sessionID string) ([]model.Message, error) {
	query := "SELECT id, role, content, timestamp FROM messages WHERE session_id = ? ORDER BY timestamp ASC"
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// SaveDocument stores the document row and all its chunks atomically.
func (r *sqliteRepository) SaveDocument(ctx context.Context, doc *model.Document, chunks []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	docQuery := "INSERT INTO documents (id, filename, chunk_count, uploaded_at) VALUES (?, ?, ?, ?)"
	if _, err := tx.ExecContext(ctx, docQuery, doc.ID, doc.Filename, doc.ChunkCount, doc.UploadedAt); err != nil {
		return fmt.Errorf("could not insert document: %w", err)
	}

	chunkQuery := "INSERT INTO document_chunks (document_id, chunk_index, content) VALUES (?, ?, ?)"
	for i, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, chunkQuery, doc.ID, i, chunk); err != nil {
			return fmt.Errorf("could not insert chunk %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetChunks(ctx context.Context, documentID string) ([]string, error) {
	query := "SELECT content FROM document_chunks WHERE document_id = ? ORDER BY chunk_index ASC"
	rows, err := r.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		chunks = append(chunks, content)
	}
	return chunks, rows.Err()
}
