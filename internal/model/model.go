package model

import "time"

// Mode selects which backend a conversation runs against. Chat mode talks to
// the LLM gateway directly and is never persisted; pdf mode is grounded in an
// uploaded document and stored as a session.
type Mode string

const (
	ModeChat Mode = "chat"
	ModePDF  Mode = "pdf"
)

// Roles for a single conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one immutable turn of conversation. Identity is the ID; a
// message is never mutated after creation, only dropped when the
// conversation is cleared.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a persisted conversation thread. Mode is fixed at creation and
// PDFID is set iff Mode is ModePDF.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Mode      Mode      `json:"mode"`
	PDFID     *string   `json:"pdf_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentStatus is the lifecycle state of the active document.
type DocumentStatus string

const (
	StatusUploading DocumentStatus = "uploading"
	StatusReady     DocumentStatus = "ready"
	StatusError     DocumentStatus = "error"
)

// PDFInfo tracks the single active document of a pdf-mode conversation.
// ID stays empty until ingestion assigns one.
type PDFInfo struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	ChunkCount int            `json:"chunk_count"`
	Status     DocumentStatus `json:"status"`
}

// Document is a stored, chunked source document.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	ChunkCount int       `json:"chunk_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Snapshot is a versioned copy of the conversation state record. Version
// increases on every state transition, so two snapshots with the same
// version describe the same state.
type Snapshot struct {
	Version        uint64    `json:"version"`
	Mode           Mode      `json:"mode"`
	Messages       []Message `json:"messages"`
	CurrentSession *Session  `json:"current_session,omitempty"`
	PDFInfo        *PDFInfo  `json:"pdf_info,omitempty"`
	SelectedModel  string    `json:"selected_model"`
	InFlight       bool      `json:"in_flight"`
}
