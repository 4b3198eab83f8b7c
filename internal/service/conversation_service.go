package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "chatwithme/internal/errors"
	"chatwithme/internal/llm"
	"chatwithme/internal/model"
	"chatwithme/internal/repository"
	"chatwithme/internal/retriever"
)

// ConversationService owns the conversation state record and every
// transition on it: mode switching, the cached session directory, the
// active document lifecycle and the message pipeline. All collaborators
// are injected capabilities, so an absent gateway is a construction-time
// problem rather than a runtime probe.
//
// The state is guarded by a mutex, but the mutex is never held across an
// external call. Mutual exclusion of sends is a separate single-slot
// in-flight token owned by this service, not by its callers.
type ConversationService struct {
	repo      repository.Repository
	gateway   llm.Gateway
	retriever retriever.Retriever
	notifier  Notifier

	mu             sync.Mutex
	version        uint64
	epoch          uint64
	mode           model.Mode
	messages       []model.Message
	sessions       []*model.Session
	currentSession *model.Session
	pdfInfo        *model.PDFInfo
	selectedModel  string
	inFlight       bool
}

func NewConversationService(
	repo repository.Repository,
	gateway llm.Gateway,
	retr retriever.Retriever,
	notifier Notifier,
	defaultModel string,
) *ConversationService {
	if !llm.KnownModel(defaultModel) {
		defaultModel = llm.DefaultModel
	}
	return &ConversationService{
		repo:          repo,
		gateway:       gateway,
		retriever:     retr,
		notifier:      notifier,
		mode:          model.ModeChat,
		selectedModel: defaultModel,
	}
}

// touch records a state transition. Callers must hold s.mu.
func (s *ConversationService) touch() {
	s.version++
}

// clearConversation drops the active session and message list and starts a
// new epoch, so a response still in flight for the old conversation is
// discarded instead of being appended to the new one. Callers must hold s.mu.
func (s *ConversationService) clearConversation() {
	s.currentSession = nil
	s.messages = nil
	s.epoch++
	s.touch()
}

// LoadSessions populates the session directory cache from the store. A
// failure is logged and leaves the cache empty; it never prevents startup.
func (s *ConversationService) LoadSessions(ctx context.Context) {
	sessions, err := s.repo.ListSessions(ctx)
	if err != nil {
		slog.Warn("failed to load sessions, starting with an empty list", "error", err)
		return
	}
	s.mu.Lock()
	s.sessions = sessions
	s.touch()
	s.mu.Unlock()
}

// Sessions returns the cached session listing, newest first.
func (s *ConversationService) Sessions() []*model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// SetMode switches between chat and pdf mode. Switching always clears the
// active session and message list, even when the target equals the current
// mode: chat and pdf conversations never intermix.
func (s *ConversationService) SetMode(mode model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.clearConversation()
}

// NewChat starts a fresh conversation. In chat mode this only clears local
// state (chat conversations are never persisted); in pdf mode it creates a
// new session bound to the active document.
func (s *ConversationService) NewChat(ctx context.Context) (*model.Session, error) {
	s.mu.Lock()
	mode := s.mode
	var pdfID *string
	if s.pdfInfo != nil && s.pdfInfo.ID != "" {
		id := s.pdfInfo.ID
		pdfID = &id
	}
	s.mu.Unlock()

	if mode == model.ModeChat {
		s.mu.Lock()
		s.clearConversation()
		s.mu.Unlock()
		s.notifier.Success("New chat started")
		return nil, nil
	}

	name := "PDF Chat " + time.Now().Format("1/2/2006")
	session, err := s.createSession(ctx, name, model.ModePDF, pdfID)
	if err != nil {
		s.notifier.Error("Failed to create new chat")
		return nil, err
	}

	s.mu.Lock()
	s.clearConversation()
	s.currentSession = session
	s.mu.Unlock()

	s.notifier.Success("New PDF chat created!")
	return session, nil
}

// createSession persists a new session and prepends it to the directory
// cache, keeping the newest-first ordering.
func (s *ConversationService) createSession(ctx context.Context, name string, mode model.Mode, pdfID *string) (*model.Session, error) {
	now := time.Now().UTC()
	session := &model.Session{
		ID:        uuid.NewString(),
		Name:      name,
		Mode:      mode,
		PDFID:     pdfID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.mu.Lock()
	s.sessions = append([]*model.Session{session}, s.sessions...)
	s.touch()
	s.mu.Unlock()

	return session, nil
}

// SelectSession makes the given session the active conversation: its
// history replaces the message list and the mode follows the session. For
// pdf sessions the document info is reconstructed as ready with a zero
// chunk count; the count is not restored from the store.
func (s *ConversationService) SelectSession(ctx context.Context, sessionID string) error {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		s.notifier.Error("Failed to load chat history")
		return err
	}

	history, err := s.repo.GetMessages(ctx, sessionID)
	if err != nil {
		s.notifier.Error("Failed to load chat history")
		return fmt.Errorf("load history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentSession = session
	s.messages = history
	s.mode = session.Mode
	if session.Mode == model.ModePDF && session.PDFID != nil {
		s.pdfInfo = &model.PDFInfo{
			ID:     *session.PDFID,
			Name:   session.Name,
			Status: model.StatusReady,
		}
	} else {
		s.pdfInfo = nil
	}
	s.epoch++
	s.touch()
	return nil
}

func (s *ConversationService) findSession(ctx context.Context, sessionID string) (*model.Session, error) {
	s.mu.Lock()
	for _, session := range s.sessions {
		if session.ID == sessionID {
			s.mu.Unlock()
			return session, nil
		}
	}
	s.mu.Unlock()

	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, app_errors.ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

// DeleteSession removes a session from the store and the directory cache.
// Deleting the active session also clears the conversation, so the state
// never points at a session that no longer exists.
func (s *ConversationService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.repo.DeleteSession(ctx, sessionID); err != nil {
		if err == repository.ErrNotFound {
			return app_errors.ErrNotFound
		}
		s.notifier.Error("Failed to delete chat")
		return fmt.Errorf("delete session: %w", err)
	}

	s.mu.Lock()
	kept := s.sessions[:0]
	for _, session := range s.sessions {
		if session.ID != sessionID {
			kept = append(kept, session)
		}
	}
	s.sessions = kept
	if s.currentSession != nil && s.currentSession.ID == sessionID {
		s.clearConversation()
	} else {
		s.touch()
	}
	s.mu.Unlock()

	s.notifier.Success("Chat deleted")
	return nil
}

// UploadDocument runs the document lifecycle: an uploading placeholder is
// published immediately, then ingestion either promotes it to ready and
// creates a session for the document, or clears it. Concurrent uploads are
// last-write-wins; the lifecycle does not coordinate them.
func (s *ConversationService) UploadDocument(ctx context.Context, filename string, data []byte) (*model.PDFInfo, error) {
	s.mu.Lock()
	s.pdfInfo = &model.PDFInfo{Name: filename, Status: model.StatusUploading}
	s.touch()
	s.mu.Unlock()

	result, err := s.retriever.Ingest(ctx, filename, data)
	if err != nil {
		s.failUpload()
		return nil, fmt.Errorf("ingest document: %w", err)
	}

	info := &model.PDFInfo{
		ID:         result.DocumentID,
		Name:       filename,
		ChunkCount: result.ChunkCount,
		Status:     model.StatusReady,
	}
	s.mu.Lock()
	s.pdfInfo = info
	s.touch()
	s.mu.Unlock()

	name := strings.TrimSuffix(filename, ".pdf")
	session, err := s.createSession(ctx, name, model.ModePDF, &result.DocumentID)
	if err != nil {
		s.failUpload()
		return nil, err
	}

	s.mu.Lock()
	s.clearConversation()
	s.currentSession = session
	s.mu.Unlock()

	s.notifier.Success("PDF uploaded successfully!")
	copied := *info
	return &copied, nil
}

func (s *ConversationService) failUpload() {
	s.mu.Lock()
	s.pdfInfo = nil
	s.touch()
	s.mu.Unlock()
	s.notifier.Error("Failed to upload PDF. Please try again.")
}

// SelectModel changes the model identifier passed to the gateway.
func (s *ConversationService) SelectModel(id string) error {
	if !llm.KnownModel(id) {
		return fmt.Errorf("%w: unknown model %q", app_errors.ErrValidation, id)
	}
	s.mu.Lock()
	s.selectedModel = id
	s.touch()
	s.mu.Unlock()
	return nil
}

// Send runs one message round-trip. The user's turn is appended
// immediately so it survives any later failure; the in-flight token admits
// exactly one round-trip at a time and is released on every exit path. A
// response that resolves after the conversation was replaced (mode switch,
// session switch, delete) is discarded rather than appended to the wrong
// conversation.
func (s *ConversationService) Send(ctx context.Context, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", app_errors.ErrValidation)
	}

	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return nil, app_errors.ErrBusy
	}
	s.inFlight = true

	userMessage := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	s.messages = append(s.messages, userMessage)
	s.touch()

	mode := s.mode
	pdfInfo := s.pdfInfo
	session := s.currentSession
	selectedModel := s.selectedModel
	epoch := s.epoch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.touch()
		s.mu.Unlock()
	}()

	var answer string
	var err error
	if mode == model.ModePDF {
		if pdfInfo == nil || pdfInfo.Status != model.StatusReady {
			s.notifier.Error("Please upload a PDF first")
			return nil, app_errors.ErrNoDocument
		}
		answer, err = s.sendGrounded(ctx, content, pdfInfo.ID, session, selectedModel)
	} else {
		answer, err = s.gateway.Complete(ctx, content, &llm.Options{Model: selectedModel})
	}
	if err != nil {
		slog.Error("message pipeline failed", "mode", mode, "error", err)
		s.notifier.Error("Failed to get response. Please try again.")
		return nil, err
	}

	assistantMessage := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now().UTC(),
	}

	s.mu.Lock()
	if s.epoch == epoch {
		s.messages = append(s.messages, assistantMessage)
	} else {
		slog.Warn("discarding response for a conversation that is no longer active",
			"message_id", assistantMessage.ID)
	}
	s.touch()
	s.mu.Unlock()

	return &assistantMessage, nil
}

// sendGrounded is the pdf-mode leg of the pipeline: retrieve fragments,
// build the composite prompt, complete it, then persist both turns when a
// session is active. A persistence failure is surfaced as a notice but does
// not roll back the in-memory turn.
func (s *ConversationService) sendGrounded(ctx context.Context, question, documentID string, session *model.Session, selectedModel string) (string, error) {
	fragments, err := s.retriever.Retrieve(ctx, question, documentID)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}

	answer, err := s.gateway.Complete(ctx, buildPrompt(fragments, question), &llm.Options{Model: selectedModel})
	if err != nil {
		return "", fmt.Errorf("complete prompt: %w", err)
	}

	if session != nil {
		if err := s.persistTurn(ctx, session.ID, question, answer); err != nil {
			slog.Error("failed to persist conversation turn", "session_id", session.ID, "error", err)
			s.notifier.Error("Failed to save the conversation.")
		}
	}
	return answer, nil
}

// persistTurn saves the user turn and then the assistant turn. The two
// writes are sequential; a failure of the second does not undo the first.
func (s *ConversationService) persistTurn(ctx context.Context, sessionID, question, answer string) error {
	turns := []model.Message{
		{ID: uuid.NewString(), Role: model.RoleUser, Content: question, Timestamp: time.Now().UTC()},
		{ID: uuid.NewString(), Role: model.RoleAssistant, Content: answer, Timestamp: time.Now().UTC()},
	}
	for i := range turns {
		if err := s.repo.AddMessage(ctx, sessionID, &turns[i]); err != nil {
			return fmt.Errorf("save %s message: %w", turns[i].Role, err)
		}
	}
	return nil
}

// Snapshot returns a versioned copy of the conversation state record.
func (s *ConversationService) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := model.Snapshot{
		Version:       s.version,
		Mode:          s.mode,
		Messages:      make([]model.Message, len(s.messages)),
		SelectedModel: s.selectedModel,
		InFlight:      s.inFlight,
	}
	copy(snap.Messages, s.messages)
	if s.currentSession != nil {
		session := *s.currentSession
		snap.CurrentSession = &session
	}
	if s.pdfInfo != nil {
		info := *s.pdfInfo
		snap.PDFInfo = &info
	}
	return snap
}
