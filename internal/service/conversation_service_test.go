package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "chatwithme/internal/errors"
	"chatwithme/internal/llm"
	mock_llm "chatwithme/internal/llm/mocks"
	"chatwithme/internal/model"
	"chatwithme/internal/repository"
	mock_repo "chatwithme/internal/repository/mocks"
	"chatwithme/internal/retriever"
	mock_retr "chatwithme/internal/retriever/mocks"
	"chatwithme/internal/service"
)

// recordingNotifier captures user notices so tests can assert on them.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

type conversationMocks struct {
	repo      *mock_repo.MockRepository
	gateway   *mock_llm.MockGateway
	retriever *mock_retr.MockRetriever
	notifier  *recordingNotifier
}

func setupConversation(t *testing.T) (*service.ConversationService, conversationMocks) {
	mocks := conversationMocks{
		repo:      mock_repo.NewMockRepository(t),
		gateway:   mock_llm.NewMockGateway(t),
		retriever: mock_retr.NewMockRetriever(t),
		notifier:  &recordingNotifier{},
	}
	svc := service.NewConversationService(mocks.repo, mocks.gateway, mocks.retriever, mocks.notifier, "gpt-5-nano")
	return svc, mocks
}

// uploadReadyDocument drives the upload lifecycle so the conversation has a
// ready document and an active pdf session. It returns the created session's ID.
func uploadReadyDocument(t *testing.T, svc *service.ConversationService, mocks conversationMocks, documentID string, chunkCount int) string {
	t.Helper()

	var sessionID string
	mocks.retriever.On("Ingest", mock.Anything, "report.pdf", mock.Anything).
		Return(&retriever.Result{DocumentID: documentID, ChunkCount: chunkCount}, nil).Once()
	mocks.repo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *model.Session) bool {
		return s.Mode == model.ModePDF && s.PDFID != nil && *s.PDFID == documentID && s.Name == "report"
	})).Run(func(args mock.Arguments) {
		sessionID = args.Get(1).(*model.Session).ID
	}).Return(nil).Once()

	info, err := svc.UploadDocument(context.Background(), "report.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, model.StatusReady, info.Status)
	return sessionID
}

func TestSetMode_AlwaysClearsConversation(t *testing.T) {
	ctx := context.Background()
	svc, mocks := setupConversation(t)

	mocks.gateway.On("Complete", mock.Anything, "Hello", mock.Anything).Return("Hi!", nil).Once()
	_, err := svc.Send(ctx, "Hello")
	require.NoError(t, err)
	require.Len(t, svc.Snapshot().Messages, 2)

	for _, target := range []model.Mode{model.ModePDF, model.ModePDF, model.ModeChat} {
		svc.SetMode(target)
		snap := svc.Snapshot()
		assert.Equal(t, target, snap.Mode)
		assert.Empty(t, snap.Messages)
		assert.Nil(t, snap.CurrentSession)
	}
}

func TestSend_ChatMode(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - no persistence, user then assistant", func(t *testing.T) {
		svc, mocks := setupConversation(t)

		mocks.gateway.On("Complete", mock.Anything, "Hello", mock.MatchedBy(func(opts *llm.Options) bool {
			return opts.Model == "gpt-5-nano"
		})).Return("Hi there!", nil).Once()

		message, err := svc.Send(ctx, "Hello")
		require.NoError(t, err)
		assert.Equal(t, model.RoleAssistant, message.Role)
		assert.Equal(t, "Hi there!", message.Content)

		snap := svc.Snapshot()
		require.Len(t, snap.Messages, 2)
		assert.Equal(t, model.RoleUser, snap.Messages[0].Role)
		assert.Equal(t, "Hello", snap.Messages[0].Content)
		assert.Equal(t, model.RoleAssistant, snap.Messages[1].Role)
		assert.False(t, snap.InFlight)
		assert.Empty(t, mocks.notifier.Errors())
		// The repository mock has no expectations: any persistence call
		// in chat mode would fail the test.
	})

	t.Run("Failure - empty content is rejected locally", func(t *testing.T) {
		svc, _ := setupConversation(t)

		_, err := svc.Send(ctx, "   ")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
		assert.Empty(t, svc.Snapshot().Messages)
	})

	t.Run("Failure - gateway error keeps the user's turn", func(t *testing.T) {
		svc, mocks := setupConversation(t)

		mocks.gateway.On("Complete", mock.Anything, "Hello", mock.Anything).
			Return("", errors.New("gateway down")).Once()

		_, err := svc.Send(ctx, "Hello")
		require.Error(t, err)

		snap := svc.Snapshot()
		require.Len(t, snap.Messages, 1)
		assert.Equal(t, model.RoleUser, snap.Messages[0].Role)
		assert.False(t, snap.InFlight)
		assert.Contains(t, mocks.notifier.Errors(), "Failed to get response. Please try again.")
	})
}

func TestSend_PDFModeWithoutReadyDocument(t *testing.T) {
	ctx := context.Background()
	svc, mocks := setupConversation(t)
	svc.SetMode(model.ModePDF)

	_, err := svc.Send(ctx, "What is X?")
	assert.ErrorIs(t, err, app_errors.ErrNoDocument)

	// No network call was attempted: the retriever, gateway and repository
	// mocks all have zero expectations. Only the optimistic user append
	// remains visible.
	snap := svc.Snapshot()
	require.Len(t, snap.Messages, 1)
	assert.Equal(t, model.RoleUser, snap.Messages[0].Role)
	assert.False(t, snap.InFlight)
	assert.Contains(t, mocks.notifier.Errors(), "Please upload a PDF first")
}

func TestUploadDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - document ready, session prepended, messages cleared", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		svc.SetMode(model.ModePDF)

		uploadReadyDocument(t, svc, mocks, "doc-1", 12)

		snap := svc.Snapshot()
		require.NotNil(t, snap.PDFInfo)
		assert.Equal(t, "doc-1", snap.PDFInfo.ID)
		assert.Equal(t, 12, snap.PDFInfo.ChunkCount)
		assert.Equal(t, model.StatusReady, snap.PDFInfo.Status)
		assert.Empty(t, snap.Messages)
		require.NotNil(t, snap.CurrentSession)
		assert.Equal(t, model.ModePDF, snap.CurrentSession.Mode)

		sessions := svc.Sessions()
		require.Len(t, sessions, 1)
		assert.Equal(t, snap.CurrentSession.ID, sessions[0].ID)
	})

	t.Run("Failure - ingestion error clears the tracker, no session created", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		svc.SetMode(model.ModePDF)

		mocks.retriever.On("Ingest", mock.Anything, "broken.pdf", mock.Anything).
			Return(nil, errors.New("unreadable pdf")).Once()

		_, err := svc.UploadDocument(ctx, "broken.pdf", []byte("not a pdf"))
		require.Error(t, err)

		snap := svc.Snapshot()
		assert.Nil(t, snap.PDFInfo)
		assert.Nil(t, snap.CurrentSession)
		assert.Empty(t, svc.Sessions())
		assert.Contains(t, mocks.notifier.Errors(), "Failed to upload PDF. Please try again.")
	})
}

func TestSend_PDFMode_GroundedPrompt(t *testing.T) {
	ctx := context.Background()
	svc, mocks := setupConversation(t)
	svc.SetMode(model.ModePDF)
	uploadReadyDocument(t, svc, mocks, "doc-1", 2)

	mocks.retriever.On("Retrieve", mock.Anything, "What is X?", "doc-1").
		Return([]string{"Fact A", "Fact B"}, nil).Once()
	mocks.gateway.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "[Context 1]:\nFact A") &&
			strings.Contains(prompt, "[Context 2]:\nFact B") &&
			strings.Contains(prompt, "User Question: What is X?")
	}), mock.Anything).Return("X is a thing.", nil).Once()

	// Both turns are persisted, user first.
	mocks.repo.On("AddMessage", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(m *model.Message) bool {
		return m.Role == model.RoleUser && m.Content == "What is X?"
	})).Return(nil).Once()
	mocks.repo.On("AddMessage", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(m *model.Message) bool {
		return m.Role == model.RoleAssistant && m.Content == "X is a thing."
	})).Return(nil).Once()

	message, err := svc.Send(ctx, "What is X?")
	require.NoError(t, err)
	assert.Equal(t, "X is a thing.", message.Content)

	snap := svc.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.False(t, snap.InFlight)
}

func TestSend_PersistenceFailureKeepsVisibleTurn(t *testing.T) {
	ctx := context.Background()
	svc, mocks := setupConversation(t)
	svc.SetMode(model.ModePDF)
	uploadReadyDocument(t, svc, mocks, "doc-1", 3)

	mocks.retriever.On("Retrieve", mock.Anything, "Question", "doc-1").
		Return([]string{"Fragment"}, nil).Once()
	mocks.gateway.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("Answer", nil).Once()
	mocks.repo.On("AddMessage", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("db down")).Once()

	message, err := svc.Send(ctx, "Question")
	require.NoError(t, err)
	assert.Equal(t, "Answer", message.Content)

	// The in-memory turn is not rolled back by the failed save.
	snap := svc.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Contains(t, mocks.notifier.Errors(), "Failed to save the conversation.")
}

func TestSend_RejectsSecondInFlight(t *testing.T) {
	ctx := context.Background()
	svc, mocks := setupConversation(t)

	mocks.gateway.On("Complete", mock.Anything, "first", mock.Anything).
		Run(func(args mock.Arguments) {
			_, err := svc.Send(ctx, "second")
			assert.ErrorIs(t, err, app_errors.ErrBusy)
		}).Return("done", nil).Once()

	_, err := svc.Send(ctx, "first")
	require.NoError(t, err)

	// The rejected send appended nothing.
	snap := svc.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "first", snap.Messages[0].Content)
}

func TestSend_StaleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	svc, mocks := setupConversation(t)

	mocks.gateway.On("Complete", mock.Anything, "Hello", mock.Anything).
		Run(func(args mock.Arguments) {
			// The conversation is replaced while the call is in flight.
			svc.SetMode(model.ModePDF)
		}).Return("late answer", nil).Once()

	_, err := svc.Send(ctx, "Hello")
	require.NoError(t, err)

	// The late response must not be appended to the new conversation.
	snap := svc.Snapshot()
	assert.Empty(t, snap.Messages)
	assert.False(t, snap.InFlight)
}

func TestSelectSession(t *testing.T) {
	ctx := context.Background()
	docID := "doc-9"
	stored := &model.Session{ID: "s1", Name: "notes", Mode: model.ModePDF, PDFID: &docID}
	history := []model.Message{
		{ID: "m1", Role: model.RoleUser, Content: "hi"},
		{ID: "m2", Role: model.RoleAssistant, Content: "hello"},
	}

	t.Run("Round trip and idempotence", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		mocks.repo.On("ListSessions", mock.Anything).Return([]*model.Session{stored}, nil).Once()
		svc.LoadSessions(ctx)

		mocks.repo.On("GetMessages", mock.Anything, "s1").Return(history, nil).Twice()

		require.NoError(t, svc.SelectSession(ctx, "s1"))
		first := svc.Snapshot()

		require.NoError(t, svc.SelectSession(ctx, "s1"))
		second := svc.Snapshot()

		assert.Equal(t, first.Messages, second.Messages)
		assert.Equal(t, model.ModePDF, second.Mode)
		require.NotNil(t, second.PDFInfo)
		assert.Equal(t, docID, second.PDFInfo.ID)
		assert.Equal(t, model.StatusReady, second.PDFInfo.Status)
		assert.Equal(t, 0, second.PDFInfo.ChunkCount)
		require.NotNil(t, second.CurrentSession)
		assert.Equal(t, "s1", second.CurrentSession.ID)
	})

	t.Run("Failure - unknown session", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		mocks.repo.On("GetSession", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

		err := svc.SelectSession(ctx, "missing")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("Failure - history fetch error leaves state untouched", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		mocks.repo.On("ListSessions", mock.Anything).Return([]*model.Session{stored}, nil).Once()
		svc.LoadSessions(ctx)
		mocks.repo.On("GetMessages", mock.Anything, "s1").Return(nil, errors.New("db error")).Once()

		err := svc.SelectSession(ctx, "s1")
		require.Error(t, err)
		assert.Nil(t, svc.Snapshot().CurrentSession)
		assert.Contains(t, mocks.notifier.Errors(), "Failed to load chat history")
	})
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	docID := "doc-9"
	s1 := &model.Session{ID: "s1", Name: "first", Mode: model.ModePDF, PDFID: &docID}
	s2 := &model.Session{ID: "s2", Name: "second", Mode: model.ModePDF, PDFID: &docID}

	t.Run("Deleting the active session clears the conversation", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		mocks.repo.On("ListSessions", mock.Anything).Return([]*model.Session{s1, s2}, nil).Once()
		svc.LoadSessions(ctx)

		mocks.repo.On("GetMessages", mock.Anything, "s1").Return([]model.Message{{ID: "m1"}}, nil).Once()
		require.NoError(t, svc.SelectSession(ctx, "s1"))

		mocks.repo.On("DeleteSession", mock.Anything, "s1").Return(nil).Once()
		require.NoError(t, svc.DeleteSession(ctx, "s1"))

		snap := svc.Snapshot()
		assert.Nil(t, snap.CurrentSession)
		assert.Empty(t, snap.Messages)

		sessions := svc.Sessions()
		require.Len(t, sessions, 1)
		assert.Equal(t, "s2", sessions[0].ID)
	})

	t.Run("Deleting another session leaves the conversation alone", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		mocks.repo.On("ListSessions", mock.Anything).Return([]*model.Session{s1, s2}, nil).Once()
		svc.LoadSessions(ctx)

		mocks.repo.On("GetMessages", mock.Anything, "s1").Return([]model.Message{{ID: "m1"}}, nil).Once()
		require.NoError(t, svc.SelectSession(ctx, "s1"))

		mocks.repo.On("DeleteSession", mock.Anything, "s2").Return(nil).Once()
		require.NoError(t, svc.DeleteSession(ctx, "s2"))

		snap := svc.Snapshot()
		require.NotNil(t, snap.CurrentSession)
		assert.Equal(t, "s1", snap.CurrentSession.ID)
		assert.NotEmpty(t, snap.Messages)
	})

	t.Run("Failure - unknown session", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		mocks.repo.On("DeleteSession", mock.Anything, "missing").Return(repository.ErrNotFound).Once()

		err := svc.DeleteSession(ctx, "missing")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})
}

func TestNewChat(t *testing.T) {
	ctx := context.Background()

	t.Run("Chat mode only clears local state", func(t *testing.T) {
		svc, mocks := setupConversation(t)

		mocks.gateway.On("Complete", mock.Anything, "Hello", mock.Anything).Return("Hi!", nil).Once()
		_, err := svc.Send(ctx, "Hello")
		require.NoError(t, err)

		session, err := svc.NewChat(ctx)
		require.NoError(t, err)
		assert.Nil(t, session)
		assert.Empty(t, svc.Snapshot().Messages)
	})

	t.Run("PDF mode creates a session", func(t *testing.T) {
		svc, mocks := setupConversation(t)
		svc.SetMode(model.ModePDF)
		uploadReadyDocument(t, svc, mocks, "doc-1", 4)

		mocks.repo.On("CreateSession", mock.Anything, mock.MatchedBy(func(s *model.Session) bool {
			return s.Mode == model.ModePDF && strings.HasPrefix(s.Name, "PDF Chat ") &&
				s.PDFID != nil && *s.PDFID == "doc-1"
		})).Return(nil).Once()

		session, err := svc.NewChat(ctx)
		require.NoError(t, err)
		require.NotNil(t, session)

		snap := svc.Snapshot()
		require.NotNil(t, snap.CurrentSession)
		assert.Equal(t, session.ID, snap.CurrentSession.ID)
		assert.Empty(t, snap.Messages)
		assert.Equal(t, session.ID, svc.Sessions()[0].ID)
	})
}

func TestSelectModel(t *testing.T) {
	svc, _ := setupConversation(t)

	err := svc.SelectModel("made-up-model")
	assert.ErrorIs(t, err, app_errors.ErrValidation)

	require.NoError(t, svc.SelectModel("claude-sonnet-4"))
	assert.Equal(t, "claude-sonnet-4", svc.Snapshot().SelectedModel)
}

func TestLoadSessions_FailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	svc, mocks := setupConversation(t)

	mocks.repo.On("ListSessions", mock.Anything).Return(nil, errors.New("db down")).Once()
	svc.LoadSessions(ctx)

	assert.Empty(t, svc.Sessions())
}

func TestSnapshot_VersionAdvances(t *testing.T) {
	svc, _ := setupConversation(t)

	before := svc.Snapshot().Version
	svc.SetMode(model.ModePDF)
	after := svc.Snapshot().Version
	assert.Greater(t, after, before)
}
