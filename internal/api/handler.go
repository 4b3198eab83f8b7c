package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "chatwithme/internal/errors"
	"chatwithme/internal/interfaces"
	"chatwithme/internal/model"
)

// ConversationHandler exposes the conversation orchestration core over HTTP.
type ConversationHandler struct {
	service        interfaces.ConversationService
	maxUploadBytes int64
}

func NewConversationHandler(svc interfaces.ConversationService, maxUploadBytes int64) *ConversationHandler {
	return &ConversationHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// SetModeRequest selects the conversation mode.
type SetModeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=chat pdf"`
}

// SendMessageRequest carries one user turn.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// SelectModelRequest changes the model passed to the gateway.
type SelectModelRequest struct {
	Model string `json:"model" validate:"required"`
}

// GetState returns the current conversation state snapshot.
func (h *ConversationHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.Snapshot())
}

// SetMode switches the conversation mode, clearing the active conversation.
func (h *ConversationHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}
	h.service.SetMode(model.Mode(req.Mode))
	respondWithJSON(w, http.StatusOK, h.service.Snapshot())
}

// GetSessions lists the cached session directory, newest first.
func (h *ConversationHandler) GetSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.service.Sessions()
	if sessions == nil {
		sessions = []*model.Session{}
	}
	respondWithJSON(w, http.StatusOK, sessions)
}

// CreateSession starts a new conversation ("new chat").
func (h *ConversationHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.NewChat(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	if session == nil {
		// Chat mode: nothing was persisted, the conversation was only cleared.
		respondWithJSON(w, http.StatusOK, h.service.Snapshot())
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

// SelectSession makes a session the active conversation.
func (h *ConversationHandler) SelectSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.SelectSession(r.Context(), sessionID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.service.Snapshot())
}

// DeleteSession removes a session.
func (h *ConversationHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if err := h.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// UploadDocument ingests a PDF from a multipart form. The size limit is
// enforced here, at the upload surface, not in the core.
func (h *ConversationHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, fmt.Errorf("%w: a PDF file is required in the 'file' field", app_errors.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, fmt.Errorf("%w: could not read the uploaded file", app_errors.ErrValidation))
		return
	}

	info, err := h.service.UploadDocument(r.Context(), header.Filename, data)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, info)
}

// SendMessage runs one message round-trip through the pipeline.
func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}

	message, err := h.service.Send(r.Context(), req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, message)
}

// SelectModel changes the selected model identifier.
func (h *ConversationHandler) SelectModel(w http.ResponseWriter, r *http.Request) {
	var req SelectModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.service.SelectModel(req.Model); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
