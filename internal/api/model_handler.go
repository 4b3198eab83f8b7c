package api

import (
	"net/http"

	"chatwithme/internal/interfaces"
)

// ModelHandler handles HTTP requests for the model catalog.
type ModelHandler struct {
	service interfaces.ModelService
}

func NewModelHandler(svc interfaces.ModelService) *ModelHandler {
	return &ModelHandler{service: svc}
}

// HandleListModels returns the static model catalog.
func (h *ModelHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.service.List())
}
