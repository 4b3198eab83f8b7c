package service

import "chatwithme/internal/llm"

// ModelService serves the model catalog exposed to the user.
type ModelService struct{}

// NewModelService creates a new ModelService.
func NewModelService() *ModelService {
	return &ModelService{}
}

// List returns the models a user can select from.
func (s *ModelService) List() []llm.ModelInfo {
	return llm.Catalog()
}
