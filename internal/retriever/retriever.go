package retriever

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	app_errors "chatwithme/internal/errors"
	"chatwithme/internal/model"
	"chatwithme/internal/repository"
)

// noMatchFragment is returned as the only fragment when nothing in the
// document overlaps the query, so the prompt always carries a context block.
const noMatchFragment = "No relevant content found in the PDF."

// Result describes one ingested document.
type Result struct {
	DocumentID string
	ChunkCount int
}

// Retriever ingests documents and retrieves query-relevant fragments,
// ranked most-relevant first.
type Retriever interface {
	Ingest(ctx context.Context, filename string, data []byte) (*Result, error)
	Retrieve(ctx context.Context, query, documentID string) ([]string, error)
}

type chunkRetriever struct {
	repo   repository.Repository
	chunks *cache.Cache
	topK   int
}

// New returns a keyword-overlap Retriever backed by the repository's chunk
// store. Chunk lists are cached per document to keep repeated queries
// against the same document off the database.
func New(repo repository.Repository, topK int) Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &chunkRetriever{
		repo:   repo,
		chunks: cache.New(30*time.Minute, 10*time.Minute),
		topK:   topK,
	}
}

func (r *chunkRetriever) Ingest(ctx context.Context, filename string, data []byte) (*Result, error) {
	if !IsPDF(filename) {
		return nil, fmt.Errorf("%w: only PDF files are supported", app_errors.ErrValidation)
	}

	text, err := extractText(data)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	chunks := splitChunks(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: could not extract any text from the PDF", app_errors.ErrValidation)
	}

	doc := &model.Document{
		ID:         uuid.NewString(),
		Filename:   filename,
		ChunkCount: len(chunks),
		UploadedAt: time.Now().UTC(),
	}
	if err := r.repo.SaveDocument(ctx, doc, chunks); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	r.chunks.Set(doc.ID, chunks, cache.DefaultExpiration)

	return &Result{DocumentID: doc.ID, ChunkCount: len(chunks)}, nil
}

func (r *chunkRetriever) Retrieve(ctx context.Context, query, documentID string) ([]string, error) {
	var chunks []string
	if cached, ok := r.chunks.Get(documentID); ok {
		chunks = cached.([]string)
	} else {
		stored, err := r.repo.GetChunks(ctx, documentID)
		if err != nil {
			return nil, fmt.Errorf("load chunks: %w", err)
		}
		chunks = stored
		r.chunks.Set(documentID, chunks, cache.DefaultExpiration)
	}

	ranked := rankChunks(query, chunks, r.topK)
	if len(ranked) == 0 {
		return []string{noMatchFragment}, nil
	}
	return ranked, nil
}
