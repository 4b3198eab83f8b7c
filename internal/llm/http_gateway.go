package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	app_errors "chatwithme/internal/errors"
)

type httpGateway struct {
	client *http.Client
	url    string
	apiKey string
}

// NewHTTPGateway returns a Gateway backed by an HTTP completion endpoint.
// No timeout is set on the client; request lifetimes are bounded only by
// the caller's context.
func NewHTTPGateway(url, apiKey string) Gateway {
	return &httpGateway{
		client: &http.Client{},
		url:    url,
		apiKey: apiKey,
	}
}

type completionRequest struct {
	Model       string            `json:"model"`
	Messages    []completionInput `json:"messages"`
	Temperature *float64          `json:"temperature,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
	Stream      bool              `json:"stream"`
}

type completionInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (g *httpGateway) Complete(ctx context.Context, prompt string, opts *Options) (string, error) {
	if opts == nil {
		opts = &Options{}
	}
	reqBody := completionRequest{
		Model:    opts.Model,
		Messages: []completionInput{{Role: "user", Content: prompt}},
	}
	if opts.Temperature != nil {
		reqBody.Temperature = opts.Temperature
	}
	if opts.MaxTokens > 0 {
		reqBody.MaxTokens = opts.MaxTokens
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/ai/chat", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %w", app_errors.ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: could not read response body: %w", app_errors.ErrGateway, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gateway returned status %d: %s", app_errors.ErrGateway, resp.StatusCode, string(respBody))
	}

	text, err := ExtractText(respBody)
	if err != nil {
		return "", fmt.Errorf("%w: %w", app_errors.ErrGateway, err)
	}
	return text, nil
}
