package llm

import "context"

// Options are per-call generation parameters. The model identifier is
// passed through to the gateway unchanged.
type Options struct {
	Model       string
	Temperature *float64
	MaxTokens   int
}

// Gateway is the text-completion capability the message pipeline is
// constructed with. It is stateless: every call carries the full prompt.
type Gateway interface {
	Complete(ctx context.Context, prompt string, opts *Options) (string, error)
}
