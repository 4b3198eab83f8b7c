package service

import "log/slog"

// Notifier is the user-facing notice surface. Notices are short and
// non-technical; full diagnostic detail goes to the structured log instead.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type slogNotifier struct{}

// NewSlogNotifier returns a Notifier that records notices in the
// application log. A UI collaborator would replace this with its own
// rendering surface.
func NewSlogNotifier() Notifier {
	return slogNotifier{}
}

func (slogNotifier) Success(message string) {
	slog.Info("user notice", "kind", "success", "message", message)
}

func (slogNotifier) Error(message string) {
	slog.Warn("user notice", "kind", "error", "message", message)
}
