package service

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the retrieval-augmented prompt: each fragment
// becomes a numbered context block, followed by the literal user question.
// The instruction deliberately allows the assistant to fall back to general
// knowledge when the context is not relevant.
func buildPrompt(fragments []string, question string) string {
	var contextText strings.Builder
	for i, fragment := range fragments {
		if i > 0 {
			contextText.WriteString("\n\n")
		}
		fmt.Fprintf(&contextText, "[Context %d]:\n%s", i+1, fragment)
	}

	return fmt.Sprintf(`You are a helpful AI assistant. Answer the user's question based on the following context from their PDF document, or if the question is not related to the document, answer it from general knowledge.

Context:
%s

User Question: %s

Please provide a clear, accurate answer based on the context above. If the answer cannot be found in the context, say so.`, contextText.String(), question)
}
