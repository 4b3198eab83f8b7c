package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnrecognizedShape is returned when none of the known response shapes
// could be extracted from a gateway response body.
var ErrUnrecognizedShape = errors.New("unrecognized response shape")

// completionShape is the union of response bodies the gateway is known to
// produce. Fields are raw so each extraction path can decide how to read them.
type completionShape struct {
	Message *struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	Text    string          `json:"text"`
	Content json.RawMessage `json:"content"`
}

// contentBlock is one element of a block-structured content array. Only
// blocks typed "text" carry answer text.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ExtractText normalizes the heterogeneous gateway response shapes into a
// single text result. The fallback chain is ordered most-specific first:
//
//  1. message.content as a plain string
//  2. message.content as an array of typed blocks (text blocks concatenated
//     in order)
//  3. the whole body as a bare JSON string
//  4. a top-level "text" field
//  5. a top-level "content" string field
//
// When every extraction fails, ErrUnrecognizedShape is returned.
func ExtractText(body []byte) (string, error) {
	var shape completionShape
	structured := json.Unmarshal(body, &shape) == nil

	if structured && shape.Message != nil && len(shape.Message.Content) > 0 {
		if text, ok := rawToText(shape.Message.Content); ok {
			return text, nil
		}
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare, nil
	}

	if structured {
		if shape.Text != "" {
			return shape.Text, nil
		}
		if len(shape.Content) > 0 {
			if text, ok := rawToText(shape.Content); ok {
				return text, nil
			}
		}
	}

	return "", ErrUnrecognizedShape
}

// rawToText reads a content value that is either a plain string or an array
// of typed blocks.
func rawToText(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var texts []string
		for _, block := range blocks {
			if block.Type == "text" {
				texts = append(texts, block.Text)
			}
		}
		if len(texts) > 0 {
			return strings.Join(texts, "\n"), true
		}
	}

	return "", false
}
