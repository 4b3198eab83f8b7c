package llm

// ModelInfo is one entry in the model catalog shown to the user.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DefaultModel is the model selected when none has been chosen yet.
const DefaultModel = "gpt-5-nano"

// catalog is the static list of models the gateway accepts. The selected
// identifier is forwarded to the gateway unchanged.
var catalog = []ModelInfo{
	{ID: "gpt-5-nano", Name: "ChatGPT"},
	{ID: "gpt-4o", Name: "GPT-4o"},
	{ID: "gpt-4o-mini", Name: "GPT-4o Mini"},
	{ID: "claude-sonnet-4", Name: "Claude Sonnet"},
	{ID: "deepseek-chat", Name: "DeepSeek Chat"},
}

// Catalog returns a copy of the model catalog.
func Catalog() []ModelInfo {
	out := make([]ModelInfo, len(catalog))
	copy(out, catalog)
	return out
}

// KnownModel reports whether id is in the catalog.
func KnownModel(id string) bool {
	for _, m := range catalog {
		if m.ID == id {
			return true
		}
	}
	return false
}
