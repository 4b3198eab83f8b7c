package retriever

import (
	"sort"
	"strings"
)

// minChunkLen filters out fragments too short to be useful retrieval units.
const minChunkLen = 50

// splitChunks breaks extracted text into paragraph-sized fragments.
func splitChunks(text string) []string {
	var chunks []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) > minChunkLen {
			chunks = append(chunks, para)
		}
	}
	return chunks
}

// rankChunks scores every chunk by word overlap with the query and returns
// up to topK chunks, most relevant first. Chunks with no overlap are
// dropped; ties keep document order.
func rankChunks(query string, chunks []string, topK int) []string {
	queryWords := wordSet(query)

	type scored struct {
		index   int
		overlap int
	}
	var candidates []scored
	for i, chunk := range chunks {
		overlap := 0
		for word := range wordSet(chunk) {
			if _, ok := queryWords[word]; ok {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{index: i, overlap: overlap})
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].overlap > candidates[b].overlap
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	ranked := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, chunks[c.index])
	}
	return ranked
}

func wordSet(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		words[w] = struct{}{}
	}
	return words
}
