package similarity

import (
	"strings"

	"github.com/lepinkainen/readnext/internal/catalog"
)

// Metadata score weights. Shared title words carry the signal; an exact
// creator match outweighs everything else a single title word can add.
const (
	titleWordWeight = 3
	creatorWeight   = 5
	publisherWeight = 2
)

// RankByMetadata ranks candidates by a title/creator/publisher heuristic.
// It is the fallback for reference items without descriptive text: pure,
// synchronous and infallible. Zero-scoring candidates still participate in
// the sort and truncation.
func RankByMetadata(reference catalog.Item, candidates []catalog.Item, limit int) []catalog.Item {
	if limit <= 0 {
		return []catalog.Item{}
	}

	refWords := titleWordSet(reference.Title)

	scored := make([]scoredItem, len(candidates))
	for i, candidate := range candidates {
		scored[i] = scoredItem{item: candidate, score: metadataScore(reference, candidate, refWords)}
	}

	return takeTop(scored, limit)
}

func metadataScore(reference, candidate catalog.Item, refWords map[string]bool) float64 {
	score := 0.0

	for word := range titleWordSet(candidate.Title) {
		if refWords[word] {
			score += titleWordWeight
		}
	}

	if reference.Creator != "" && reference.Creator == candidate.Creator {
		score += creatorWeight
	}
	if reference.Publisher != "" && reference.Publisher == candidate.Publisher {
		score += publisherWeight
	}

	return score
}

// titleWordSet returns the unique lower-cased whitespace-delimited words of a
// title.
func titleWordSet(title string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(title)) {
		words[word] = true
	}
	return words
}
