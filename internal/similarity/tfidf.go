// Package similarity ranks catalog items by relevance to a reference item.
// Three engines exist: semantic (embedding vectors), lexical (TF-IDF over
// descriptive text) and a metadata heuristic for items without text. The
// orchestrator in service.go decides which one answers a request.
package similarity

import (
	"log/slog"
	"math"
	"sort"

	"github.com/lepinkainen/readnext/internal/catalog"
	"github.com/lepinkainen/readnext/internal/keyterms"
)

// corpus holds pre-calculated term statistics for one ranking request.
// Document 0 is always the reference; candidates follow in input order.
type corpus struct {
	termFrequencies []map[string]float64
	docFrequencies  map[string]int
	totalDocuments  int
}

func newCorpus(documents []string) *corpus {
	c := &corpus{
		termFrequencies: make([]map[string]float64, len(documents)),
		docFrequencies:  make(map[string]int),
		totalDocuments:  len(documents),
	}

	for docIdx, doc := range documents {
		tokens := keyterms.Tokenize(doc)
		c.termFrequencies[docIdx] = termFrequency(tokens)

		for term := range c.termFrequencies[docIdx] {
			c.docFrequencies[term]++
		}
	}

	return c
}

// termFrequency computes relative term frequencies for one document.
func termFrequency(tokens []string) map[string]float64 {
	freqs := make(map[string]float64, len(tokens))
	if len(tokens) == 0 {
		return freqs
	}

	total := float64(len(tokens))
	for _, token := range tokens {
		freqs[token] += 1 / total
	}
	return freqs
}

// score sums TF-IDF over the given terms for one document. Terms absent from
// the document or the corpus contribute nothing.
func (c *corpus) score(terms []string, docIndex int) float64 {
	if docIndex < 0 || docIndex >= len(c.termFrequencies) {
		return 0
	}

	docTF := c.termFrequencies[docIndex]
	var total float64

	for _, term := range terms {
		tf := docTF[term]
		if tf == 0 {
			continue
		}
		df := c.docFrequencies[term]
		if df == 0 {
			continue
		}

		idf := math.Log(float64(c.totalDocuments) / float64(df))
		total += tf * idf
	}

	return total
}

// RankByDescription ranks candidates against the reference using TF-IDF over
// descriptive text. Scoring is restricted to the key terms extracted from the
// reference's text, which bounds the cost to O(terms x candidates); the
// candidates' own distinctive vocabulary deliberately plays no part.
// Candidates without descriptive text are ignored; if none qualify the result
// is empty, not an error.
func RankByDescription(reference catalog.Item, candidates []catalog.Item, limit int) []catalog.Item {
	withText := make([]catalog.Item, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.HasText() {
			withText = append(withText, candidate)
		}
	}
	if len(withText) == 0 || limit <= 0 {
		return []catalog.Item{}
	}

	documents := make([]string, 0, len(withText)+1)
	documents = append(documents, reference.DescriptiveText)
	for _, candidate := range withText {
		documents = append(documents, candidate.DescriptiveText)
	}

	c := newCorpus(documents)
	terms := keyterms.Extract(reference.DescriptiveText, keyterms.DefaultMaxTerms)

	scored := make([]scoredItem, len(withText))
	for i, candidate := range withText {
		scored[i] = scoredItem{item: candidate, score: c.score(terms, i+1)}
	}

	slog.Debug("Lexical ranking complete",
		"reference", reference.ID, "key_terms", len(terms), "candidates", len(scored))

	return takeTop(scored, limit)
}

// scoredItem pairs a candidate with its relevance score.
type scoredItem struct {
	item  catalog.Item
	score float64
}

// takeTop sorts scored items descending by score, stable so ties keep their
// input order, and returns at most limit items.
func takeTop(scored []scoredItem, limit int) []catalog.Item {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	if limit > len(scored) {
		limit = len(scored)
	}

	result := make([]catalog.Item, 0, limit)
	for _, s := range scored[:limit] {
		result = append(result, s.item)
	}
	return result
}
