// Package keyterms extracts a bounded set of salient terms from a document.
// The extracted terms scope lexical similarity scoring to the reference
// document's vocabulary instead of the whole corpus vocabulary.
package keyterms

import (
	"strings"
	"unicode"
)

// DefaultMaxTerms bounds extraction when the caller passes no explicit limit.
const DefaultMaxTerms = 20

// minTermLength filters out tokens too short to carry meaning.
const minTermLength = 3

// stopWords are dropped regardless of frequency.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "was": true, "his": true,
	"her": true, "she": true, "has": true, "had": true, "with": true,
	"that": true, "this": true, "from": true, "they": true, "will": true,
	"have": true, "been": true, "were": true, "their": true, "which": true,
	"when": true, "what": true, "who": true, "its": true, "into": true,
	"about": true, "than": true, "them": true, "then": true, "out": true,
}

// Extract returns up to maxTerms salient terms from text: lower-cased,
// punctuation-stripped, deduplicated in first-seen order, with short tokens
// and stop words removed. A non-positive maxTerms applies DefaultMaxTerms.
// Empty or whitespace-only input yields an empty slice, never an error.
func Extract(text string, maxTerms int) []string {
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}

	terms := []string{}
	seen := make(map[string]bool)

	for _, term := range Tokenize(text) {
		if stopWords[term] || seen[term] {
			continue
		}

		seen[term] = true
		terms = append(terms, term)
		if len(terms) == maxTerms {
			break
		}
	}

	return terms
}

// Tokenize normalizes text into lower-cased, punctuation-stripped tokens of
// at least three characters, keeping duplicates and order. TF-IDF corpus
// building uses this directly since term frequencies need the duplicates
// Extract throws away.
func Tokenize(text string) []string {
	tokens := []string{}
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := stripPunctuation(field)
		if len(token) < minTermLength {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// stripPunctuation removes everything except letters, digits and hyphens, so
// "planet," and "(planet)" both normalize to "planet" while hyphenated words
// stay intact.
func stripPunctuation(token string) string {
	var b strings.Builder
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
