package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/readnext/internal/catalog"
)

func textItem(id, text string) catalog.Item {
	return catalog.Item{ID: id, Title: id, DescriptiveText: text}
}

func itemIDs(items []catalog.Item) []string {
	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

func TestRankByDescriptionOrdersByOverlap(t *testing.T) {
	reference := textItem("ref", "desert planet spice politics")
	candidates := []catalog.Item{
		textItem("soup", "a cookbook about soup and bread"),
		textItem("dunes", "spice and sand politics on a desert planet"),
		textItem("hiking", "desert hiking guide"),
	}

	got := RankByDescription(reference, candidates, 10)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"dunes", "hiking", "soup"}, itemIDs(got))
}

func TestRankByDescriptionRespectsLimit(t *testing.T) {
	reference := textItem("ref", "desert planet")
	candidates := []catalog.Item{
		textItem("a", "desert planet chronicles"),
		textItem("b", "desert winds"),
		textItem("c", "planet guide"),
	}

	got := RankByDescription(reference, candidates, 2)
	assert.Len(t, got, 2)
}

func TestRankByDescriptionSkipsCandidatesWithoutText(t *testing.T) {
	reference := textItem("ref", "desert planet")
	candidates := []catalog.Item{
		{ID: "no-text", Title: "No Text"},
		textItem("with-text", "a desert planet story"),
	}

	got := RankByDescription(reference, candidates, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "with-text", got[0].ID)
}

func TestRankByDescriptionNoQualifyingCandidates(t *testing.T) {
	reference := textItem("ref", "desert planet")
	candidates := []catalog.Item{
		{ID: "a"},
		{ID: "b", DescriptiveText: "   "},
	}

	got := RankByDescription(reference, candidates, 10)
	assert.Empty(t, got)
}

func TestRankByDescriptionAllZeroScoresKeepInputOrder(t *testing.T) {
	reference := textItem("ref", "quantum thermodynamics")
	candidates := []catalog.Item{
		textItem("first", "gardening in small spaces"),
		textItem("second", "medieval cooking"),
		textItem("third", "watercolor techniques"),
	}

	got := RankByDescription(reference, candidates, 2)
	assert.Equal(t, []string{"first", "second"}, itemIDs(got))
}

func TestRankByDescriptionZeroScoringCandidateStillIncluded(t *testing.T) {
	reference := textItem("ref", "desert planet")
	candidates := []catalog.Item{
		textItem("miss", "gardening almanac"),
		textItem("hit", "desert planet atlas"),
	}

	got := RankByDescription(reference, candidates, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "hit", got[0].ID)
	assert.Equal(t, "miss", got[1].ID)
}

func TestRankByDescriptionIsDeterministic(t *testing.T) {
	reference := textItem("ref", "ships drifting between distant stars")
	candidates := []catalog.Item{
		textItem("a", "stars and ships"),
		textItem("b", "distant ships in fog"),
		textItem("c", "drifting alone"),
	}

	first := RankByDescription(reference, candidates, 10)
	second := RankByDescription(reference, candidates, 10)
	assert.Equal(t, itemIDs(first), itemIDs(second))
}

func TestCorpusScoreIgnoresUnknownTermsAndBadIndex(t *testing.T) {
	c := newCorpus([]string{"desert planet", "desert winds"})

	assert.Equal(t, 0.0, c.score([]string{"nonexistent"}, 1))
	assert.Equal(t, 0.0, c.score([]string{"desert"}, 5))
	assert.Equal(t, 0.0, c.score([]string{"desert"}, -1))
}

func TestCorpusRarerTermsScoreHigher(t *testing.T) {
	// "desert" appears in all docs, "spice" only in doc 1: for doc 1 the
	// rare term must contribute more than the ubiquitous one.
	c := newCorpus([]string{"desert spice", "desert dunes", "desert trails"})

	spiceOnly := c.score([]string{"spice"}, 0)
	desertOnly := c.score([]string{"desert"}, 0)
	assert.Greater(t, spiceOnly, desertOnly)
}
