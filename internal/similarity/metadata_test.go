package similarity

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lepinkainen/readnext/internal/catalog"
)

func TestRankByMetadataTitleAndCreatorOverlap(t *testing.T) {
	reference := catalog.Item{ID: "b1", Title: "Intro to X", Creator: "A. Smith"}
	candidates := []catalog.Item{
		{ID: "b2", Title: "Intro to Y", Creator: "A. Smith"},
		{ID: "b3", Title: "Unrelated", Creator: "Z"},
	}

	got := RankByMetadata(reference, candidates, 2)
	assert.Equal(t, 2, len(got))

	// b2: two shared title words ("intro", "to") x3 + creator match x5 = 11.
	// b3: nothing shared, score 0, still included.
	assert.Equal(t, "b2", got[0].ID)
	assert.Equal(t, "b3", got[1].ID)
}

func TestMetadataScoreWeights(t *testing.T) {
	reference := catalog.Item{Title: "Intro to X", Creator: "A. Smith", Publisher: "Acme"}
	refWords := titleWordSet(reference.Title)

	tests := []struct {
		name      string
		candidate catalog.Item
		want      float64
	}{
		{"title words only", catalog.Item{Title: "Intro to Y"}, 6},
		{"creator only", catalog.Item{Title: "Nothing Shared", Creator: "A. Smith"}, 5},
		{"publisher only", catalog.Item{Title: "Nothing Shared", Publisher: "Acme"}, 2},
		{"everything", catalog.Item{Title: "Intro to X", Creator: "A. Smith", Publisher: "Acme"}, 16},
		{"no overlap", catalog.Item{Title: "Different Words", Creator: "B", Publisher: "Other"}, 0},
		{"duplicate title words count once", catalog.Item{Title: "intro intro intro"}, 3},
	}

	for _, tt := range tests {
		got := metadataScore(reference, tt.candidate, refWords)
		assert.Equal(t, tt.want, got, "case %q", tt.name)
	}
}

func TestMetadataScoreEmptyFieldsDoNotMatch(t *testing.T) {
	reference := catalog.Item{Title: "Alpha"}
	candidate := catalog.Item{Title: "Beta"}

	// Both creator and publisher are empty on both sides; empty-equals-empty
	// must not count as a match.
	got := metadataScore(reference, candidate, titleWordSet(reference.Title))
	assert.Equal(t, 0.0, got)
}

func TestRankByMetadataCaseInsensitiveTitles(t *testing.T) {
	reference := catalog.Item{Title: "The DESERT Planet"}
	candidates := []catalog.Item{
		{ID: "match", Title: "desert planet chronicles"},
		{ID: "miss", Title: "Ocean World"},
	}

	got := RankByMetadata(reference, candidates, 10)
	assert.Equal(t, "match", got[0].ID)
}

func TestRankByMetadataRespectsLimit(t *testing.T) {
	reference := catalog.Item{Title: "Common Title"}
	candidates := []catalog.Item{
		{ID: "a", Title: "Common Title One"},
		{ID: "b", Title: "Common Title Two"},
		{ID: "c", Title: "Common Title Three"},
	}

	got := RankByMetadata(reference, candidates, 2)
	assert.Equal(t, 2, len(got))
}

func TestRankByMetadataStableTies(t *testing.T) {
	reference := catalog.Item{Title: "Shared"}
	candidates := []catalog.Item{
		{ID: "first", Title: "Shared Words"},
		{ID: "second", Title: "Shared Things"},
	}

	got := RankByMetadata(reference, candidates, 10)
	assert.Equal(t, "first", got[0].ID)
	assert.Equal(t, "second", got[1].ID)
}

func TestRankByMetadataZeroLimit(t *testing.T) {
	got := RankByMetadata(catalog.Item{Title: "X"}, []catalog.Item{{ID: "a"}}, 0)
	assert.Equal(t, 0, len(got))
}
