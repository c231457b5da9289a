package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragdemo/internal/domain"
)

func testChunks() []domain.Chunk {
	return []domain.Chunk{
		{DocumentID: "rag", Index: 0, Text: "RAG combines retrieval and generation"},
		{DocumentID: "tfidf", Index: 0, Text: "TF-IDF is a vectorization technique"},
		{DocumentID: "tfidf", Index: 1, Text: "term weights favor rare words"},
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"What is RAG?", []string{"what", "is", "rag"}},
		{"TF-IDF, weighted!", []string{"tf", "idf", "weighted"}},
		{"chunk 42 ok", []string{"chunk", "42", "ok"}},
		{"", nil},
		{"¿¡...!?", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Tokenize(tt.in), "input %q", tt.in)
	}
}

func TestScore_RelevantChunkWins(t *testing.T) {
	ix := Build(testChunks())
	scores := ix.Score("What is RAG?")
	require.Len(t, scores, 3)
	assert.Greater(t, scores[0], scores[1], "the chunk mentioning RAG must outrank the rest")
	assert.Greater(t, scores[0], scores[2])
}

func TestScore_ZeroForNoSharedTerms(t *testing.T) {
	ix := Build(testChunks())
	for _, query := range []string{"zebra quantum", "", "?!"} {
		for i, s := range ix.Score(query) {
			assert.Zero(t, s, "query %q chunk %d", query, i)
		}
	}
}

func TestScore_WithinUnitInterval(t *testing.T) {
	ix := Build(testChunks())
	for _, query := range []string{"What is RAG?", "term weights", "retrieval and generation of rare words"} {
		for i, s := range ix.Score(query) {
			assert.GreaterOrEqual(t, s, 0.0, "query %q chunk %d", query, i)
			assert.LessOrEqual(t, s, 1.0+1e-9, "query %q chunk %d", query, i)
		}
	}
}

func TestScore_IdenticalTextScoresOne(t *testing.T) {
	chunks := []domain.Chunk{{DocumentID: "d", Index: 0, Text: "alpha beta gamma"}}
	ix := Build(chunks)
	scores := ix.Score("alpha beta gamma")
	require.Len(t, scores, 1)
	assert.InDelta(t, 1.0, scores[0], 1e-9)
}

func TestBuild_Idempotent(t *testing.T) {
	a := Build(testChunks())
	b := Build(testChunks())
	for _, query := range []string{"What is RAG?", "vectorization", "rare term weights"} {
		assert.Equal(t, a.Score(query), b.Score(query), "rebuild must yield identical scores for %q", query)
	}
}

func TestBuild_EmptyChunkSet(t *testing.T) {
	ix := Build(nil)
	assert.Zero(t, ix.Len())
	assert.Empty(t, ix.Score("anything"))
}
