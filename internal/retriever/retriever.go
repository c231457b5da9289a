package retriever

import (
	"sort"

	"ragdemo/internal/domain"
	"ragdemo/internal/index"
)

// DefaultTopK is the number of chunks retrieved when k is not set.
const DefaultTopK = 4

// Retriever ranks indexed chunks against a query by cosine similarity.
type Retriever struct {
	index *index.Index
}

// New wraps an already-built index.
func New(ix *index.Index) *Retriever {
	return &Retriever{index: ix}
}

// TopK returns at most k chunks with nonzero similarity, sorted by
// descending score. Ties break by ascending (document ID, chunk index) so
// results are deterministic. Zero-score chunks are never returned, so the
// result may be shorter than k, including empty for a query sharing no
// terms with the corpus. Returns domain.ErrEmptyCorpus if the index holds
// no chunks.
func (r *Retriever) TopK(query string, k int) ([]domain.ScoredChunk, error) {
	if r.index.Len() == 0 {
		return nil, domain.ErrEmptyCorpus
	}
	if k <= 0 {
		k = DefaultTopK
	}
	scores := r.index.Score(query)
	chunks := r.index.Chunks()
	results := make([]domain.ScoredChunk, 0, k)
	for i, s := range scores {
		if s > 0 {
			results = append(results, domain.ScoredChunk{Chunk: chunks[i], Score: s})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		a, b := results[i].Chunk, results[j].Chunk
		if a.DocumentID != b.DocumentID {
			return a.DocumentID < b.DocumentID
		}
		return a.Index < b.Index
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
