package service

import (
	"context"

	"ragdemo/internal/corpus"
	"ragdemo/internal/domain"
	"ragdemo/internal/index"
	"ragdemo/internal/retriever"
)

// Source describes one retrieved chunk backing an answer.
type Source struct {
	Document string  `json:"doc"`
	Chunk    int     `json:"chunk"`
	Score    float64 `json:"score"`
	Preview  string  `json:"preview"`
}

// Result is a grounded answer plus the retrieval evidence behind it.
type Result struct {
	Answer  domain.Answer `json:"answer"`
	Sources []Source      `json:"sources"`
}

const previewChars = 160

// Pipeline wires the loader, chunker, index and retriever into the query
// flow. Build once per corpus; the index is read-only afterwards.
type Pipeline struct {
	loader    *corpus.Loader
	chunker   domain.Chunker
	index     *index.Index
	retriever *retriever.Retriever
	docCount  int
}

// New assembles an unbuilt pipeline.
func New(loader *corpus.Loader, chunker domain.Chunker) *Pipeline {
	return &Pipeline{loader: loader, chunker: chunker}
}

// Build loads the corpus, chunks every document and constructs the TF-IDF
// index. Call again to pick up corpus changes; there is no implicit cache.
func (p *Pipeline) Build() error {
	docs, err := p.loader.Load()
	if err != nil {
		return err
	}
	var chunks []domain.Chunk
	for _, doc := range docs {
		cs, err := p.chunker.Chunk(doc)
		if err != nil {
			return err
		}
		chunks = append(chunks, cs...)
	}
	p.index = index.Build(chunks)
	p.retriever = retriever.New(p.index)
	p.docCount = len(docs)
	return nil
}

// Stats reports the built corpus size as (documents, chunks).
func (p *Pipeline) Stats() (int, int) {
	if p.index == nil {
		return 0, 0
	}
	return p.docCount, p.index.Len()
}

// Query retrieves the top-k chunks for the query and hands them to the
// given answering strategy. Returns domain.ErrEmptyCorpus if Build has not
// produced any chunks.
func (p *Pipeline) Query(ctx context.Context, ans domain.Answerer, query string, k int) (Result, error) {
	if p.retriever == nil {
		return Result{}, domain.ErrEmptyCorpus
	}
	hits, err := p.retriever.TopK(query, k)
	if err != nil {
		return Result{}, err
	}
	answer, err := ans.Answer(ctx, query, hits)
	if err != nil {
		return Result{}, err
	}
	sources := make([]Source, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, Source{
			Document: hit.Chunk.DocumentID,
			Chunk:    hit.Chunk.Index,
			Score:    hit.Score,
			Preview:  preview(hit.Chunk.Text),
		})
	}
	return Result{Answer: answer, Sources: sources}, nil
}

// preview keeps the first previewChars characters, never splitting a rune.
func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewChars {
		return text
	}
	return string(runes[:previewChars])
}
