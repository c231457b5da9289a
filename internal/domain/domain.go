package domain

import (
	"context"
	"strconv"
)

// Document is a single plain-text file loaded from the corpus directory.
// Immutable after loading.
type Document struct {
	ID   string
	Path string
	Text string
}

// Chunk is a bounded, possibly overlapping window of a document's text,
// the unit of retrieval. Start and End are character offsets into the
// whitespace-normalized document text.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
	Start      int
	End        int
}

// Ref returns the citation tag body for the chunk, e.g. "guide#2".
func (c Chunk) Ref() string {
	return c.DocumentID + "#" + strconv.Itoa(c.Index)
}

// ScoredChunk pairs a chunk with its similarity against a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Citation points at the chunk that supports part of an answer.
type Citation struct {
	DocumentID string `json:"doc"`
	ChunkIndex int    `json:"chunk"`
}

// String renders the citation in the stable [doc#chunk] format.
func (c Citation) String() string {
	return "[" + c.DocumentID + "#" + strconv.Itoa(c.ChunkIndex) + "]"
}

// Answer is a grounded response with provenance. Produced fresh per query.
type Answer struct {
	Text      string     `json:"text"`
	Citations []Citation `json:"citations"`
}

// Chunker splits documents into chunks suitable for retrieval indexing.
type Chunker interface {
	Chunk(document Document) ([]Chunk, error)
}

// Answerer turns a query and its retrieved chunks into a grounded answer.
// Implementations are stateless between calls; strategy selection is a
// per-query configuration choice.
type Answerer interface {
	Answer(ctx context.Context, query string, hits []ScoredChunk) (Answer, error)
}
