package chunker

import (
	"fmt"
	"regexp"
	"strings"

	"ragdemo/internal/domain"
)

const (
	DefaultChunkSize    = 600
	DefaultChunkOverlap = 80
)

// WindowChunker splits a document into fixed-size character windows with
// overlap. Whitespace runs are collapsed to single spaces before windowing,
// so offsets refer to the normalized text.
type WindowChunker struct {
	size    int
	overlap int
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NewWindowChunker validates the window parameters. A size of 0 selects the
// default. Returns domain.ErrInvalidChunkConfig when overlap >= size or
// either parameter is negative.
func NewWindowChunker(size, overlap int) (*WindowChunker, error) {
	if size == 0 {
		size = DefaultChunkSize
	}
	if size < 0 || overlap < 0 {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", domain.ErrInvalidChunkConfig, size, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d >= size %d", domain.ErrInvalidChunkConfig, overlap, size)
	}
	return &WindowChunker{size: size, overlap: overlap}, nil
}

// Chunk slides a window of size characters across the normalized text with
// a stride of size-overlap, emitting one chunk per stride position below the
// text length. Windows reaching past the end are truncated, so trailing
// chunks may be shorter than size; a document shorter than size yields
// exactly one chunk. Size, overlap and the Start/End offsets all count
// characters, not bytes, so multibyte text never splits mid-rune. Chunk
// indices are contiguous from 0. An empty document yields no chunks.
func (c *WindowChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	text := []rune(strings.TrimSpace(whitespaceRe.ReplaceAllString(document.Text, " ")))
	if len(text) == 0 {
		return nil, nil
	}
	stride := c.size - c.overlap
	var chunks []domain.Chunk
	for start, idx := 0, 0; start < len(text); start, idx = start+stride, idx+1 {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Index:      idx,
			Text:       string(text[start:end]),
			Start:      start,
			End:        end,
		})
	}
	return chunks, nil
}
