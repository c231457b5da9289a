package answerer

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"ragdemo/internal/domain"
	"ragdemo/internal/index"
)

// DefaultMaxSentences is the number of sentences an offline answer keeps.
const DefaultMaxSentences = 4

const noResultText = "I couldn't find anything relevant in the local corpus."

// Offline composes an extractive answer from retrieved chunks, with no
// external calls. Sentences sharing the most query terms win; each kept
// sentence is tagged with the [doc#chunk] citation of the chunk it came
// from. Output is fully deterministic for a fixed corpus and query.
type Offline struct {
	maxSentences int
}

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// NewOffline creates the extractive strategy. maxSentences <= 0 selects the
// default.
func NewOffline(maxSentences int) *Offline {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}
	return &Offline{maxSentences: maxSentences}
}

// Answer selects up to maxSentences sentences from the hits, ranked by
// distinct query-term overlap, then by the chunk's retrieval rank, then by
// sentence position. Selected sentences are emitted in reading order. When
// no sentence overlaps the query, the first sentence of the top-ranked
// chunk is returned instead, still cited.
func (o *Offline) Answer(_ context.Context, query string, hits []domain.ScoredChunk) (domain.Answer, error) {
	if len(hits) == 0 {
		return domain.Answer{Text: noResultText}, nil
	}

	queryTerms := termSet(query)
	type candidate struct {
		text    string
		chunk   domain.Chunk
		rank    int // retrieval rank of the originating chunk
		pos     int // position across the scanned sentences
		overlap int
	}
	var cands []candidate
	pos := 0
	for rank, hit := range hits {
		for _, sent := range splitSentences(hit.Chunk.Text) {
			cands = append(cands, candidate{
				text:    sent,
				chunk:   hit.Chunk,
				rank:    rank,
				pos:     pos,
				overlap: overlapCount(queryTerms, sent),
			})
			pos++
		}
	}

	if len(cands) == 0 {
		return domain.Answer{Text: noResultText}, nil
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].overlap != cands[j].overlap {
			return cands[i].overlap > cands[j].overlap
		}
		if cands[i].rank != cands[j].rank {
			return cands[i].rank < cands[j].rank
		}
		return cands[i].pos < cands[j].pos
	})

	var picked []candidate
	for _, c := range cands {
		if c.overlap == 0 || len(picked) == o.maxSentences {
			break
		}
		picked = append(picked, c)
	}
	if len(picked) == 0 {
		// No query-term overlap anywhere: fall back to the first sentence
		// of the highest-similarity chunk.
		picked = []candidate{cands[0]}
	}
	// Restore reading order among the winners.
	sort.Slice(picked, func(i, j int) bool { return picked[i].pos < picked[j].pos })

	var lines []string
	var cites []domain.Citation
	seen := make(map[domain.Citation]struct{}, len(picked))
	for _, c := range picked {
		cite := domain.Citation{DocumentID: c.chunk.DocumentID, ChunkIndex: c.chunk.Index}
		lines = append(lines, "- "+c.text+" "+cite.String())
		if _, ok := seen[cite]; !ok {
			seen[cite] = struct{}{}
			cites = append(cites, cite)
		}
	}
	return domain.Answer{Text: strings.Join(lines, "\n"), Citations: cites}, nil
}

// splitSentences breaks text on sentence-final punctuation. Text without
// any terminal punctuation counts as a single sentence.
func splitSentences(text string) []string {
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	return sentences
}

func termSet(text string) map[string]struct{} {
	toks := index.Tokenize(text)
	m := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		m[t] = struct{}{}
	}
	return m
}

// overlapCount counts distinct query terms present in the sentence.
func overlapCount(queryTerms map[string]struct{}, sentence string) int {
	seen := make(map[string]struct{})
	n := 0
	for _, tok := range index.Tokenize(sentence) {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if _, ok := queryTerms[tok]; ok {
			n++
		}
	}
	return n
}
