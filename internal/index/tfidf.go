package index

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"ragdemo/internal/domain"
)

// Index is an immutable TF-IDF index over a chunk set. Build once per
// corpus; rebuild explicitly when the corpus changes. Safe for concurrent
// readers after construction.
type Index struct {
	chunks   []domain.Chunk
	idf      map[string]float64
	postings map[string][]posting
}

// posting is one entry of the inverted index: the L2-normalized TF-IDF
// weight of a term in a chunk.
type posting struct {
	chunk  int
	weight float64
}

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}]+`)

// Tokenize lowercases text and splits it on non-alphanumeric boundaries.
// No stemming, no stopword filtering.
func Tokenize(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Build computes a sparse TF-IDF vector per chunk, treating each chunk as a
// document for IDF purposes. IDF is smoothed, log((1+N)/(1+df)) + 1, so
// terms present in every chunk still carry positive weight. Construction is
// deterministic: the same chunk set always yields identical weights.
func Build(chunks []domain.Chunk) *Index {
	tokenized := make([][]string, len(chunks))
	df := make(map[string]int)
	for i, ch := range chunks {
		toks := Tokenize(ch.Text)
		tokenized[i] = toks
		seen := make(map[string]struct{}, len(toks))
		for _, tok := range toks {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(chunks))
	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log((1+n)/(1+float64(d))) + 1
	}

	postings := make(map[string][]posting, len(df))
	for i, toks := range tokenized {
		vec := weightVector(toks, idf)
		for _, term := range sortedTerms(vec) {
			postings[term] = append(postings[term], posting{chunk: i, weight: vec[term]})
		}
	}
	return &Index{chunks: chunks, idf: idf, postings: postings}
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int { return len(ix.chunks) }

// Chunks returns the indexed chunks in build order.
func (ix *Index) Chunks() []domain.Chunk { return ix.chunks }

// Score tokenizes the query identically to Build, weights it with the
// frozen IDF table (unseen terms contribute nothing) and returns the cosine
// similarity against every chunk, in chunk order. A query sharing no terms
// with a chunk scores exactly 0.
func (ix *Index) Score(query string) []float64 {
	scores := make([]float64, len(ix.chunks))
	toks := Tokenize(query)
	known := toks[:0]
	for _, tok := range toks {
		if _, ok := ix.idf[tok]; ok {
			known = append(known, tok)
		}
	}
	if len(known) == 0 {
		return scores
	}
	qvec := weightVector(known, ix.idf)
	for _, term := range sortedTerms(qvec) {
		w := qvec[term]
		for _, p := range ix.postings[term] {
			scores[p.chunk] += w * p.weight
		}
	}
	return scores
}

// weightVector computes the L2-normalized TF-IDF weights for a token list.
// Terms are accumulated in sorted order so float rounding is reproducible
// across rebuilds.
func weightVector(toks []string, idf map[string]float64) map[string]float64 {
	tf := make(map[string]int, len(toks))
	for _, tok := range toks {
		tf[tok]++
	}
	vec := make(map[string]float64, len(tf))
	terms := make([]string, 0, len(tf))
	for term := range tf {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	total := float64(len(toks))
	norm := 0.0
	for _, term := range terms {
		w := float64(tf[term]) / total * idf[term]
		vec[term] = w
		norm += w * w
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for _, term := range terms {
			vec[term] /= norm
		}
	}
	return vec
}

func sortedTerms(vec map[string]float64) []string {
	terms := make([]string, 0, len(vec))
	for term := range vec {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
