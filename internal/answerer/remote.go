package answerer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"ragdemo/internal/domain"
)

const (
	DefaultModel            = "gpt-4o-mini"
	DefaultTimeout          = 30 * time.Second
	DefaultMaxContextTokens = 2000
)

const remoteSystemPrompt = "You are a helpful assistant. Answer using ONLY the provided context. " +
	"Cite sources inline like [doc#chunk]. If information is missing, say so."

// RemoteConfig configures the remote generation strategy.
type RemoteConfig struct {
	APIKey           string
	Model            string
	BaseURL          string
	Timeout          time.Duration
	MaxContextTokens int
}

// Remote delegates answer generation to an OpenAI-compatible
// chat-completion service. One request per answer, no internal retries;
// fallback policy belongs to the caller. The full retrieval citation list
// is attached to the answer whether or not the model echoes it, so
// provenance stays attributable to the retrieved chunks.
type Remote struct {
	client           *openai.Client
	model            string
	timeout          time.Duration
	maxContextTokens int
	enc              *tiktoken.Tiktoken
}

// NewRemote validates the configuration. A missing API key fails with
// domain.ErrGenerationService before any network call is attempted.
func NewRemote(cfg RemoteConfig) (*Remote, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", domain.ErrGenerationService)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxContextTokens == 0 {
		cfg.MaxContextTokens = DefaultMaxContextTokens
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	enc, err := tiktoken.EncodingForModel(cfg.Model)
	if err != nil {
		enc, _ = tiktoken.GetEncoding("cl100k_base")
	}
	return &Remote{
		client:           openai.NewClientWithConfig(clientCfg),
		model:            cfg.Model,
		timeout:          cfg.Timeout,
		maxContextTokens: cfg.MaxContextTokens,
		enc:              enc,
	}, nil
}

// Answer issues a single chat-completion request with the retrieved chunks
// embedded as tagged context blocks. Network errors, timeouts and
// non-success responses surface as domain.ErrGenerationService.
func (r *Remote) Answer(ctx context.Context, query string, hits []domain.ScoredChunk) (domain.Answer, error) {
	if len(hits) == 0 {
		return domain.Answer{Text: noResultText}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0.2,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: remoteSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s\n\nContext:\n%s", query, r.buildContext(hits))},
		},
	})
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %v", domain.ErrGenerationService, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Answer{}, fmt.Errorf("%w: empty completion", domain.ErrGenerationService)
	}

	cites := make([]domain.Citation, 0, len(hits))
	for _, hit := range hits {
		cites = append(cites, domain.Citation{DocumentID: hit.Chunk.DocumentID, ChunkIndex: hit.Chunk.Index})
	}
	return domain.Answer{
		Text:      strings.TrimSpace(resp.Choices[0].Message.Content),
		Citations: cites,
	}, nil
}

// buildContext concatenates tagged chunk texts up to the token budget. The
// best hit is always included even if it alone exceeds the budget.
func (r *Remote) buildContext(hits []domain.ScoredChunk) string {
	var blocks []string
	used := 0
	for _, hit := range hits {
		block := "[" + hit.Chunk.Ref() + "]\n" + strings.TrimSpace(hit.Chunk.Text)
		n := r.countTokens(block)
		if used+n > r.maxContextTokens && len(blocks) > 0 {
			break
		}
		blocks = append(blocks, block)
		used += n
	}
	return strings.Join(blocks, "\n\n")
}

// countTokens falls back to the ~4 chars/token heuristic when no encoding
// is available (e.g. the BPE files cannot be fetched).
func (r *Remote) countTokens(text string) int {
	if r.enc != nil {
		return len(r.enc.Encode(text, nil, nil))
	}
	return len(text)/4 + 1
}
