package answerer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragdemo/internal/domain"
)

func completionHandler(t *testing.T, content string, requests *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Question:")
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message":       map[string]any{"role": "assistant", "content": content},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func TestNewRemote_MissingCredential(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(completionHandler(t, "unused", &requests))
	defer srv.Close()

	_, err := NewRemote(RemoteConfig{BaseURL: srv.URL})
	require.ErrorIs(t, err, domain.ErrGenerationService)
	assert.Zero(t, requests.Load(), "missing credential must fail before any network call")
}

func TestRemote_Answer(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(completionHandler(t, "  RAG combines retrieval and generation [doc1#0].  ", &requests))
	defer srv.Close()

	r, err := NewRemote(RemoteConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	ans, err := r.Answer(context.Background(), "What is RAG?", scenarioHits())
	require.NoError(t, err)
	assert.Equal(t, "RAG combines retrieval and generation [doc1#0].", ans.Text)
	assert.Equal(t, []domain.Citation{
		{DocumentID: "doc1", ChunkIndex: 0},
		{DocumentID: "doc2", ChunkIndex: 0},
	}, ans.Citations, "the retrieval citation list is attached regardless of the model output")
	assert.Equal(t, int32(1), requests.Load())
}

func TestRemote_Answer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	r, err := NewRemote(RemoteConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = r.Answer(context.Background(), "query", scenarioHits())
	require.ErrorIs(t, err, domain.ErrGenerationService)
}

func TestRemote_Answer_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	r, err := NewRemote(RemoteConfig{APIKey: "test-key", BaseURL: srv.URL, Timeout: 100 * time.Millisecond})
	require.NoError(t, err)

	_, err = r.Answer(context.Background(), "query", scenarioHits())
	require.ErrorIs(t, err, domain.ErrGenerationService)
}

func TestRemote_Answer_NoHits(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(completionHandler(t, "unused", &requests))
	defer srv.Close()

	r, err := NewRemote(RemoteConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	ans, err := r.Answer(context.Background(), "query", nil)
	require.NoError(t, err)
	assert.Equal(t, noResultText, ans.Text)
	assert.Zero(t, requests.Load(), "nothing retrieved means nothing to send")
}

func TestRemote_ContextBudget(t *testing.T) {
	r := &Remote{maxContextTokens: 20}
	hits := []domain.ScoredChunk{
		{Chunk: domain.Chunk{DocumentID: "a", Index: 0, Text: strings.Repeat("alpha ", 30)}, Score: 0.9},
		{Chunk: domain.Chunk{DocumentID: "b", Index: 0, Text: "never included"}, Score: 0.1},
	}
	got := r.buildContext(hits)
	assert.Contains(t, got, "[a#0]", "the best hit is always included")
	assert.NotContains(t, got, "never included")
}
