package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Chunker.ChunkSize)
	assert.Equal(t, 80, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, 4, cfg.Retriever.TopK)
	assert.Equal(t, "offline", cfg.Answerer.Provider)
}

func TestLoad_AppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  chunk_size: 500\nanswerer:\n  provider: openai\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 0, cfg.Chunker.ChunkOverlap, "an omitted overlap stays zero; only the written default file carries 80")
	assert.Equal(t, 4, cfg.Retriever.TopK)
	require.NotNil(t, cfg.Answerer.OpenAI)
	assert.Equal(t, "gpt-4o-mini", cfg.Answerer.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Answerer.OpenAI.APIKeyEnv)
	assert.Equal(t, 30, cfg.Answerer.OpenAI.TimeoutSecs)
	assert.Equal(t, 2000, cfg.Answerer.OpenAI.MaxContextTokens)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := defaultConfig()
	want.Retriever.TopK = 7
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker: [not a map"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}
