package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ChunkerConfig controls how documents are split into windows.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// RetrieverConfig controls retrieval depth.
type RetrieverConfig struct {
	TopK int `yaml:"top_k"`
}

// OpenAIConfig holds connection details for the remote generation service.
// The credential itself lives in the environment, never in the file.
type OpenAIConfig struct {
	BaseURL          string `yaml:"base_url"`
	APIKeyEnv        string `yaml:"api_key_env"`
	Model            string `yaml:"model"`
	TimeoutSecs      int    `yaml:"timeout_secs"`
	MaxContextTokens int    `yaml:"max_context_tokens"`
}

// AnswererConfig selects and configures the answering strategy.
type AnswererConfig struct {
	Provider     string        `yaml:"provider"`
	MaxSentences int           `yaml:"max_sentences"`
	OpenAI       *OpenAIConfig `yaml:"openai,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Retriever RetrieverConfig `yaml:"retriever"`
	Answerer  AnswererConfig  `yaml:"answerer"`
}

// Load reads a config from a specified path. If the file does not exist,
// returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragdemo/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragdemo/config.yaml and
// returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragdemo", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Chunker:   ChunkerConfig{ChunkSize: 600, ChunkOverlap: 80},
		Retriever: RetrieverConfig{TopK: 4},
		Answerer: AnswererConfig{
			Provider:     "offline",
			MaxSentences: 4,
			OpenAI: &OpenAIConfig{
				BaseURL:          "https://api.openai.com/v1",
				APIKeyEnv:        "OPENAI_API_KEY",
				Model:            "gpt-4o-mini",
				TimeoutSecs:      30,
				MaxContextTokens: 2000,
			},
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 600
	}
	if cfg.Retriever.TopK == 0 {
		cfg.Retriever.TopK = 4
	}
	if cfg.Answerer.Provider == "" {
		cfg.Answerer.Provider = "offline"
	}
	if cfg.Answerer.MaxSentences == 0 {
		cfg.Answerer.MaxSentences = 4
	}
	if cfg.Answerer.Provider == "openai" {
		if cfg.Answerer.OpenAI == nil {
			cfg.Answerer.OpenAI = &OpenAIConfig{}
		}
		oc := cfg.Answerer.OpenAI
		if oc.BaseURL == "" {
			oc.BaseURL = "https://api.openai.com/v1"
		}
		if oc.APIKeyEnv == "" {
			oc.APIKeyEnv = "OPENAI_API_KEY"
		}
		if oc.Model == "" {
			oc.Model = "gpt-4o-mini"
		}
		if oc.TimeoutSecs == 0 {
			oc.TimeoutSecs = 30
		}
		if oc.MaxContextTokens == 0 {
			oc.MaxContextTokens = 2000
		}
	}
}
