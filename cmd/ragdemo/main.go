package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"ragdemo/internal/answerer"
	"ragdemo/internal/chunker"
	"ragdemo/internal/config"
	"ragdemo/internal/corpus"
	"ragdemo/internal/domain"
	"ragdemo/internal/service"
	"ragdemo/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var (
		cfgPath     = flag.String("config", "", "Path to YAML config file (optional; uses ~/.config/ragdemo/config.yaml if not provided)")
		dataDir     = flag.String("data", "data", "Path to the corpus directory of .txt files")
		topK        = flag.Int("k", 0, "Top-k chunks to retrieve (overrides config)")
		provider    = flag.String("provider", "", "Answering strategy: offline or openai (overrides config)")
		model       = flag.String("model", "", "Remote model name (overrides config)")
		jsonOut     = flag.Bool("json", false, "Print the result as JSON")
		interactive = flag.Bool("interactive", false, "Start the interactive UI instead of answering once")
	)
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 && !*interactive {
		fmt.Println("Usage: ragdemo [flags] \"your question\"")
		flag.PrintDefaults()
		os.Exit(1)
	}
	query := strings.Join(args, " ")

	var cfg *config.AppConfig
	var err error
	if *cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(*cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *topK > 0 {
		cfg.Retriever.TopK = *topK
	}
	if *provider != "" {
		cfg.Answerer.Provider = *provider
	}
	if *model != "" {
		if cfg.Answerer.OpenAI == nil {
			cfg.Answerer.OpenAI = &config.OpenAIConfig{}
		}
		cfg.Answerer.OpenAI.Model = *model
	}

	ch, err := chunker.NewWindowChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	if err != nil {
		log.Fatalf("bad chunker config: %v", err)
	}
	pipe := service.New(corpus.NewLoader(*dataDir), ch)
	if err := pipe.Build(); err != nil {
		log.Fatalf("build failed: %v", err)
	}

	offline := answerer.NewOffline(cfg.Answerer.MaxSentences)
	var ans domain.Answerer
	switch cfg.Answerer.Provider {
	case "offline", "":
		ans = offline
	case "openai":
		oc := cfg.Answerer.OpenAI
		if oc == nil {
			log.Fatalf("openai answerer config missing")
		}
		keyEnv := oc.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		remote, err := answerer.NewRemote(answerer.RemoteConfig{
			APIKey:           os.Getenv(keyEnv),
			Model:            oc.Model,
			BaseURL:          oc.BaseURL,
			Timeout:          time.Duration(oc.TimeoutSecs) * time.Second,
			MaxContextTokens: oc.MaxContextTokens,
		})
		if err != nil {
			log.Fatalf("openai answerer init failed: %v", err)
		}
		ans = remote
	default:
		log.Fatalf("unknown provider: %s", cfg.Answerer.Provider)
	}

	if *interactive {
		docs, chunks := pipe.Stats()
		summary := fmt.Sprintf("Indexed %d chunks from %d documents in %s", chunks, docs, *dataDir)
		m := tui.New(pipe, ans, cfg.Retriever.TopK, summary)
		if _, err := tea.NewProgram(m).Run(); err != nil {
			log.Fatal(err)
		}
		return
	}

	res, err := pipe.Query(context.Background(), ans, query, cfg.Retriever.TopK)
	if err != nil && errors.Is(err, domain.ErrGenerationService) {
		// Remote generation failed; the core never falls back on its own,
		// so do it here.
		log.Printf("remote generation failed, falling back to offline: %v", err)
		res, err = pipe.Query(context.Background(), offline, query, cfg.Retriever.TopK)
	}
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}

	if *jsonOut {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(out))
		return
	}
	printResult(res)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	answerStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func printResult(res service.Result) {
	fmt.Println(titleStyle.Render("RAG Answer"))
	fmt.Println(answerStyle.Render(res.Answer.Text))
	if len(res.Answer.Citations) > 0 {
		tags := make([]string, len(res.Answer.Citations))
		for i, c := range res.Answer.Citations {
			tags[i] = c.String()
		}
		fmt.Println(dimStyle.Render("Cited: " + strings.Join(tags, " ")))
	}
	if len(res.Sources) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(titleStyle.Render("Top Sources"))
	for i, s := range res.Sources {
		fmt.Printf("%2d. %s#%d  score=%.3f\n", i+1, s.Document, s.Chunk, s.Score)
		fmt.Println(dimStyle.Render("    " + s.Preview))
	}
}
