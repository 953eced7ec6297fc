// Package wire contains the application's composition root.
package wire

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/core"
	"github.com/sevigo/review-pilot/internal/jobs"
	"github.com/sevigo/review-pilot/internal/llm"
	"github.com/sevigo/review-pilot/internal/logger"
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging, nil)
}

func provideGeneratorLLM(ctx context.Context, cfg *config.Config, log *slog.Logger) (llms.Model, error) {
	switch cfg.AI.LLMProvider {
	case "gemini":
		log.Info("using Gemini completion provider", "model", cfg.AI.GeneratorModel)
		return gemini.New(ctx,
			gemini.WithModel(cfg.AI.GeneratorModel),
			gemini.WithAPIKey(cfg.AI.GeminiAPIKey),
		)
	case "ollama":
		log.Info("using Ollama completion provider", "model", cfg.AI.GeneratorModel, "host", cfg.AI.OllamaHost)
		return ollama.New(
			ollama.WithServerURL(cfg.AI.OllamaHost),
			ollama.WithHTTPClient(newOllamaHTTPClient()),
			ollama.WithModel(cfg.AI.GeneratorModel),
			ollama.WithLogger(log),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.AI.LLMProvider)
	}
}

func provideAnalyzer(model llms.Model, log *slog.Logger) llm.Analyzer {
	return llm.NewAnalyzer(model, log)
}

func providePromptBuilder(manager *llm.PromptManager, cfg *config.Config) *llm.PromptBuilder {
	return llm.NewPromptBuilder(manager, llm.ModelProvider(cfg.AI.LLMProvider))
}

func provideDispatcher(job core.Job, cfg *config.Config, log *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.MaxWorkers, log)
}

// newOllamaHTTPClient returns an HTTP client with timeouts generous enough
// for local model inference.
func newOllamaHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: 15 * time.Minute,
	}
}
