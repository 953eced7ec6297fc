package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sevigo/goframe/llms"

	"github.com/sevigo/review-pilot/internal/core"
)

// defaultAnalysisTimeout is the hard cap on a single completion request.
const defaultAnalysisTimeout = 5 * time.Minute

// Analyzer sends a composed prompt to the completion provider and returns
// the raw textual answer. Single-shot and stateless: no conversation state
// survives between calls.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

type modelAnalyzer struct {
	model   llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// NewAnalyzer wraps a goframe model in the Analyzer capability.
func NewAnalyzer(model llms.Model, logger *slog.Logger) Analyzer {
	return &modelAnalyzer{model: model, timeout: defaultAnalysisTimeout, logger: logger}
}

// Analyze runs the completion with a hard timeout. Any transport or provider
// failure is fatal for the event and classified as ErrAnalysisUnavailable.
func (a *modelAnalyzer) Analyze(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	a.logger.Info("calling completion provider", "prompt_chars", len(prompt))
	start := time.Now()

	type result struct {
		resp string
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		resp, err := a.model.Call(ctx, prompt)
		select {
		case resultCh <- result{resp, err}:
		case <-ctx.Done():
		}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return "", fmt.Errorf("%w: %w", core.ErrAnalysisUnavailable, res.err)
		}
		a.logger.Info("completion finished",
			"response_chars", len(res.resp), "elapsed", time.Since(start).Round(time.Millisecond))
		return res.resp, nil
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %w", core.ErrAnalysisUnavailable, ctx.Err())
	}
}
