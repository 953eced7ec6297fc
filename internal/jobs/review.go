package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/core"
	"github.com/sevigo/review-pilot/internal/github"
	"github.com/sevigo/review-pilot/internal/llm"
)

// ReviewJob runs the end-to-end review pipeline for one event: credentials,
// changed files, context, prompt, analysis, publication. Strictly sequential
// within an event; events share nothing.
type ReviewJob struct {
	cfg      *config.Config
	clients  github.ClientFactory
	builder  *llm.PromptBuilder
	analyzer llm.Analyzer
	logger   *slog.Logger
}

// NewReviewJob wires the pipeline's collaborators.
func NewReviewJob(cfg *config.Config, clients github.ClientFactory, builder *llm.PromptBuilder, analyzer llm.Analyzer, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if clients == nil {
		panic("client factory cannot be nil")
	}
	if builder == nil {
		panic("prompt builder cannot be nil")
	}
	if analyzer == nil {
		panic("analyzer cannot be nil")
	}
	return &ReviewJob{cfg: cfg, clients: clients, builder: builder, analyzer: analyzer, logger: logger}
}

// Run executes the pipeline. Empty intermediate results (no changed files,
// blank analysis) end the run as a logged no-op, not an error; everything
// else aborts the event with a classified error. Nothing is retried here.
func (j *ReviewJob) Run(ctx context.Context, event *core.ReviewEvent) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	if !event.Reviewable() {
		j.logger.Debug("ignoring unhandled action", "action", event.Action, "repo", event.RepoFullName)
		return nil
	}

	log := j.logger.With("repo", event.RepoFullName, "pr", event.PRNumber)
	log.Info("starting review", "action", event.Action)

	client, err := j.clients.ClientFor(ctx, event.InstallationID)
	if err != nil {
		return fmt.Errorf("acquire client: %w", err)
	}

	files, err := client.ListChangedFiles(ctx, event.RepoOwner, event.RepoName, event.PRNumber)
	if err != nil {
		return fmt.Errorf("list changed files: %w", err)
	}
	if len(files) == 0 {
		log.Warn("pull request has no changed files, nothing to review")
		return nil
	}

	reviewCfg, instructions := j.loadRepoSettings(ctx, client, event)

	relevant := FilterFiles(reviewCfg.FilterPolicy, reviewCfg.AllowedExtensions, files)
	if len(relevant) == 0 {
		log.Warn("no changed files passed the relevance filter",
			"policy", reviewCfg.FilterPolicy, "changed", len(files))
		return nil
	}

	assembler := llm.NewContextAssembler(client, j.logger)
	bundle := assembler.Assemble(ctx, event.RepoOwner, event.RepoName, reviewCfg.ContextFiles, reviewCfg.DiscoverContext)

	prompt, err := j.builder.Build(relevant, bundle, llm.PromptOptions{
		ContextBudgetChars: reviewCfg.ContextBudgetChars,
		CustomInstructions: instructions,
		MaxSuggestions:     reviewCfg.MaxSuggestions,
	})
	if err != nil {
		if errors.Is(err, core.ErrEmptyResult) {
			// Every relevant file carried an empty patch.
			log.Warn("no reviewable diff text in changed files", "files", len(relevant))
			return nil
		}
		return fmt.Errorf("build prompt: %w", err)
	}

	analysis, err := j.analyzer.Analyze(ctx, prompt)
	if err != nil {
		return fmt.Errorf("analyze pull request: %w", err)
	}

	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		log.Warn("analysis returned no text, skipping publication")
		return nil
	}

	body := reviewCfg.CommentPrefix + "\n\n" + analysis
	if err := client.CreateReview(ctx, event.RepoOwner, event.RepoName, event.PRNumber, body); err != nil {
		return fmt.Errorf("publish review: %w", err)
	}

	log.Info("review published", "files_reviewed", len(relevant), "analysis_chars", len(analysis))
	return nil
}

// loadRepoSettings fetches and merges the repository's optional
// .review-pilot.yml. Any problem falls back to deployment defaults.
func (j *ReviewJob) loadRepoSettings(ctx context.Context, client github.Client, event *core.ReviewEvent) (config.ReviewConfig, []string) {
	content, ok, err := client.GetFileContent(ctx, event.RepoOwner, event.RepoName, config.RepoOverridesPath)
	if err != nil || !ok {
		return j.cfg.Review, nil
	}

	overrides, err := config.ParseRepoOverrides([]byte(content))
	if err != nil {
		j.logger.Warn("ignoring unparseable repo overrides",
			"repo", event.RepoFullName, "path", config.RepoOverridesPath, "error", err)
		return j.cfg.Review, nil
	}

	return overrides.Apply(j.cfg.Review), overrides.CustomInstructions
}

func validateEvent(event *core.ReviewEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event cannot be nil", core.ErrMalformedEvent)
	}
	if event.RepoOwner == "" || event.RepoName == "" {
		return fmt.Errorf("%w: repository identity is incomplete", core.ErrMalformedEvent)
	}
	if event.PRNumber <= 0 {
		return fmt.Errorf("%w: pull request number must be positive, got %d", core.ErrMalformedEvent, event.PRNumber)
	}
	return nil
}
