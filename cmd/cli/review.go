package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/github"
	"github.com/sevigo/review-pilot/internal/gitutil"
	"github.com/sevigo/review-pilot/internal/jobs"
	"github.com/sevigo/review-pilot/internal/llm"
)

var (
	postReview bool
	provider   string
	modelName  string
	ollamaHost string
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Run a one-shot code review for a GitHub pull request",
	Long: `Run a one-shot code review for a GitHub pull request.

The review command fetches the changed files, assembles manifest context,
asks the configured model for a review and prints it. With --post the
review is published on the pull request instead.

Examples:
  pilot-cli review https://github.com/owner/repo/pull/123
  pilot-cli review --post https://github.com/owner/repo/pull/123`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVar(&postReview, "post", false, "Post the review on the pull request instead of printing it")
	reviewCmd.Flags().StringVar(&provider, "provider", "ollama", "Completion provider (ollama or gemini)")
	reviewCmd.Flags().StringVar(&modelName, "model", "gemma3:latest", "Generator model name")
	reviewCmd.Flags().StringVar(&ollamaHost, "ollama-host", "http://localhost:11434", "Ollama server URL")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	ctx := context.Background()
	start := time.Now()

	titleColor.Println("Review-Pilot - one-shot PR review")

	owner, repo, number, err := gitutil.ParsePullRequestURL(args[0])
	if err != nil {
		return fmt.Errorf("invalid PR URL: %w\n\nExpected format: https://github.com/owner/repo/pull/123", err)
	}
	dimColor.Printf("   Target: %s/%s#%d\n\n", owner, repo, number)

	token := viper.GetString("GITHUB_TOKEN")
	if token == "" {
		return fmt.Errorf("GITHUB_TOKEN is not set\n\nTip: pass --github-token or set RP_GITHUB_TOKEN")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client := github.NewPATClient(ctx, token, logger)

	fmt.Println("Fetching changed files...")
	files, err := client.ListChangedFiles(ctx, owner, repo, number)
	if err != nil {
		return fmt.Errorf("failed to list changed files: %w", err)
	}
	if len(files) == 0 {
		errorColor.Println("Pull request has no changed files, nothing to review.")
		return nil
	}
	relevant := jobs.FilterFiles(config.FilterHasPatch, nil, files)
	if len(relevant) == 0 {
		errorColor.Println("No file in this pull request carries a textual diff.")
		return nil
	}
	dimColor.Printf("   %d changed, %d with diff text\n", len(files), len(relevant))

	fmt.Println("Assembling context...")
	assembler := llm.NewContextAssembler(client, logger)
	bundle := assembler.Assemble(ctx, owner, repo, []string{"package.json", "go.mod", "Cargo.toml", "requirements.txt"}, false)
	dimColor.Printf("   %d context files found\n", len(bundle.Entries))

	manager, err := llm.NewPromptManager()
	if err != nil {
		return fmt.Errorf("failed to load prompt templates: %w", err)
	}
	prompt, err := llm.NewPromptBuilder(manager, llm.ModelProvider(provider)).Build(relevant, bundle, llm.PromptOptions{
		ContextBudgetChars: 4000,
		MaxSuggestions:     5,
	})
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}

	model, err := buildModel(ctx, logger)
	if err != nil {
		return fmt.Errorf("failed to create completion provider: %w", err)
	}

	fmt.Printf("Reviewing with %s...\n", modelName)
	analysis, err := llm.NewAnalyzer(model, logger).Analyze(ctx, prompt)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if postReview {
		body := "Automated review:\n\n" + analysis
		if err := client.CreateReview(ctx, owner, repo, number, body); err != nil {
			return fmt.Errorf("failed to post review: %w", err)
		}
		successColor.Printf("\nReview posted on %s/%s#%d (%s)\n", owner, repo, number, time.Since(start).Round(time.Second))
		return nil
	}

	fmt.Println()
	fmt.Println(analysis)
	successColor.Printf("\nDone in %s\n", time.Since(start).Round(time.Second))
	return nil
}

func buildModel(ctx context.Context, logger *slog.Logger) (llms.Model, error) {
	switch provider {
	case "gemini":
		apiKey := viper.GetString("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set (use RP_GEMINI_API_KEY)")
		}
		return gemini.New(ctx, gemini.WithModel(modelName), gemini.WithAPIKey(apiKey))
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(ollamaHost),
			ollama.WithModel(modelName),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
