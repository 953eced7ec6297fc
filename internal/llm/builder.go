package llm

import (
	"fmt"
	"strings"

	"github.com/sevigo/review-pilot/internal/core"
	"github.com/sevigo/review-pilot/internal/github"
)

// ReviewPromptData is what the code_review template renders.
type ReviewPromptData struct {
	DiffBlock          string
	Context            string
	CustomInstructions []string
	MaxSuggestions     int
}

// PromptOptions carries the per-review knobs of the prompt.
type PromptOptions struct {
	ContextBudgetChars int
	CustomInstructions []string
	MaxSuggestions     int
}

// PromptBuilder composes the review prompt. It is deterministic: the same
// changed files, bundle and options always yield the same string.
type PromptBuilder struct {
	manager  *PromptManager
	provider ModelProvider
}

// NewPromptBuilder returns a builder rendering templates for the given
// provider, falling back to the default variant.
func NewPromptBuilder(manager *PromptManager, provider ModelProvider) *PromptBuilder {
	return &PromptBuilder{manager: manager, provider: provider}
}

// Build renders the full review prompt. Section order is fixed: persona
// preamble, diff block, optional context, optional repository instructions,
// closing formatting directive.
func (b *PromptBuilder) Build(files []github.ChangedFile, bundle ContextBundle, opts PromptOptions) (string, error) {
	diffBlock := BuildDiffBlock(files)
	if diffBlock == "" {
		return "", fmt.Errorf("%w: no reviewable diff text in %d changed files", core.ErrEmptyResult, len(files))
	}

	maxSuggestions := opts.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = 5
	}

	return b.manager.Render(CodeReviewPrompt, b.provider, ReviewPromptData{
		DiffBlock:          diffBlock,
		Context:            bundle.Render(opts.ContextBudgetChars),
		CustomInstructions: opts.CustomInstructions,
		MaxSuggestions:     maxSuggestions,
	})
}

// BuildDiffBlock joins the non-empty patches in reader order. Files without
// a patch contribute nothing; patch text is carried verbatim.
func BuildDiffBlock(files []github.ChangedFile) string {
	var blocks []string
	for _, f := range files {
		if f.Patch == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("File: %s\nChanges:\n%s", f.Filename, f.Patch))
	}
	return strings.Join(blocks, "\n\n")
}
