package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/review-pilot/internal/core"
	"github.com/sevigo/review-pilot/internal/github"
)

func newTestBuilder(t *testing.T) *PromptBuilder {
	t.Helper()
	mgr, err := NewPromptManager()
	require.NoError(t, err)
	return NewPromptBuilder(mgr, DefaultProvider)
}

func TestBuildDiffBlock(t *testing.T) {
	files := []github.ChangedFile{
		{Filename: "src/a.ts", Patch: "+const x = 1;"},
		{Filename: "image.png", Patch: ""},
		{Filename: "b.go", Patch: "-old\n+new"},
	}

	block := BuildDiffBlock(files)

	assert.Contains(t, block, "File: src/a.ts\nChanges:\n+const x = 1;")
	assert.Contains(t, block, "File: b.go\nChanges:\n-old\n+new")
	assert.NotContains(t, block, "image.png")
	assert.Equal(t, 2, strings.Count(block, "File: "))
}

func TestBuildDiffBlock_AllEmptyPatches(t *testing.T) {
	block := BuildDiffBlock([]github.ChangedFile{
		{Filename: "a.bin"},
		{Filename: "b.bin"},
	})
	assert.Empty(t, block)
}

func TestPromptBuilder_Build(t *testing.T) {
	builder := newTestBuilder(t)
	files := []github.ChangedFile{
		{Filename: "src/a.ts", Patch: "+const x = 1;"},
	}

	t.Run("patch appears verbatim", func(t *testing.T) {
		prompt, err := builder.Build(files, ContextBundle{}, PromptOptions{MaxSuggestions: 5})
		require.NoError(t, err)

		assert.Contains(t, prompt, "src/a.ts")
		assert.Contains(t, prompt, "+const x = 1;")
	})

	t.Run("context section present iff bundle non-empty", func(t *testing.T) {
		without, err := builder.Build(files, ContextBundle{}, PromptOptions{})
		require.NoError(t, err)
		assert.NotContains(t, without, "Project context")

		bundle := ContextBundle{Entries: []ContextEntry{{Path: "package.json", Content: `{"name":"widgets"}`}}}
		with, err := builder.Build(files, bundle, PromptOptions{ContextBudgetChars: 4000})
		require.NoError(t, err)
		assert.Contains(t, with, "Project context")
		assert.Contains(t, with, "=== package.json ===")
		assert.Contains(t, with, `{"name":"widgets"}`)
	})

	t.Run("custom instructions are appended", func(t *testing.T) {
		prompt, err := builder.Build(files, ContextBundle{}, PromptOptions{
			CustomInstructions: []string{"Focus on error handling."},
		})
		require.NoError(t, err)
		assert.Contains(t, prompt, "Focus on error handling.")
	})

	t.Run("suggestion cap lands in the closing directive", func(t *testing.T) {
		prompt, err := builder.Build(files, ContextBundle{}, PromptOptions{MaxSuggestions: 3})
		require.NoError(t, err)
		assert.Contains(t, prompt, "the 3 most important")
	})

	t.Run("deterministic", func(t *testing.T) {
		opts := PromptOptions{MaxSuggestions: 5, ContextBudgetChars: 100}
		first, err := builder.Build(files, ContextBundle{}, opts)
		require.NoError(t, err)
		second, err := builder.Build(files, ContextBundle{}, opts)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no diff text is an empty-result error", func(t *testing.T) {
		_, err := builder.Build([]github.ChangedFile{{Filename: "a.bin"}}, ContextBundle{}, PromptOptions{})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrEmptyResult)
	})
}
