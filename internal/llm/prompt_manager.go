// Package llm composes review prompts and talks to the completion provider.
package llm

import (
	"bytes"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// ModelProvider selects a provider-specific prompt variant.
type ModelProvider string

// PromptKey names a prompt template family.
type PromptKey string

const (
	// DefaultProvider is the fallback variant used when no provider-specific
	// template exists.
	DefaultProvider ModelProvider = "default"

	// CodeReviewPrompt is the pull-request review instruction template.
	CodeReviewPrompt PromptKey = "code_review"
)

// PromptManager loads the embedded prompt templates. Filenames follow
// key_provider.prompt; tone and persona live in the templates, never in
// pipeline code.
type PromptManager struct {
	prompts map[PromptKey]map[ModelProvider]*template.Template
}

// NewPromptManager parses every embedded prompt file.
func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{
		prompts: make(map[PromptKey]map[ModelProvider]*template.Template),
	}

	files, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded prompts directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		name := file.Name()
		base := strings.TrimSuffix(name, filepath.Ext(name))
		sep := strings.LastIndex(base, "_")
		if sep <= 0 || sep == len(base)-1 {
			return nil, fmt.Errorf("invalid prompt filename %q (expected key_provider.prompt)", name)
		}

		content, err := promptFiles.ReadFile("prompts/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded prompt %s: %w", name, err)
		}

		key := PromptKey(base[:sep])
		provider := ModelProvider(base[sep+1:])
		if err := pm.register(key, provider, string(content)); err != nil {
			return nil, fmt.Errorf("failed to register prompt %s: %w", name, err)
		}
	}

	return pm, nil
}

func (pm *PromptManager) register(key PromptKey, provider ModelProvider, content string) error {
	tmpl, err := template.New(string(key) + "_" + string(provider)).Parse(content)
	if err != nil {
		return fmt.Errorf("could not parse template: %w", err)
	}

	if _, ok := pm.prompts[key]; !ok {
		pm.prompts[key] = make(map[ModelProvider]*template.Template)
	}
	pm.prompts[key][provider] = tmpl
	return nil
}

// Render executes the template for key, preferring the provider variant and
// falling back to the default one.
func (pm *PromptManager) Render(key PromptKey, provider ModelProvider, data any) (string, error) {
	variants, ok := pm.prompts[key]
	if !ok {
		return "", fmt.Errorf("no prompts found for key %q", key)
	}

	tmpl, ok := variants[provider]
	if !ok {
		if tmpl, ok = variants[DefaultProvider]; !ok {
			return "", fmt.Errorf("no template for key %q and provider %q, and no default available", key, provider)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}
