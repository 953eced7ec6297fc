package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RepoOverridesPath is the per-repository settings file, fetched from the
// pull request's repository on every review.
const RepoOverridesPath = ".review-pilot.yml"

// ErrOverridesParsing marks an unparseable per-repo settings file. The
// review proceeds with deployment defaults when this happens.
var ErrOverridesParsing = errors.New("repo overrides parsing failed")

// RepoOverrides is the structure of the optional .review-pilot.yml file a
// repository may carry to tune its own reviews.
type RepoOverrides struct {
	// Extra instructions appended to the review prompt.
	CustomInstructions []string `yaml:"custom_instructions"`

	// Changed-file filter policy override: patch, extensions or none.
	FilterPolicy string `yaml:"filter_policy"`

	// Extension allow-list used with the extensions policy.
	AllowedExtensions []string `yaml:"allowed_extensions"`

	// Manifest filenames probed for review context.
	ContextFiles []string `yaml:"context_files"`

	// Character cap for the concatenated context block.
	ContextBudgetChars int `yaml:"context_budget_chars"`

	// Cap on suggested fixes requested from the model.
	MaxSuggestions int `yaml:"max_suggestions"`
}

// ParseRepoOverrides decodes a fetched .review-pilot.yml document.
func ParseRepoOverrides(data []byte) (*RepoOverrides, error) {
	var o RepoOverrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOverridesParsing, err)
	}
	if o.FilterPolicy != "" && !FileFilterPolicy(o.FilterPolicy).Valid() {
		return nil, fmt.Errorf("%w: unknown filter_policy %q", ErrOverridesParsing, o.FilterPolicy)
	}
	return &o, nil
}

// Apply merges the overrides over a copy of the deployment review settings.
// Zero values leave the corresponding setting untouched.
func (o *RepoOverrides) Apply(base ReviewConfig) ReviewConfig {
	merged := base
	if o == nil {
		return merged
	}
	if o.FilterPolicy != "" {
		merged.FilterPolicy = FileFilterPolicy(o.FilterPolicy)
	}
	if len(o.AllowedExtensions) > 0 {
		merged.AllowedExtensions = append([]string(nil), o.AllowedExtensions...)
	}
	if len(o.ContextFiles) > 0 {
		merged.ContextFiles = append([]string(nil), o.ContextFiles...)
	}
	if o.ContextBudgetChars > 0 {
		merged.ContextBudgetChars = o.ContextBudgetChars
	}
	if o.MaxSuggestions > 0 {
		merged.MaxSuggestions = o.MaxSuggestions
	}
	return merged
}
