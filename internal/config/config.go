// Package config loads and validates the application configuration. All
// settings are resolved once at process start and handed to components by
// reference; nothing reads the environment after startup.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/sevigo/review-pilot/internal/logger"
)

// Authentication modes for talking to the hosting platform.
const (
	AuthModeApp   = "app"   // GitHub App: mint an installation token per event
	AuthModeToken = "token" // single static token for every event
)

// FileFilterPolicy names the changed-file relevance filter applied before
// prompt construction. Different deployments of this lineage filtered
// differently, so the policy is configuration, not code.
type FileFilterPolicy string

const (
	// FilterHasPatch keeps files that carry a non-empty textual diff.
	FilterHasPatch FileFilterPolicy = "patch"
	// FilterExtensions keeps files whose extension is on the allow-list.
	FilterExtensions FileFilterPolicy = "extensions"
	// FilterNone keeps every changed file.
	FilterNone FileFilterPolicy = "none"
)

// Valid reports whether the policy is one of the named variants.
func (p FileFilterPolicy) Valid() bool {
	switch p {
	case FilterHasPatch, FilterExtensions, FilterNone:
		return true
	default:
		return false
	}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// GitHubConfig holds hosting-platform credentials.
type GitHubConfig struct {
	AuthMode       string
	AppID          int64
	PrivateKeyPath string
	WebhookSecret  string
	Token          string
}

// AIConfig holds completion-provider settings.
type AIConfig struct {
	LLMProvider    string
	GeneratorModel string
	OllamaHost     string
	GeminiAPIKey   string
}

// ReviewConfig holds the review pipeline policy knobs.
type ReviewConfig struct {
	FilterPolicy       FileFilterPolicy
	AllowedExtensions  []string
	ContextFiles       []string
	ContextBudgetChars int
	DiscoverContext    bool
	MaxSuggestions     int
	CommentPrefix      string
}

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig
	GitHub     GitHubConfig
	AI         AIConfig
	Review     ReviewConfig
	Logging    logger.Config
	MaxWorkers int
}

// defaultContextFiles are the manifest filenames probed for review context
// when a deployment does not configure its own list.
var defaultContextFiles = []string{
	"package.json",
	"go.mod",
	"Cargo.toml",
	"pom.xml",
	"requirements.txt",
	"build.gradle",
	"Gemfile",
	"composer.json",
}

// LoadConfig reads configuration from environment variables and an optional
// .env file, applies defaults, and validates required fields.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_OUTPUT", "stdout")
	v.SetDefault("MAX_WORKERS", 5)

	v.SetDefault("GITHUB_AUTH_MODE", AuthModeApp)
	v.SetDefault("GITHUB_PRIVATE_KEY_PATH", "keys/review-pilot.private-key.pem")

	v.SetDefault("LLM_PROVIDER", "ollama")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("GENERATOR_MODEL_NAME", "gemma3:latest")

	v.SetDefault("REVIEW_FILTER_POLICY", string(FilterHasPatch))
	v.SetDefault("REVIEW_ALLOWED_EXTENSIONS", "")
	v.SetDefault("REVIEW_CONTEXT_FILES", "")
	v.SetDefault("REVIEW_CONTEXT_BUDGET_CHARS", 4000)
	v.SetDefault("REVIEW_DISCOVER_CONTEXT", false)
	v.SetDefault("REVIEW_MAX_SUGGESTIONS", 5)
	v.SetDefault("REVIEW_COMMENT_PREFIX", "Automated review:")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A missing .env is fine; a broken one is not.
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		GitHub: GitHubConfig{
			AuthMode:       v.GetString("GITHUB_AUTH_MODE"),
			AppID:          v.GetInt64("GITHUB_APP_ID"),
			PrivateKeyPath: v.GetString("GITHUB_PRIVATE_KEY_PATH"),
			WebhookSecret:  v.GetString("GITHUB_WEBHOOK_SECRET"),
			Token:          v.GetString("GITHUB_TOKEN"),
		},
		AI: AIConfig{
			LLMProvider:    v.GetString("LLM_PROVIDER"),
			GeneratorModel: v.GetString("GENERATOR_MODEL_NAME"),
			OllamaHost:     v.GetString("OLLAMA_HOST"),
			GeminiAPIKey:   v.GetString("GEMINI_API_KEY"),
		},
		Review: ReviewConfig{
			FilterPolicy:       FileFilterPolicy(v.GetString("REVIEW_FILTER_POLICY")),
			AllowedExtensions:  splitList(v.GetString("REVIEW_ALLOWED_EXTENSIONS")),
			ContextFiles:       splitList(v.GetString("REVIEW_CONTEXT_FILES")),
			ContextBudgetChars: v.GetInt("REVIEW_CONTEXT_BUDGET_CHARS"),
			DiscoverContext:    v.GetBool("REVIEW_DISCOVER_CONTEXT"),
			MaxSuggestions:     v.GetInt("REVIEW_MAX_SUGGESTIONS"),
			CommentPrefix:      v.GetString("REVIEW_COMMENT_PREFIX"),
		},
		Logging: logger.Config{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
			Output: v.GetString("LOG_OUTPUT"),
		},
		MaxWorkers: v.GetInt("MAX_WORKERS"),
	}

	if len(cfg.Review.ContextFiles) == 0 {
		cfg.Review.ContextFiles = append([]string(nil), defaultContextFiles...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field consistency of the loaded configuration.
func (c *Config) Validate() error {
	switch c.GitHub.AuthMode {
	case AuthModeApp:
		if c.GitHub.AppID == 0 {
			return fmt.Errorf("GITHUB_APP_ID must be set for auth mode %q", AuthModeApp)
		}
		if c.GitHub.PrivateKeyPath == "" {
			return fmt.Errorf("GITHUB_PRIVATE_KEY_PATH must be set for auth mode %q", AuthModeApp)
		}
	case AuthModeToken:
		if c.GitHub.Token == "" {
			return fmt.Errorf("GITHUB_TOKEN must be set for auth mode %q", AuthModeToken)
		}
	default:
		return fmt.Errorf("unsupported GitHub auth mode: %q", c.GitHub.AuthMode)
	}

	if c.GitHub.WebhookSecret == "" {
		return fmt.Errorf("GITHUB_WEBHOOK_SECRET must be set")
	}

	if !c.Review.FilterPolicy.Valid() {
		return fmt.Errorf("unsupported file filter policy: %q", c.Review.FilterPolicy)
	}
	if c.Review.FilterPolicy == FilterExtensions && len(c.Review.AllowedExtensions) == 0 {
		return fmt.Errorf("filter policy %q requires REVIEW_ALLOWED_EXTENSIONS", FilterExtensions)
	}
	if c.Review.ContextBudgetChars < 0 {
		return fmt.Errorf("context budget must not be negative, got %d", c.Review.ContextBudgetChars)
	}

	switch c.AI.LLMProvider {
	case "ollama":
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set for the gemini provider")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %q", c.AI.LLMProvider)
	}

	return nil
}

// splitList parses a comma-separated setting into a trimmed slice.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
