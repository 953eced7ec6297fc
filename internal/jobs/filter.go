// Package jobs defines background tasks such as automated code reviews.
package jobs

import (
	"path/filepath"
	"strings"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/github"
)

// defaultCodeExtensions is the fallback allow-list when the extensions
// policy is selected without an explicit list.
var defaultCodeExtensions = []string{
	".go", ".js", ".ts", ".tsx", ".jsx",
	".py", ".java", ".c", ".cpp", ".h", ".hpp",
	".rs", ".rb", ".php", ".cs", ".swift", ".kt", ".scala",
}

// FilterFiles applies the configured changed-file relevance policy. The
// returned slice preserves input order. Filtered-out files are gone entirely;
// an empty result means there is nothing to review.
func FilterFiles(policy config.FileFilterPolicy, allowed []string, files []github.ChangedFile) []github.ChangedFile {
	switch policy {
	case config.FilterNone:
		return files
	case config.FilterExtensions:
		if len(allowed) == 0 {
			allowed = defaultCodeExtensions
		}
		return filterByExtension(files, allowed)
	default: // FilterHasPatch
		kept := make([]github.ChangedFile, 0, len(files))
		for _, f := range files {
			if f.Patch != "" {
				kept = append(kept, f)
			}
		}
		return kept
	}
}

func filterByExtension(files []github.ChangedFile, allowed []string) []github.ChangedFile {
	set := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[strings.ToLower(ext)] = struct{}{}
	}

	kept := make([]github.ChangedFile, 0, len(files))
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		if _, ok := set[ext]; ok {
			kept = append(kept, f)
		}
	}
	return kept
}
