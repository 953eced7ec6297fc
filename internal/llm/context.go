package llm

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sevigo/review-pilot/internal/github"
)

// fetchConcurrency bounds parallel content fetches per review.
const fetchConcurrency = 4

// ContextEntry is one fetched context file.
type ContextEntry struct {
	Path    string
	Content string
}

// ContextBundle is the ordered set of context files found for a review.
// It is built fresh per event and never cached.
type ContextBundle struct {
	Entries []ContextEntry
}

// Empty reports whether no context file was found.
func (b ContextBundle) Empty() bool { return len(b.Entries) == 0 }

// Render concatenates "=== <path> ===\n<content>" blocks in discovery order
// and truncates the result to maxChars. The cap applies to the concatenation,
// not per file, so earlier entries survive whole before later ones are cut.
func (b ContextBundle) Render(maxChars int) string {
	if b.Empty() {
		return ""
	}

	var sb strings.Builder
	for i, e := range b.Entries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("=== ")
		sb.WriteString(e.Path)
		sb.WriteString(" ===\n")
		sb.WriteString(e.Content)
	}

	rendered := sb.String()
	if maxChars > 0 && len(rendered) > maxChars {
		rendered = rendered[:maxChars]
	}
	return rendered
}

// ContextAssembler collects supplementary repository files (manifests) to
// ground the review. Everything here is best-effort: a missing file or a
// failed fetch shrinks the bundle, it never fails the review.
type ContextAssembler struct {
	client github.Client
	logger *slog.Logger
}

// NewContextAssembler returns an assembler reading through the given client.
func NewContextAssembler(client github.Client, logger *slog.Logger) *ContextAssembler {
	return &ContextAssembler{client: client, logger: logger}
}

// Assemble probes the candidate filenames and returns the bundle of those
// that exist. With discover set, each filename is located everywhere in the
// repository via code search instead of only at the root. Candidate order is
// preserved in the result regardless of fetch completion order.
func (a *ContextAssembler) Assemble(ctx context.Context, owner, repo string, filenames []string, discover bool) ContextBundle {
	paths := a.candidatePaths(ctx, owner, repo, filenames, discover)
	if len(paths) == 0 {
		return ContextBundle{}
	}

	contents := make([]string, len(paths))
	found := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, path := range paths {
		g.Go(func() error {
			content, ok, err := a.client.GetFileContent(gctx, owner, repo, path)
			if err != nil {
				a.logger.Warn("context file fetch failed, skipping",
					"repo", owner+"/"+repo, "path", path, "error", err)
				return nil
			}
			contents[i] = content
			found[i] = ok
			return nil
		})
	}
	// Workers never return errors; Wait only joins them.
	_ = g.Wait()

	var bundle ContextBundle
	for i, path := range paths {
		if found[i] {
			bundle.Entries = append(bundle.Entries, ContextEntry{Path: path, Content: contents[i]})
		}
	}
	return bundle
}

func (a *ContextAssembler) candidatePaths(ctx context.Context, owner, repo string, filenames []string, discover bool) []string {
	if !discover {
		return filenames
	}

	var paths []string
	for _, name := range filenames {
		hits, err := a.client.SearchFilesByName(ctx, owner, repo, name)
		if err != nil || len(hits) == 0 {
			continue
		}
		paths = append(paths, hits...)
	}
	return paths
}
