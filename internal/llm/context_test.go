package llm

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sevigo/review-pilot/internal/core"
	"github.com/sevigo/review-pilot/internal/github"
)

// fakeReader implements github.Client for assembler tests.
type fakeReader struct {
	mu          sync.Mutex
	files       map[string]string   // path -> content
	searchHits  map[string][]string // filename -> paths
	failPaths   map[string]bool
	fetchCalls  int
	searchCalls int
}

func (f *fakeReader) ListChangedFiles(context.Context, string, string, int) ([]github.ChangedFile, error) {
	return nil, nil
}

func (f *fakeReader) GetFileContent(_ context.Context, _, _, path string) (string, bool, error) {
	f.mu.Lock()
	f.fetchCalls++
	f.mu.Unlock()

	if f.failPaths[path] {
		return "", false, fmt.Errorf("%w: fetch %s", core.ErrUpstreamUnavailable, path)
	}
	content, ok := f.files[path]
	return content, ok, nil
}

func (f *fakeReader) SearchFilesByName(_ context.Context, _, _ string, filename string) ([]string, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	return f.searchHits[filename], nil
}

func (f *fakeReader) CreateReview(context.Context, string, string, int, string) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestContextAssembler_Assemble(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves candidate order", func(t *testing.T) {
		reader := &fakeReader{files: map[string]string{
			"go.mod":       "module widgets",
			"package.json": `{"name":"widgets"}`,
		}}
		assembler := NewContextAssembler(reader, discardLogger())

		bundle := assembler.Assemble(ctx, "acme", "widgets", []string{"package.json", "go.mod"}, false)

		assert.Len(t, bundle.Entries, 2)
		assert.Equal(t, "package.json", bundle.Entries[0].Path)
		assert.Equal(t, "go.mod", bundle.Entries[1].Path)
	})

	t.Run("probes every candidate even when absent", func(t *testing.T) {
		reader := &fakeReader{files: map[string]string{"go.mod": "module widgets"}}
		assembler := NewContextAssembler(reader, discardLogger())

		bundle := assembler.Assemble(ctx, "acme", "widgets", []string{"package.json", "go.mod", "Cargo.toml"}, false)

		assert.Equal(t, 3, reader.fetchCalls, "fetch count must equal candidates probed, not found")
		assert.Len(t, bundle.Entries, 1)
	})

	t.Run("fetch failure shrinks the bundle", func(t *testing.T) {
		reader := &fakeReader{
			files:     map[string]string{"go.mod": "module widgets"},
			failPaths: map[string]bool{"package.json": true},
		}
		assembler := NewContextAssembler(reader, discardLogger())

		bundle := assembler.Assemble(ctx, "acme", "widgets", []string{"package.json", "go.mod"}, false)

		assert.Len(t, bundle.Entries, 1)
		assert.Equal(t, "go.mod", bundle.Entries[0].Path)
	})

	t.Run("discovery expands filenames to every hit", func(t *testing.T) {
		reader := &fakeReader{
			files: map[string]string{
				"package.json":     `{"name":"root"}`,
				"web/package.json": `{"name":"web"}`,
			},
			searchHits: map[string][]string{
				"package.json": {"package.json", "web/package.json"},
			},
		}
		assembler := NewContextAssembler(reader, discardLogger())

		bundle := assembler.Assemble(ctx, "acme", "widgets", []string{"package.json"}, true)

		assert.Equal(t, 1, reader.searchCalls)
		assert.Len(t, bundle.Entries, 2)
	})

	t.Run("no candidates yields empty bundle without calls", func(t *testing.T) {
		reader := &fakeReader{}
		assembler := NewContextAssembler(reader, discardLogger())

		bundle := assembler.Assemble(ctx, "acme", "widgets", nil, false)

		assert.True(t, bundle.Empty())
		assert.Zero(t, reader.fetchCalls)
	})
}

func TestContextBundle_Render(t *testing.T) {
	bundle := ContextBundle{Entries: []ContextEntry{
		{Path: "a.json", Content: strings.Repeat("a", 50)},
		{Path: "b.json", Content: strings.Repeat("b", 50)},
	}}

	t.Run("cap applies to the concatenation", func(t *testing.T) {
		rendered := bundle.Render(70)
		assert.Len(t, rendered, 70)
		assert.True(t, strings.HasPrefix(rendered, "=== a.json ===\n"))
		assert.NotContains(t, rendered, strings.Repeat("b", 50), "later entries are cut first")
	})

	t.Run("zero cap disables truncation", func(t *testing.T) {
		rendered := bundle.Render(0)
		assert.Contains(t, rendered, "=== b.json ===")
	})

	t.Run("empty bundle renders nothing", func(t *testing.T) {
		assert.Empty(t, ContextBundle{}.Render(100))
	})
}
