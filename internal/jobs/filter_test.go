package jobs

import (
	"testing"

	"github.com/sevigo/review-pilot/internal/config"
	"github.com/sevigo/review-pilot/internal/github"
)

func TestFilterFiles(t *testing.T) {
	files := []github.ChangedFile{
		{Filename: "main.go", Patch: "+x"},
		{Filename: "logo.png", Patch: ""},
		{Filename: "script.py", Patch: "+y"},
		{Filename: "notes.txt", Patch: "+z"},
	}

	tests := []struct {
		name    string
		policy  config.FileFilterPolicy
		allowed []string
		want    []string
	}{
		{
			name:   "patch policy drops empty patches",
			policy: config.FilterHasPatch,
			want:   []string{"main.go", "script.py", "notes.txt"},
		},
		{
			name:   "none keeps everything",
			policy: config.FilterNone,
			want:   []string{"main.go", "logo.png", "script.py", "notes.txt"},
		},
		{
			name:    "extension allow-list",
			policy:  config.FilterExtensions,
			allowed: []string{".go"},
			want:    []string{"main.go"},
		},
		{
			name:    "extensions without leading dot",
			policy:  config.FilterExtensions,
			allowed: []string{"go", "py"},
			want:    []string{"main.go", "script.py"},
		},
		{
			name:   "extensions policy falls back to code defaults",
			policy: config.FilterExtensions,
			want:   []string{"main.go", "script.py"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFiles(tt.policy, tt.allowed, files)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d files, want %d (%v)", len(got), len(tt.want), got)
			}
			for i, f := range got {
				if f.Filename != tt.want[i] {
					t.Errorf("file %d: got %s, want %s", i, f.Filename, tt.want[i])
				}
			}
		})
	}

	t.Run("empty input stays empty", func(t *testing.T) {
		if got := FilterFiles(config.FilterHasPatch, nil, nil); len(got) != 0 {
			t.Errorf("expected empty result, got %v", got)
		}
	})
}
